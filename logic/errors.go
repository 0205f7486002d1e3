package logic

// StatusCode represents the category of a rejected operation.
type StatusCode int

const (
	StatusFailedPrecondition StatusCode = iota
	StatusOutOfRange
	StatusUnavailable
)

func (s StatusCode) String() string {
	switch s {
	case StatusFailedPrecondition:
		return "FAILED_PRECONDITION"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// ErrorKind identifies why the PDP logic rejected an operation.
type ErrorKind int

const (
	KindSKUNotSelected ErrorKind = iota + 1
	KindOperationInProgress
	KindAmountExceeded
	KindFailedToAddSKUToBag
)

func (k ErrorKind) String() string {
	switch k {
	case KindSKUNotSelected:
		return "SKUNotSelected"
	case KindOperationInProgress:
		return "OperationInProgress"
	case KindAmountExceeded:
		return "AmountExceeded"
	case KindFailedToAddSKUToBag:
		return "FailedToAddSKUToBag"
	default:
		return "Unknown"
	}
}

// Status returns the category the kind belongs to.
func (k ErrorKind) Status() StatusCode {
	switch k {
	case KindAmountExceeded:
		return StatusOutOfRange
	case KindFailedToAddSKUToBag:
		return StatusUnavailable
	default:
		return StatusFailedPrecondition
	}
}

// Error message constants for the PDP domain.
const (
	ErrMsgSKUNotSelected      = "Select a colour and size first"
	ErrMsgOperationInProgress = "Already adding to bag"
	ErrMsgAmountExceeded      = "Cannot add more than 99 to the bag"
	ErrMsgFailedToAddSKUToBag = "Failed to add item to bag"
)

// Error is returned when the PDP logic rejects an operation. Two Errors
// match under errors.Is when their kinds match.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes errors.Is compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Status returns the error's category.
func (e *Error) Status() StatusCode {
	return e.Kind.Status()
}

// NewError creates an Error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Sentinels for errors.Is.
var (
	ErrSKUNotSelected      = NewError(KindSKUNotSelected, ErrMsgSKUNotSelected)
	ErrOperationInProgress = NewError(KindOperationInProgress, ErrMsgOperationInProgress)
	ErrAmountExceeded      = NewError(KindAmountExceeded, ErrMsgAmountExceeded)
	ErrFailedToAddSKUToBag = NewError(KindFailedToAddSKUToBag, ErrMsgFailedToAddSKUToBag)
)
