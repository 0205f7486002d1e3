package command

import (
	"sync"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/viewstate"
)

// Command is an instruction for the page. The set is closed.
type Command interface {
	isCommand()
}

// Update redraws the page.
type Update struct {
	ViewState viewstate.PDPViewState
}

// ShowLoadingIndicator blocks the page while work is in progress.
type ShowLoadingIndicator struct{}

// HideLoadingIndicator unblocks the page.
type HideLoadingIndicator struct{}

// ShowShippingInfo presents delivery options.
type ShowShippingInfo struct {
	ViewState viewstate.ShippingInfoViewState
}

// ShowMoreInfo opens the product description.
type ShowMoreInfo struct{}

// ShowImageGallery opens the full-screen image gallery.
type ShowImageGallery struct{}

// RouteToPDP navigates to another product.
type RouteToPDP struct {
	ProductID catalog.ProductID
}

// ShowError presents a failure. Err is a *logic.Error for rejected
// operations, or the service's error for failed requests.
type ShowError struct {
	Err error
}

func (Update) isCommand()               {}
func (ShowLoadingIndicator) isCommand() {}
func (HideLoadingIndicator) isCommand() {}
func (ShowShippingInfo) isCommand()     {}
func (ShowMoreInfo) isCommand()         {}
func (ShowImageGallery) isCommand()     {}
func (RouteToPDP) isCommand()           {}
func (ShowError) isCommand()            {}

// Delegate receives commands.
type Delegate interface {
	Command(cmd Command)
}

// DelegateFunc adapts a function to a Delegate.
type DelegateFunc func(cmd Command)

// Command calls f(cmd).
func (f DelegateFunc) Command(cmd Command) {
	f(cmd)
}

// subscribers is an ordered set of delegates.
type subscribers struct {
	mu      sync.Mutex
	nextID  int
	entries []subscriber
}

type subscriber struct {
	id       int
	delegate Delegate
}

func (s *subscribers) add(d Delegate) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, subscriber{id: id, delegate: d})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *subscribers) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *subscribers) snapshot() []Delegate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Delegate, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.delegate
	}
	return out
}

func (s *subscribers) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
