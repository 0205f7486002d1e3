// Package command connects a product detail page to its business logic. The
// page sends Events to a CommandAndControl, which drives the PDP reducer and
// answers with Commands for every subscribed Delegate.
//
// By default a CommandAndControl runs on its own runloop.Loop, so Receive
// returns before the event is handled and delegates are called from the loop
// goroutine.
//
// Example:
//
//	cc, err := command.New(command.Dependencies{Bag: bag, Shipping: shipping})
//	if err != nil {
//	    return err
//	}
//	defer cc.Close()
//	unsubscribe := cc.Subscribe(command.DelegateFunc(render))
//	defer unsubscribe()
//
//	cc.Receive(command.Configure{Product: product})
//	cc.Receive(command.SelectColor{Color: red})
package command

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/deferred"
	"github.com/PeqNP/CommandAndControl/jobqueue"
	"github.com/PeqNP/CommandAndControl/logic"
	"github.com/PeqNP/CommandAndControl/runloop"
	"github.com/PeqNP/CommandAndControl/viewstate"
)

// DefaultResetDelay is how long the add-to-bag confirmation stays visible.
const DefaultResetDelay = 2 * time.Second

var (
	// ErrNotConfigured is shown for events that arrive before Configure.
	ErrNotConfigured = errors.New("no product configured")
	// ErrMissingDependency is returned by New when a service is missing.
	ErrMissingDependency = errors.New("missing dependency")
)

// ShippingService looks up delivery options.
type ShippingService interface {
	ShippingInfoFor(ctx context.Context, productID catalog.ProductID) *deferred.Deferred[catalog.ShippingInfo]
}

// Reducer is the page logic the orchestrator drives. *logic.PDPLogic
// implements it.
type Reducer interface {
	State() logic.State
	ProductID() catalog.ProductID
	SelectColor(color catalog.SKUColor) (logic.State, error)
	SelectSize(size catalog.SKUSize) (logic.State, error)
	IncreaseAmount() (logic.State, error)
	DecreaseAmount() (logic.State, error)
	SetAmount(amount int) (logic.State, error)
	BeginAddToBag(ctx context.Context) (logic.State, *deferred.Deferred[catalog.BagReceipt], error)
	CompleteAddToBag(success bool) (logic.State, error)
	ResetAddToBagState() (logic.State, error)
}

// ReducerFactory creates the reducer for a newly configured product.
type ReducerFactory func(bag logic.BagService, product catalog.Product) Reducer

// NewReducer is the default ReducerFactory.
func NewReducer(bag logic.BagService, product catalog.Product) Reducer {
	return logic.New(bag, product)
}

// Dependencies are the collaborators every CommandAndControl needs.
// ViewStates defaults to viewstate.NewFactory("").
type Dependencies struct {
	Bag        logic.BagService
	Shipping   ShippingService
	ViewStates viewstate.Factory
}

// Option configures a CommandAndControl.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	resetDelay time.Duration
	executor   runloop.Executor
	scheduler  runloop.Scheduler
	reducers   ReducerFactory
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithResetDelay sets how long Added is shown before returning to Add.
func WithResetDelay(d time.Duration) Option {
	return func(o *options) { o.resetDelay = d }
}

// WithExecutor sets the thread of control every event and continuation runs
// on. Defaults to a runloop.Loop owned by the CommandAndControl and stopped by
// Close. runloop.Inline is only accepted together with WithScheduler, since
// timers would otherwise fire on their own goroutine.
func WithExecutor(exec runloop.Executor) Option {
	return func(o *options) { o.executor = exec }
}

// WithScheduler sets the scheduler for the add-to-bag reset. Defaults to a
// runloop.TimerScheduler on the executor, stopped by Close.
func WithScheduler(s runloop.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithReducerFactory replaces how reducers are created.
func WithReducerFactory(f ReducerFactory) Option {
	return func(o *options) { o.reducers = f }
}

// CommandAndControl turns page events into reducer calls and commands.
//
// Every event and every service continuation runs on the configured
// executor, so the reducer and the job queue only ever see one caller.
// Subscribe and Close may be called from any goroutine.
type CommandAndControl struct {
	bag        logic.BagService
	shipping   ShippingService
	viewStates viewstate.Factory

	exec          runloop.Executor
	ownsLoop      *runloop.Loop
	scheduler     runloop.Scheduler
	ownsScheduler *runloop.TimerScheduler
	resetDelay    time.Duration
	reducers      ReducerFactory

	baseLogger *zap.Logger
	logger     *zap.Logger
	sessionID  uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	delegates subscribers

	// Owned by the executor.
	reducer   Reducer
	queue     *jobqueue.Queue
	configGen uint64
	resetGen  uint64
}

// New creates a CommandAndControl.
func New(deps Dependencies, opts ...Option) (*CommandAndControl, error) {
	if deps.Bag == nil {
		return nil, fmt.Errorf("%w: bag service is required", ErrMissingDependency)
	}
	if deps.Shipping == nil {
		return nil, fmt.Errorf("%w: shipping service is required", ErrMissingDependency)
	}

	o := options{
		logger:     zap.NewNop(),
		resetDelay: DefaultResetDelay,
		reducers:   NewReducer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if _, inline := o.executor.(runloop.Inline); inline && o.scheduler == nil {
		return nil, fmt.Errorf("%w: an inline executor needs a scheduler", ErrMissingDependency)
	}

	c := &CommandAndControl{
		bag:        deps.Bag,
		shipping:   deps.Shipping,
		viewStates: deps.ViewStates,
		exec:       o.executor,
		scheduler:  o.scheduler,
		resetDelay: o.resetDelay,
		reducers:   o.reducers,
		sessionID:  uuid.New(),
		queue:      jobqueue.New(),
	}
	if c.viewStates == nil {
		c.viewStates = viewstate.NewFactory("")
	}
	if c.exec == nil {
		c.ownsLoop = runloop.NewLoop()
		c.exec = c.ownsLoop
	}
	if c.scheduler == nil {
		c.ownsScheduler = runloop.NewTimerScheduler(c.exec)
		c.scheduler = c.ownsScheduler
	}
	c.baseLogger = o.logger.With(zap.String("session_id", c.sessionID.String()))
	c.logger = c.baseLogger
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// SessionID identifies this page session in logs.
func (c *CommandAndControl) SessionID() uuid.UUID {
	return c.sessionID
}

// Subscribe registers d for every command emitted from now on. The returned
// function unregisters it; calling it more than once is harmless.
func (c *CommandAndControl) Subscribe(d Delegate) (unsubscribe func()) {
	if c.closed.Load() {
		return func() {}
	}
	return c.delegates.add(d)
}

// Receive handles an event on the executor. After Close it does nothing.
func (c *CommandAndControl) Receive(event Event) {
	c.post(func() { c.handle(event) })
}

// Close tears the page down. Pending service calls see a cancelled context,
// the reset timer is dropped, subscribers are released, and any callback
// that still arrives is ignored. Close may be called from a Delegate.
func (c *CommandAndControl) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.cancel()
	if c.ownsScheduler != nil {
		c.ownsScheduler.Stop()
	}
	if c.ownsLoop != nil {
		c.ownsLoop.Stop()
	}
	c.delegates.clear()
	c.baseLogger.Debug("page closed")
}

// post runs fn on the executor unless the page has been closed.
func (c *CommandAndControl) post(fn func()) {
	if c.closed.Load() {
		return
	}
	c.exec.Post(func() {
		if c.closed.Load() {
			return
		}
		fn()
	})
}

func (c *CommandAndControl) handle(event Event) {
	if e, ok := event.(Configure); ok {
		c.configure(e.Product)
		return
	}
	if c.reducer == nil {
		c.logger.Warn("event before configure", zap.String("event", eventName(event)))
		c.emit(ShowError{Err: ErrNotConfigured})
		return
	}

	switch e := event.(type) {
	case ViewReady:
		c.logger.Debug("view ready")
		c.update(c.reducer.State())

	case SelectSize:
		c.logger.Debug("selecting size", zap.String("size", e.Size.Name))
		c.apply(c.reducer.SelectSize(e.Size))

	case SelectColor:
		c.logger.Debug("selecting colour", zap.String("color", e.Color.Name))
		c.apply(c.reducer.SelectColor(e.Color))

	case IncreaseAmount:
		c.logger.Debug("increasing amount")
		c.apply(c.reducer.IncreaseAmount())

	case DecreaseAmount:
		c.logger.Debug("decreasing amount")
		c.apply(c.reducer.DecreaseAmount())

	case SetAmount:
		c.logger.Debug("setting amount", zap.Int("amount", e.Amount))
		c.apply(c.reducer.SetAmount(e.Amount))

	case AddToBagTapped:
		c.logger.Debug("add to bag tapped")
		c.addToBag()

	case RequestShippingInfo:
		c.logger.Debug("requesting shipping info")
		c.requestShippingInfo()

	case TappedMoreInfo:
		c.emit(ShowMoreInfo{})

	case TappedCarouselImage:
		c.emit(ShowImageGallery{})

	case TappedRecommendedProduct:
		c.logger.Debug("routing to product", zap.Int64("target_product_id", int64(e.ProductID)))
		c.emit(RouteToPDP{ProductID: e.ProductID})
	}
}

func (c *CommandAndControl) configure(product catalog.Product) {
	c.reducer = c.reducers(c.bag, product)
	c.configGen++
	c.resetGen++
	c.logger = c.baseLogger.With(zap.Int64("product_id", int64(product.ID)))
	c.logger.Info("configured product",
		zap.String("name", product.Name),
		zap.Int("skus", len(product.SKUs)))
	c.update(c.reducer.State())
}

// stale reports whether a product was configured after gen.
func (c *CommandAndControl) stale(gen uint64) bool {
	return gen != c.configGen
}

// addToBag queues: show loading, begin, hide loading, then wait for the bag.
// The wait is last so the page is not blocked while the request is in
// flight, but later jobs still queue behind it. A request outlives its
// product: if another product is configured meanwhile, the result is dropped.
func (c *CommandAndControl) addToBag() {
	var pending *deferred.Deferred[catalog.BagReceipt]
	gen := c.configGen

	c.queue.
		Then(c.showLoadingIndicator).
		Then(func() {
			if c.stale(gen) {
				c.logger.Debug("skipping add to bag for a replaced product")
				return
			}
			state, p, err := c.reducer.BeginAddToBag(c.ctx)
			if err != nil {
				c.reject(err)
				return
			}
			pending = p
			c.update(state)
		}).
		Then(c.hideLoadingIndicator).
		ThenAsync(func(done func()) {
			if pending == nil {
				done()
				return
			}
			pending.OnComplete(func(receipt catalog.BagReceipt, err error) {
				c.post(func() {
					if c.stale(gen) {
						c.logger.Info("dropping add to bag result for a replaced product",
							zap.Int64("sku_id", int64(receipt.SKUID)),
							zap.Error(err))
					} else {
						c.finishAddToBag(receipt, err)
					}
					done()
				})
			})
		}).
		Run()
}

func (c *CommandAndControl) finishAddToBag(receipt catalog.BagReceipt, serviceErr error) {
	if serviceErr != nil {
		c.logger.Warn("bag service failed", zap.Error(serviceErr))
		state, err := c.reducer.CompleteAddToBag(false)
		c.update(state)
		c.reject(err)
		return
	}

	c.logger.Info("added to bag",
		zap.String("line_id", receipt.LineID.String()),
		zap.Int64("sku_id", int64(receipt.SKUID)),
		zap.Int("quantity", receipt.Quantity))
	state, err := c.reducer.CompleteAddToBag(true)
	if err != nil {
		c.reject(err)
		return
	}
	c.update(state)
	c.scheduleReset()
}

// scheduleReset returns the button to Add after the reset delay. Only the
// most recent schedule is honoured.
func (c *CommandAndControl) scheduleReset() {
	c.resetGen++
	gen := c.resetGen
	c.scheduler.After(c.resetDelay, func() {
		c.post(func() {
			if gen != c.resetGen {
				return
			}
			c.apply(c.reducer.ResetAddToBagState())
		})
	})
}

func (c *CommandAndControl) requestShippingInfo() {
	productID := c.reducer.ProductID()
	gen := c.configGen

	c.queue.
		Then(c.showLoadingIndicator).
		ThenAsync(func(done func()) {
			c.shipping.ShippingInfoFor(c.ctx, productID).OnComplete(func(info catalog.ShippingInfo, err error) {
				c.post(func() {
					switch {
					case c.stale(gen):
						c.logger.Info("dropping shipping info for a replaced product",
							zap.Int64("stale_product_id", int64(productID)))
					case err != nil:
						c.logger.Warn("shipping service failed", zap.Error(err))
						c.emit(ShowError{Err: err})
					default:
						c.emit(ShowShippingInfo{ViewState: c.viewStates.ShippingInfo(info)})
					}
					done()
				})
			})
		}).
		Then(c.hideLoadingIndicator).
		Run()
}

func (c *CommandAndControl) showLoadingIndicator() {
	c.emit(ShowLoadingIndicator{})
}

func (c *CommandAndControl) hideLoadingIndicator() {
	c.emit(HideLoadingIndicator{})
}

// apply emits the outcome of a reducer call.
func (c *CommandAndControl) apply(state logic.State, err error) {
	if err != nil {
		c.reject(err)
		return
	}
	c.update(state)
}

func (c *CommandAndControl) update(state logic.State) {
	c.emit(Update{ViewState: c.viewStates.PDP(state)})
}

func (c *CommandAndControl) reject(err error) {
	c.logger.Warn("operation rejected",
		zap.String("code", logic.Code(err).String()),
		zap.Error(err))
	c.emit(ShowError{Err: err})
}

func (c *CommandAndControl) emit(cmd Command) {
	for _, d := range c.delegates.snapshot() {
		d.Command(cmd)
	}
}

func eventName(event Event) string {
	switch event.(type) {
	case Configure:
		return "Configure"
	case ViewReady:
		return "ViewReady"
	case SelectSize:
		return "SelectSize"
	case SelectColor:
		return "SelectColor"
	case IncreaseAmount:
		return "IncreaseAmount"
	case DecreaseAmount:
		return "DecreaseAmount"
	case SetAmount:
		return "SetAmount"
	case AddToBagTapped:
		return "AddToBagTapped"
	case RequestShippingInfo:
		return "RequestShippingInfo"
	case TappedMoreInfo:
		return "TappedMoreInfo"
	case TappedCarouselImage:
		return "TappedCarouselImage"
	case TappedRecommendedProduct:
		return "TappedRecommendedProduct"
	default:
		return "Unknown"
	}
}
