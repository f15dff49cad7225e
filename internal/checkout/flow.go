// Package checkout drives the cart from a filled-in form to a completed (or
// refused) purchase.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/cart"
	"event-storefront/internal/models"
	"event-storefront/internal/validation"

	"github.com/sirupsen/logrus"
)

// State is where a Flow is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

const (
	MsgEmptyCart       = "Your cart is empty"
	MsgSuccess         = "Purchase successful!"
	MsgFailed          = "Purchase failed. Please try again."
	MsgTimedOut        = "The payment is taking too long. Please try again."
	MsgAlreadyRunning  = "Your purchase is already being processed."
	DefaultTimeout     = 30 * time.Second
	RedirectEmptyCart  = "/events"
	RedirectAfterOrder = "/my-tickets"
)

// ErrSubmitInProgress is returned by Acquire while another submission for
// the same key has not finished.
var ErrSubmitInProgress = errors.New("checkout: submission already in progress")

// NoticeLevel colours a notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is the transient message shown after a submit.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Outcome reports what a Submit did. Redirect is empty when the shopper
// stays on the checkout page.
type Outcome struct {
	State    State
	Form     Form
	Errors   validation.FieldErrors
	Notice   *Notice
	Redirect string
	Result   *models.PurchaseResult
}

// Purchaser performs the purchase call.
type Purchaser interface {
	Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error)
}

// Option configures a Flow.
type Option func(*Flow)

// WithTimeout bounds how long a purchase may take. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) { f.timeout = d }
}

// WithObserver is called on every state change.
func WithObserver(fn func(from, to State)) Option {
	return func(f *Flow) { f.observe = fn }
}

// Flow is the checkout state machine for one shopper's cart.
type Flow struct {
	mu        sync.Mutex
	state     State
	cart      *cart.Store
	purchaser Purchaser
	timeout   time.Duration
	logger    *logrus.Logger
	observe   func(from, to State)
}

func NewFlow(store *cart.Store, purchaser Purchaser, logger *logrus.Logger, opts ...Option) *Flow {
	f := &Flow{
		state:     StateIdle,
		cart:      store,
		purchaser: purchaser,
		timeout:   DefaultTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) transition(to State) {
	f.mu.Lock()
	from := f.state
	f.state = to
	f.mu.Unlock()
	if f.observe != nil && from != to {
		f.observe(from, to)
	}
}

// begin moves Idle (or a finished state) to Validating. It refuses while a
// purchase is in flight.
func (f *Flow) begin() bool {
	f.mu.Lock()
	if f.state == StateSubmitting || f.state == StateValidating {
		f.mu.Unlock()
		return false
	}
	from := f.state
	f.state = StateValidating
	f.mu.Unlock()
	if f.observe != nil {
		f.observe(from, StateValidating)
	}
	return true
}

// Submit validates form, purchases the cart contents and reports the result.
// The cart is cleared only when the backend confirms the purchase.
func (f *Flow) Submit(ctx context.Context, form Form) Outcome {
	if !f.begin() {
		return Outcome{
			State:  StateSubmitting,
			Form:   form,
			Notice: &Notice{Level: NoticeInfo, Message: MsgAlreadyRunning},
		}
	}

	if errs := form.Validate(); !errs.Empty() {
		f.transition(StateIdle)
		return Outcome{State: StateIdle, Form: form, Errors: errs}
	}

	c := f.cart.Cart()
	if c.Event == nil || len(c.Tickets) == 0 {
		f.transition(StateIdle)
		return Outcome{
			State:    StateIdle,
			Form:     form,
			Notice:   &Notice{Level: NoticeError, Message: MsgEmptyCart},
			Redirect: RedirectEmptyCart,
		}
	}

	f.transition(StateSubmitting)
	req := form.Request(c)
	log := f.logger.WithContext(ctx).WithFields(logrus.Fields{
		"event_id":       req.EventID,
		"payment_method": req.PaymentMethod,
		"tickets":        f.cart.TicketCount(),
	})

	pctx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	result, err := f.purchaser.Purchase(pctx, req)
	if err != nil {
		log.WithError(err).Warn("purchase failed")
		return f.fail(form, nil, failureMessage(nil, err))
	}
	if result == nil || !result.Success {
		log.Info("purchase refused")
		return f.fail(form, result, failureMessage(result, nil))
	}

	f.transition(StateSuccess)
	if err := f.cart.Clear(ctx); err != nil {
		log.WithError(err).Error("failed to clear cart after purchase")
	}
	log.WithField("transaction_id", result.TransactionID).Info("purchase completed")

	msg := result.Message
	if msg == "" {
		msg = MsgSuccess
	}
	return Outcome{
		State:    StateSuccess,
		Form:     form,
		Notice:   &Notice{Level: NoticeSuccess, Message: msg},
		Redirect: RedirectAfterOrder,
		Result:   result,
	}
}

func (f *Flow) fail(form Form, result *models.PurchaseResult, msg string) Outcome {
	f.transition(StateFailure)
	f.transition(StateIdle)
	return Outcome{
		State:  StateIdle,
		Form:   form,
		Notice: &Notice{Level: NoticeError, Message: msg},
		Result: result,
	}
}

// failureMessage prefers the backend's message, then the error text, then a
// generic fallback.
func failureMessage(result *models.PurchaseResult, err error) string {
	if result != nil && result.Message != "" {
		return result.Message
	}
	if err == nil {
		return MsgFailed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimedOut
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgFailed
}

// Guard serialises submissions per key (a device id) across requests, since
// each request builds its own Flow.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// Acquire marks key busy. The returned release must be called when the
// submission is over.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return nil, ErrSubmitInProgress
	}
	g.inflight[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}, nil
}
