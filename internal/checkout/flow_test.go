package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/cart"
	"event-storefront/internal/models"
	"event-storefront/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurchaser struct {
	mu     sync.Mutex
	calls  []*models.PurchaseRequest
	result *models.PurchaseResult
	err    error
	block  chan struct{}
}

func (p *fakePurchaser) Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.result, p.err
}

func (p *fakePurchaser) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	store := cart.Load(ctx, storage.NewMemoryStore(), quietLogger())
	event := &models.Event{
		ID:   3,
		Name: "Victoria Falls Carnival",
		TicketTypes: []models.TicketType{
			{Category: models.CategoryStandard, Price: models.NewAmount(10, 0)},
			{Category: models.CategoryVIP, Price: models.NewAmount(25, 0)},
		},
	}
	require.NoError(t, store.SetEvent(ctx, event))
	require.NoError(t, store.AddTicket(ctx, event.TicketTypes[0]))
	require.NoError(t, store.AddTicket(ctx, event.TicketTypes[0]))
	require.NoError(t, store.AddTicket(ctx, event.TicketTypes[1]))
	return store
}

func recorder() (func(from, to State), func() []State) {
	var mu sync.Mutex
	var seen []State
	return func(_, to State) {
			mu.Lock()
			seen = append(seen, to)
			mu.Unlock()
		}, func() []State {
			mu.Lock()
			defer mu.Unlock()
			return append([]State(nil), seen...)
		}
}

func TestSubmitSuccess(t *testing.T) {
	store := filledCart(t)
	p := &fakePurchaser{result: &models.PurchaseResult{Success: true, Message: "Enjoy the show", TransactionID: "TXN1"}}
	observe, seen := recorder()
	flow := NewFlow(store, p, quietLogger(), WithObserver(observe))

	out := flow.Submit(context.Background(), validForm())

	assert.Equal(t, StateSuccess, out.State)
	assert.Equal(t, RedirectAfterOrder, out.Redirect)
	require.NotNil(t, out.Notice)
	assert.Equal(t, NoticeSuccess, out.Notice.Level)
	assert.Equal(t, "Enjoy the show", out.Notice.Message)
	assert.Equal(t, []State{StateValidating, StateSubmitting, StateSuccess}, seen())

	require.Equal(t, 1, p.callCount())
	req := p.calls[0]
	assert.Equal(t, int64(3), req.EventID)
	assert.Equal(t, []models.PurchaseTicket{
		{Category: models.CategoryStandard, Quantity: 2},
		{Category: models.CategoryVIP, Quantity: 1},
	}, req.Tickets)
	assert.Equal(t, "tendai@example.com", req.CustomerEmail)

	assert.True(t, store.IsEmpty())
	assert.Nil(t, store.Event())
}

func TestSubmitSuccessDefaultMessage(t *testing.T) {
	store := filledCart(t)
	p := &fakePurchaser{result: &models.PurchaseResult{Success: true}}

	out := NewFlow(store, p, quietLogger()).Submit(context.Background(), validForm())

	require.NotNil(t, out.Notice)
	assert.Equal(t, MsgSuccess, out.Notice.Message)
}

func TestSubmitInvalidFormDoesNotPurchase(t *testing.T) {
	store := filledCart(t)
	p := &fakePurchaser{result: &models.PurchaseResult{Success: true}}
	observe, seen := recorder()
	flow := NewFlow(store, p, quietLogger(), WithObserver(observe))

	form := validForm()
	form.CustomerEmail = "not-an-email"
	out := flow.Submit(context.Background(), form)

	assert.Equal(t, StateIdle, out.State)
	assert.Equal(t, "Invalid email format", out.Errors.Get("customerEmail"))
	assert.Equal(t, form, out.Form)
	assert.Nil(t, out.Notice)
	assert.Zero(t, p.callCount())
	assert.Equal(t, 3, store.TicketCount())
	assert.Equal(t, []State{StateValidating, StateIdle}, seen())
}

func TestSubmitEmptyCart(t *testing.T) {
	store := cart.Load(context.Background(), storage.NewMemoryStore(), quietLogger())
	p := &fakePurchaser{result: &models.PurchaseResult{Success: true}}

	out := NewFlow(store, p, quietLogger()).Submit(context.Background(), validForm())

	assert.Equal(t, StateIdle, out.State)
	assert.Equal(t, RedirectEmptyCart, out.Redirect)
	require.NotNil(t, out.Notice)
	assert.Equal(t, MsgEmptyCart, out.Notice.Message)
	assert.Zero(t, p.callCount())
}

func TestSubmitEventWithoutTickets(t *testing.T) {
	ctx := context.Background()
	store := cart.Load(ctx, storage.NewMemoryStore(), quietLogger())
	require.NoError(t, store.SetEvent(ctx, &models.Event{ID: 1}))

	out := NewFlow(store, &fakePurchaser{}, quietLogger()).Submit(ctx, validForm())

	assert.Equal(t, RedirectEmptyCart, out.Redirect)
	assert.Equal(t, MsgEmptyCart, out.Notice.Message)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	tests := []struct {
		name   string
		result *models.PurchaseResult
		err    error
		want   string
	}{
		{
			name:   "refused with server message",
			result: &models.PurchaseResult{Success: false, Message: "Insufficient funds"},
			want:   "Insufficient funds",
		},
		{
			name:   "refused without message",
			result: &models.PurchaseResult{Success: false},
			want:   MsgFailed,
		},
		{
			name: "api error with message",
			err:  &api.Error{StatusCode: http.StatusConflict, Message: "Not enough VIP tickets left"},
			want: "Not enough VIP tickets left",
		},
		{
			name: "api error without message",
			err:  &api.Error{StatusCode: http.StatusInternalServerError},
			want: "request failed with status 500",
		},
		{
			name: "wrapped api error without message",
			err:  fmt.Errorf("purchase: %w", &api.Error{StatusCode: http.StatusBadGateway}),
			want: "request failed with status 502",
		},
		{
			name: "transport error",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
		{
			name: "nil result",
			want: MsgFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := filledCart(t)
			before := store.Cart()
			p := &fakePurchaser{result: tt.result, err: tt.err}
			observe, seen := recorder()
			flow := NewFlow(store, p, quietLogger(), WithObserver(observe))

			form := validForm()
			out := flow.Submit(context.Background(), form)

			assert.Equal(t, StateIdle, out.State)
			assert.Empty(t, out.Redirect)
			require.NotNil(t, out.Notice)
			assert.Equal(t, NoticeError, out.Notice.Level)
			assert.Equal(t, tt.want, out.Notice.Message)
			assert.Equal(t, form, out.Form)
			assert.Equal(t, before, store.Cart())
			assert.Equal(t, StateIdle, flow.State())
			assert.Equal(t, []State{StateValidating, StateSubmitting, StateFailure, StateIdle}, seen())
		})
	}
}

func TestSubmitTimeout(t *testing.T) {
	store := filledCart(t)
	p := &fakePurchaser{block: make(chan struct{})}
	flow := NewFlow(store, p, quietLogger(), WithTimeout(20*time.Millisecond))

	out := flow.Submit(context.Background(), validForm())

	require.NotNil(t, out.Notice)
	assert.Equal(t, MsgTimedOut, out.Notice.Message)
	assert.Equal(t, 3, store.TicketCount())
	assert.Equal(t, StateIdle, flow.State())
}

func TestSubmitWhileSubmitting(t *testing.T) {
	store := filledCart(t)
	p := &fakePurchaser{
		block:  make(chan struct{}),
		result: &models.PurchaseResult{Success: true},
	}
	flow := NewFlow(store, p, quietLogger())

	done := make(chan Outcome, 1)
	go func() {
		done <- flow.Submit(context.Background(), validForm())
	}()

	require.Eventually(t, func() bool {
		return flow.State() == StateSubmitting
	}, time.Second, 5*time.Millisecond)

	second := flow.Submit(context.Background(), validForm())
	assert.Equal(t, StateSubmitting, second.State)
	require.NotNil(t, second.Notice)
	assert.Equal(t, MsgAlreadyRunning, second.Notice.Message)

	close(p.block)
	first := <-done
	assert.Equal(t, StateSuccess, first.State)
	assert.Equal(t, 1, p.callCount())
}

func TestGuard(t *testing.T) {
	g := NewGuard()

	release, err := g.Acquire("device-1")
	require.NoError(t, err)

	_, err = g.Acquire("device-1")
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	other, err := g.Acquire("device-2")
	require.NoError(t, err)
	other()

	release()
	again, err := g.Acquire("device-1")
	require.NoError(t, err)
	again()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "unknown", State(42).String())
}
