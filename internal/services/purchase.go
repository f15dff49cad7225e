package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/models"

	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// Purchaser turns a purchase request into a result. Whether it reaches a
// real backend or a stand-in is decided at wiring time.
type Purchaser interface {
	Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error)
}

// PurchaserFactory builds the purchaser for a client authenticated as the
// current shopper.
type PurchaserFactory func(client *api.Client) Purchaser

// APIPurchaser calls POST /tickets/purchase.
type APIPurchaser struct {
	client *api.Client
}

func NewAPIPurchaser(client *api.Client) *APIPurchaser {
	return &APIPurchaser{client: client}
}

func (p *APIPurchaser) Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error) {
	return p.client.PurchaseTickets(ctx, req)
}

// Decider chooses whether a stubbed purchase succeeds.
type Decider func(req *models.PurchaseRequest) bool

// AlwaysSucceed and AlwaysFail are deterministic deciders for tests and demos.
func AlwaysSucceed(*models.PurchaseRequest) bool { return true }
func AlwaysFail(*models.PurchaseRequest) bool    { return false }

// RandomDecider succeeds with probability rate using its own seeded source.
func RandomDecider(rate float64, seed int64) Decider {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(seed))
	return func(*models.PurchaseRequest) bool {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64() < rate
	}
}

// StubPurchaser fabricates an outcome after a fixed delay. It never touches
// the network.
type StubPurchaser struct {
	delay  time.Duration
	decide Decider
	logger *logrus.Logger
}

func NewStubPurchaser(delay time.Duration, decide Decider, logger *logrus.Logger) *StubPurchaser {
	if decide == nil {
		decide = AlwaysSucceed
	}
	return &StubPurchaser{delay: delay, decide: decide, logger: logger}
}

func (p *StubPurchaser) Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	log := p.logger.WithContext(ctx).WithFields(logrus.Fields{
		"event_id":       req.EventID,
		"payment_method": req.PaymentMethod,
	})

	if !p.decide(req) {
		log.Info("stub purchase: declined")
		return &models.PurchaseResult{
			Success:       false,
			Message:       "Payment was declined. Please try again.",
			PaymentMethod: req.PaymentMethod,
		}, nil
	}

	txn := "TXN" + shortuuid.New()
	log.WithField("transaction_id", txn).Info("stub purchase: approved")
	return &models.PurchaseResult{
		Success:       true,
		Message:       "Payment successful! Your tickets have been purchased.",
		TransactionID: txn,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

// NewPurchaserFactory picks the purchase backend by mode: "stub" always uses
// stub, anything else calls the API.
func NewPurchaserFactory(mode string, stub *StubPurchaser) PurchaserFactory {
	if mode == "stub" && stub != nil {
		return func(*api.Client) Purchaser { return stub }
	}
	return func(client *api.Client) Purchaser { return NewAPIPurchaser(client) }
}
