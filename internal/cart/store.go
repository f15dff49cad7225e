// Package cart holds the shopper's in-progress order and keeps it in
// device-local storage so it survives reloads.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"event-storefront/internal/models"
	"event-storefront/internal/storage"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Store is the single owner of the cart key. Every mutation writes the full
// snapshot before returning.
type Store struct {
	mu     sync.Mutex
	kv     storage.KeyValueStore
	logger *logrus.Logger
	cart   models.Cart
}

// Load restores the saved cart. A missing or unreadable snapshot yields the
// empty cart; a corrupt one is logged and discarded.
func Load(ctx context.Context, kv storage.KeyValueStore, logger *logrus.Logger) *Store {
	s := &Store{kv: kv, logger: logger, cart: models.NewCart()}

	raw, ok, err := kv.Get(ctx, storage.CartKey)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("cart: failed to read saved cart")
		return s
	}
	if !ok || raw == "" {
		return s
	}

	var saved models.Cart
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("cart: discarding corrupt saved cart")
		return s
	}
	if saved.Tickets == nil {
		saved.Tickets = []models.CartLineItem{}
	}
	s.cart = saved
	return s
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() models.Cart {
	c := s.cart
	c.Tickets = append([]models.CartLineItem{}, s.cart.Tickets...)
	if s.cart.CustomerInfo != nil {
		info := *s.cart.CustomerInfo
		c.CustomerInfo = &info
	}
	return c
}

// Event returns the selected event, or nil.
func (s *Store) Event() *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Event
}

// SetEvent selects event and drops every line item.
func (s *Store) SetEvent(ctx context.Context, event *models.Event) error {
	return s.mutate(ctx, func(c *models.Cart) {
		c.Event = event
		c.Tickets = []models.CartLineItem{}
	})
}

// AddTicket adds one ticket of the given type, incrementing an existing line.
// The caller ensures the type belongs to the selected event.
func (s *Store) AddTicket(ctx context.Context, tt models.TicketType) error {
	return s.mutate(ctx, func(c *models.Cart) {
		for i := range c.Tickets {
			if c.Tickets[i].Category == tt.Category {
				c.Tickets[i].Quantity++
				return
			}
		}
		c.Tickets = append(c.Tickets, models.CartLineItem{
			Category: tt.Category,
			Price:    tt.Price,
			Quantity: 1,
		})
	})
}

// UpdateTicketQuantity sets an absolute quantity; zero or less removes the line.
func (s *Store) UpdateTicketQuantity(ctx context.Context, category models.TicketCategory, quantity int) error {
	if quantity <= 0 {
		return s.RemoveTicket(ctx, category)
	}
	return s.mutate(ctx, func(c *models.Cart) {
		for i := range c.Tickets {
			if c.Tickets[i].Category == category {
				c.Tickets[i].Quantity = quantity
			}
		}
	})
}

// RemoveTicket drops the line for category if present.
func (s *Store) RemoveTicket(ctx context.Context, category models.TicketCategory) error {
	return s.mutate(ctx, func(c *models.Cart) {
		c.Tickets = lo.Reject(c.Tickets, func(item models.CartLineItem, _ int) bool {
			return item.Category == category
		})
	})
}

// SetCustomerInfo remembers the buyer details with the cart.
func (s *Store) SetCustomerInfo(ctx context.Context, info *models.CustomerInfo) error {
	return s.mutate(ctx, func(c *models.Cart) {
		c.CustomerInfo = info
	})
}

// Total is the sum of price times quantity over all lines.
func (s *Store) Total() models.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.SumBy(s.cart.Tickets, func(item models.CartLineItem) models.Amount {
		return item.Subtotal()
	})
}

// TicketCount is the sum of all quantities.
func (s *Store) TicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.SumBy(s.cart.Tickets, func(item models.CartLineItem) int {
		return item.Quantity
	})
}

// IsEmpty reports whether there is nothing to check out.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Event == nil || len(s.cart.Tickets) == 0
}

// Clear resets to the empty cart and erases the saved copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, storage.CartKey); err != nil {
		return fmt.Errorf("failed to erase saved cart: %w", err)
	}
	s.cart = models.NewCart()
	return nil
}

// mutate applies fn and persists the result. A failed write restores the
// previous cart so memory never runs ahead of storage.
func (s *Store) mutate(ctx context.Context, fn func(c *models.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()
	fn(&s.cart)
	if err := s.persist(ctx); err != nil {
		s.cart = prev
		return err
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, storage.CartKey, string(data)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
