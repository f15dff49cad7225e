package services

import (
	"context"
	"net/http"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/models"

	"github.com/samber/lo"
)

// TicketFilter selects which purchased tickets to show.
type TicketFilter string

const (
	TicketsAll      TicketFilter = "all"
	TicketsUpcoming TicketFilter = "upcoming"
	TicketsPast     TicketFilter = "past"
)

// ParseTicketFilter defaults unknown values to all.
func ParseTicketFilter(s string) TicketFilter {
	switch TicketFilter(s) {
	case TicketsUpcoming, TicketsPast:
		return TicketFilter(s)
	}
	return TicketsAll
}

// TicketService lists and checks purchased tickets.
type TicketService struct {
	client *api.Client
	now    func() time.Time
}

func NewTicketService(client *api.Client) *TicketService {
	return &TicketService{client: client, now: time.Now}
}

// MyTickets lists the shopper's tickets narrowed by filter.
func (s *TicketService) MyTickets(ctx context.Context, filter TicketFilter) ([]models.Ticket, error) {
	if !s.client.HasToken() {
		return nil, models.ErrNotAuthenticated
	}
	tickets, err := s.client.MyTickets(ctx)
	if api.IsStatus(err, http.StatusUnauthorized) {
		return nil, models.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	return lo.Filter(tickets, func(t models.Ticket, _ int) bool {
		switch filter {
		case TicketsUpcoming:
			return t.IsUpcoming(now)
		case TicketsPast:
			return t.Event != nil && !t.IsUpcoming(now)
		}
		return true
	}), nil
}

// Validate asks the backend whether a scanned ticket is good.
func (s *TicketService) Validate(ctx context.Context, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
	return s.client.ValidateTicket(ctx, req)
}

// Redeem marks a scanned ticket as used.
func (s *TicketService) Redeem(ctx context.Context, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
	return s.client.RedeemTicket(ctx, req)
}

// Transaction looks up a payment by reference.
func (s *TicketService) Transaction(ctx context.Context, reference string) (*models.Transaction, error) {
	return s.client.GetTransaction(ctx, reference)
}
