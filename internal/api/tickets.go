package api

import (
	"context"
	"net/url"

	"event-storefront/internal/models"
)

// PurchaseTickets calls POST /tickets/purchase.
func (c *Client) PurchaseTickets(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResult, error) {
	var out models.PurchaseResult
	if err := c.post(ctx, "/tickets/purchase", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyTickets calls GET /tickets/my for the authenticated user.
func (c *Client) MyTickets(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	if err := c.get(ctx, "/tickets/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateTicket calls POST /tickets/validate with a scanned QR payload.
func (c *Client) ValidateTicket(ctx context.Context, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
	var out models.TicketCheckResult
	if err := c.post(ctx, "/tickets/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RedeemTicket calls POST /tickets/redeem.
func (c *Client) RedeemTicket(ctx context.Context, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
	var out models.TicketCheckResult
	if err := c.post(ctx, "/tickets/redeem", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransaction calls GET /payments/{reference}.
func (c *Client) GetTransaction(ctx context.Context, reference string) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.get(ctx, "/payments/"+url.PathEscape(reference), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
