package models

import "time"

// TicketCategory is a tier of admission
type TicketCategory string

const (
	CategoryStandard TicketCategory = "STANDARD"
	CategoryVIP      TicketCategory = "VIP"
	CategoryVVIP     TicketCategory = "VVIP"
)

// AllTicketCategories lists the categories in display order.
var AllTicketCategories = []TicketCategory{CategoryStandard, CategoryVIP, CategoryVVIP}

// Valid reports whether c is one of the known categories.
func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryStandard, CategoryVIP, CategoryVVIP:
		return true
	}
	return false
}

// TicketType is a priced tier owned by an event
type TicketType struct {
	Category TicketCategory `json:"category"`
	Price    Amount         `json:"price"`
}

// Ticket is a purchased ticket as listed under "my tickets"
type Ticket struct {
	ID          string         `json:"id"`
	Event       *Event         `json:"event,omitempty"`
	Category    TicketCategory `json:"category"`
	Price       Amount         `json:"price"`
	Redeemed    bool           `json:"redeemed"`
	PurchasedAt DateTime       `json:"purchasedAt"`
}

// Status is the label shown on the ticket card.
func (t *Ticket) Status() string {
	if t.Redeemed {
		return "REDEEMED"
	}
	return "ACTIVE"
}

// IsUpcoming reports whether the ticket's event is still ahead.
func (t *Ticket) IsUpcoming(now time.Time) bool {
	return t.Event != nil && t.Event.IsUpcoming(now)
}

// TicketCheckRequest is the QR payload admins submit to validate or redeem
type TicketCheckRequest struct {
	TicketID string         `json:"ticketId"`
	EventID  int64          `json:"eventId,omitempty"`
	Type     TicketCategory `json:"type,omitempty"`
}

// TicketCheckResult is the backend's answer to a validate or redeem call
type TicketCheckResult struct {
	Valid   bool   `json:"valid"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
