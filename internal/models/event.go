package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// EventTypes are the event kinds the storefront offers in filters and forms.
var EventTypes = []string{
	"Concert",
	"Sports",
	"Conference",
	"Festival",
	"Theater",
	"Comedy",
	"Exhibition",
	"Workshop",
	"Other",
}

// Cities are the cities events are held in.
var Cities = []string{
	"Harare",
	"Bulawayo",
	"Mutare",
	"Gweru",
	"Kwekwe",
	"Kadoma",
	"Masvingo",
	"Chinhoyi",
	"Marondera",
	"Victoria Falls",
}

// Flag is a boolean the backend transports as the string "true" or "false".
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatBool(bool(f)))
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Event represents an event as served by the ticketing backend
type Event struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	DateTime    DateTime     `json:"dateTime"`
	Venue       string       `json:"venue"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Type        string       `json:"type"`
	IsPromotion Flag         `json:"ispromotion"`
	Latitude    string       `json:"latitude,omitempty"`
	Longitude   string       `json:"longitude,omitempty"`
	Capacity    int          `json:"capacity"`
	Description string       `json:"description"`
	BannerURL   string       `json:"banner_url,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	TicketTypes []TicketType `json:"ticketTypes"`
}

// TicketType returns the ticket type for category, if the event sells it.
func (e *Event) TicketType(category TicketCategory) (TicketType, bool) {
	return lo.Find(e.TicketTypes, func(tt TicketType) bool {
		return tt.Category == category
	})
}

// MinPrice is the cheapest ticket price, or zero when no tickets are on sale.
func (e *Event) MinPrice() Amount {
	if len(e.TicketTypes) == 0 {
		return 0
	}
	return lo.MinBy(e.TicketTypes, func(a, b TicketType) bool {
		return a.Price < b.Price
	}).Price
}

// IsPast reports whether the event started before now.
func (e *Event) IsPast(now time.Time) bool {
	if e.DateTime.IsZero() {
		return false
	}
	return !e.DateTime.After(now)
}

// IsUpcoming reports whether the event starts after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	if e.DateTime.IsZero() {
		return false
	}
	return e.DateTime.After(now)
}

// EventPage is one page of a paginated event listing
type EventPage struct {
	Content       []Event `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int64   `json:"totalElements"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
}

// HasNext reports whether a page after this one exists.
func (p *EventPage) HasNext() bool {
	return p.Number < p.TotalPages-1
}

// HasPrevious reports whether a page before this one exists.
func (p *EventPage) HasPrevious() bool {
	return p.Number > 0
}
