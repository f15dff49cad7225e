package models

import (
	"encoding/json"
	"testing"
	"time"
)

const backendEvent = `{
	"id": 3,
	"name": "Jazz Night",
	"dateTime": "2030-05-01T19:30:00",
	"venue": "HICC",
	"address": "Pennefather Ave",
	"city": "Harare",
	"type": "Concert",
	"ispromotion": "true",
	"capacity": 500,
	"description": "Live jazz",
	"banner_url": "https://cdn.example.com/banner.jpg",
	"ticketTypes": [
		{"category": "VIP", "price": 25},
		{"category": "STANDARD", "price": 10.5}
	]
}`

func TestEventUnmarshal(t *testing.T) {
	var e Event
	if err := json.Unmarshal([]byte(backendEvent), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !bool(e.IsPromotion) {
		t.Error("ispromotion \"true\" should decode to true")
	}
	want := time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC)
	if !e.DateTime.Equal(want) {
		t.Errorf("DateTime = %v, want %v", e.DateTime.Time, want)
	}
	if e.BannerURL != "https://cdn.example.com/banner.jpg" {
		t.Errorf("BannerURL = %q", e.BannerURL)
	}
	if got := e.MinPrice(); got != 1050 {
		t.Errorf("MinPrice() = %d, want 1050", got)
	}
	if tt, ok := e.TicketType(CategoryVIP); !ok || tt.Price != 2500 {
		t.Errorf("TicketType(VIP) = %+v, %v", tt, ok)
	}
	if _, ok := e.TicketType(CategoryVVIP); ok {
		t.Error("TicketType(VVIP) should not be found")
	}
}

func TestEventMarshalKeepsBackendShape(t *testing.T) {
	e := Event{
		ID:          1,
		Name:        "Derby",
		DateTime:    DateTime{time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)},
		IsPromotion: false,
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["ispromotion"] != "false" {
		t.Errorf("ispromotion = %v, want \"false\"", raw["ispromotion"])
	}
	if raw["dateTime"] != "2030-01-02T15:00:00" {
		t.Errorf("dateTime = %v", raw["dateTime"])
	}
}

func TestEventTiming(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		at           time.Time
		wantPast     bool
		wantUpcoming bool
	}{
		{"tomorrow", now.Add(24 * time.Hour), false, true},
		{"yesterday", now.Add(-24 * time.Hour), true, false},
		{"right now", now, true, false},
		{"no date", time.Time{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{DateTime: DateTime{tt.at}}
			if got := e.IsPast(now); got != tt.wantPast {
				t.Errorf("IsPast() = %v, want %v", got, tt.wantPast)
			}
			if got := e.IsUpcoming(now); got != tt.wantUpcoming {
				t.Errorf("IsUpcoming() = %v, want %v", got, tt.wantUpcoming)
			}
		})
	}
}

func TestEventMinPriceWithoutTickets(t *testing.T) {
	e := Event{}
	if got := e.MinPrice(); got != 0 {
		t.Errorf("MinPrice() = %d, want 0", got)
	}
}

func TestEventPageNavigation(t *testing.T) {
	tests := []struct {
		page     EventPage
		hasPrev  bool
		hasNext  bool
	}{
		{EventPage{Number: 0, TotalPages: 1}, false, false},
		{EventPage{Number: 0, TotalPages: 3}, false, true},
		{EventPage{Number: 1, TotalPages: 3}, true, true},
		{EventPage{Number: 2, TotalPages: 3}, true, false},
		{EventPage{Number: 0, TotalPages: 0}, false, false},
	}

	for _, tt := range tests {
		if got := tt.page.HasPrevious(); got != tt.hasPrev {
			t.Errorf("page %d/%d HasPrevious() = %v", tt.page.Number, tt.page.TotalPages, got)
		}
		if got := tt.page.HasNext(); got != tt.hasNext {
			t.Errorf("page %d/%d HasNext() = %v", tt.page.Number, tt.page.TotalPages, got)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2030-05-01T19:30:00", time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC), false},
		{"2030-05-01T19:30", time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC), false},
		{"2030-05-01", time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"2030-05-01T19:30:00Z", time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC), false},
		{"tomorrow", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDateTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDateTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}
}

func TestDateTimeNull(t *testing.T) {
	var tk Ticket
	if err := json.Unmarshal([]byte(`{"id":"TKT1","purchasedAt":null}`), &tk); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tk.PurchasedAt.IsZero() {
		t.Errorf("PurchasedAt = %v, want zero", tk.PurchasedAt.Time)
	}
}

func TestDateTimeRoundTripKeepsFraction(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"2030-05-01T19:30:00.123456"`, `"2030-05-01T19:30:00.123456"`},
		{`"2030-05-01T19:30:00"`, `"2030-05-01T19:30:00"`},
		{`"2030-05-01T19:30:00.5+02:00"`, `"2030-05-01T19:30:00.5+02:00"`},
	}

	for _, tt := range tests {
		var d DateTime
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal %s: %v", tt.in, err)
		}
		if string(data) != tt.want {
			t.Errorf("round trip of %s = %s, want %s", tt.in, data, tt.want)
		}

		var back DateTime
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if !back.Equal(d.Time) {
			t.Errorf("reloaded %v, want %v", back.Time, d.Time)
		}
	}
}
