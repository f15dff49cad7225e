package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-storefront/internal/checkout"
	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/validation"
	"event-storefront/web"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	renderer, err := NewRenderer(web.Templates, logger)
	require.NoError(t, err)
	return renderer
}

func sampleEvent() *models.Event {
	return &models.Event{
		ID:          4,
		Name:        "Victoria Falls Carnival",
		DateTime:    models.DateTime{Time: time.Date(2031, 12, 30, 19, 30, 0, 0, time.UTC)},
		Venue:       "Rainforest",
		Address:     "Park Way",
		City:        "Victoria Falls",
		Type:        "Festival",
		IsPromotion: true,
		Capacity:    3000,
		Description: "Three nights of music by the falls.",
		TicketTypes: []models.TicketType{
			{Category: models.CategoryStandard, Price: models.NewAmount(45, 0)},
			{Category: models.CategoryVVIP, Price: models.NewAmount(150, 50)},
		},
	}
}

func sampleCart(csrf string) cartView {
	event := sampleEvent()
	return cartView{
		Event: event,
		Lines: []models.CartLineItem{
			{Category: models.CategoryStandard, Price: models.NewAmount(45, 0), Quantity: 2},
		},
		Count:     2,
		Total:     models.NewAmount(90, 0),
		CSRFToken: csrf,
	}
}

func TestRendererPages(t *testing.T) {
	renderer := newTestRenderer(t)
	user := &models.User{Username: "tendai", FirstName: "Tendai", LastName: "Moyo", Email: "tendai@example.com", Role: models.RoleAdmin}
	event := sampleEvent()

	tests := []struct {
		page string
		data any
		want []string
	}{
		{
			page: "home",
			data: homeView{Featured: []*models.Event{event}},
			want: []string{"Victoria Falls Carnival", "FEATURED", "From <strong>$45.00</strong>"},
		},
		{
			page: "home",
			data: homeView{Unavailable: true},
			want: []string{"Events could not be loaded right now."},
		},
		{
			page: "events",
			data: eventsView{
				Filter:     models.EventFilter{City: "Victoria Falls"},
				Cities:     models.Cities,
				Types:      models.EventTypes,
				Events:     []*models.Event{event},
				Pagination: paginationView{TotalPages: 3, Current: 2, PrevURL: "/events?page=0", NextURL: "/events?page=2"},
			},
			want: []string{"Page 2 of 3", `<option value="Victoria Falls" selected>`, "December 30, 2031"},
		},
		{
			page: "event",
			data: eventView{Event: event, Cart: sampleCart("tok"), OtherEventInCart: "Jazz Night"},
			want: []string{"FEATURED EVENT", "$150.50", "Tickets: 2", "replaces the tickets for Jazz Night"},
		},
		{
			page: "event",
			data: eventView{Event: event, Past: true},
			want: []string{"Event has ended", "Your cart is empty."},
		},
		{
			page: "checkout",
			data: checkoutView{
				Fields:         checkout.Fields(),
				PaymentMethods: models.PaymentMethods,
				Form:           checkout.Form{CustomerName: "Tendai Moyo", PaymentMethod: models.PaymentZimSwitch},
				Errors:         validation.FieldErrors{"customerEmail": "Email is required"},
				Notice:         &checkout.Notice{Level: checkout.NoticeError, Message: "Insufficient funds"},
				Cart:           sampleCart("tok"),
			},
			want: []string{
				`value="Tendai Moyo"`,
				"Email is required",
				`value="ZIMSWITCH" checked`,
				"INTERNATIONAL CARD",
				"notice-error",
				"Insufficient funds",
				"Pay $90.00",
			},
		},
		{
			page: "my_tickets",
			data: myTicketsView{
				Tabs: []ticketTab{{Value: services.TicketsAll, Label: "All Tickets", Active: true}},
				Tickets: []models.Ticket{
					{ID: "TKT1", Event: event, Category: models.CategoryVVIP, Price: models.NewAmount(150, 50), Redeemed: true},
				},
			},
			want: []string{"TKT1", "REDEEMED", "Victoria Falls Carnival", `aria-current="page"`},
		},
		{
			page: "my_tickets",
			data: myTicketsView{Error: "Failed to load tickets"},
			want: []string{"Failed to load tickets", "No tickets found."},
		},
		{
			page: "login",
			data: loginView{Error: "Invalid username or password", Redirect: "/checkout"},
			want: []string{"Invalid username or password", `value="/checkout"`},
		},
		{
			page: "signup",
			data: signupView{Errors: validation.FieldErrors{"confirmPassword": "Passwords do not match"}},
			want: []string{"Passwords do not match"},
		},
		{
			page: "profile",
			data: profileView{Claims: &services.TokenClaims{Subject: "tendai", ExpiresAt: time.Date(2031, 1, 2, 3, 4, 0, 0, time.UTC)}},
			want: []string{"@tendai", "ADMIN", "Session expires"},
		},
		{
			page: "admin_dashboard",
			data: dashboardView{Events: []*models.Event{event}, TotalEvents: 1, Upcoming: 1, Featured: 1},
			want: []string{`href="/admin/events/4/edit"`},
		},
		{
			page: "admin_event_form",
			data: eventFormView{
				Form:   models.EventFormFromEvent(event),
				Errors: validation.FieldErrors{"_": "Admin access required"},
				EventID: 4,
				Action: "/admin/events/4/edit",
				Cities: models.Cities,
				Types:  models.EventTypes,
				Prices: []priceField{{Category: models.CategoryStandard, Value: "45.00"}},
			},
			want: []string{"Edit Event", "Admin access required", `name="price_STANDARD" value="45.00"`, `value="2031-12-30T19:30"`},
		},
		{
			page: "admin_tickets",
			data: ticketCheckView{
				Categories:  models.AllTicketCategories,
				Action:      "Redemption",
				Result:      &models.TicketCheckResult{Success: true, Message: "Ticket redeemed"},
				Transaction: &models.Transaction{Reference: "TXN9", Status: "COMPLETED", Amount: 4500, PaymentMethod: models.PaymentEcoCash},
			},
			want: []string{"Redemption:", "Ticket redeemed", "Payment TXN9", "$45.00"},
		},
		{
			page: "not_found",
			data: messageView{Message: "Event not found"},
			want: []string{"Event not found"},
		},
		{
			page: "error",
			data: messageView{Message: "Failed to load event"},
			want: []string{"Failed to load event"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			renderer.Page(rec, http.StatusOK, tt.page, &PageData{
				Title:     "Test",
				User:      user,
				CSRFToken: "tok",
				Flashes:   []middleware.Flash{{Level: middleware.FlashSuccess, Message: "Saved"}},
				CartCount: 2,
				Data:      tt.data,
			})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			body := rec.Body.String()
			assert.Contains(t, body, "<title>Test - EventHub</title>")
			assert.Contains(t, body, "Cart (2)")
			assert.Contains(t, body, `<div class="notice notice-success" role="alert">Saved</div>`)
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestRendererUnknownPage(t *testing.T) {
	renderer := newTestRenderer(t)

	rec := httptest.NewRecorder()
	renderer.Page(rec, http.StatusOK, "missing", &PageData{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to render page")
}

func TestRendererCartPartial(t *testing.T) {
	renderer := newTestRenderer(t)

	rec := httptest.NewRecorder()
	renderer.Partial(rec, http.StatusOK, "cart_summary", sampleCart("tok"))
	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `id="cart-summary"`)
	assert.Contains(t, body, `name="csrf_token" value="tok"`)
	assert.Contains(t, body, "Total: $90.00")
	assert.NotContains(t, body, "<html")

	rec = httptest.NewRecorder()
	renderer.Partial(rec, http.StatusOK, "cart_summary", cartView{Event: sampleEvent()})
	assert.Contains(t, rec.Body.String(), "No tickets selected yet.")
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/checkout", "/checkout"},
		{"/events?city=Harare", "/events?city=Harare"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
		{`/\evil.example.com`, "/"},
		{"events", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirect(tt.in), tt.in)
	}
}

func TestEventFormFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/events/create", nil)
	req.Form = map[string][]string{
		"name":           {"Kadoma Expo"},
		"dateTime":       {"2031-03-01T09:00"},
		"city":           {"Kadoma"},
		"capacity":       {" 120 "},
		"ispromotion":    {"true"},
		"price_STANDARD": {" 3.50 "},
		"price_VIP":      {""},
	}

	form := eventFormFromRequest(req)
	assert.Equal(t, "Kadoma Expo", form.Name)
	assert.Equal(t, models.EventTypes[0], form.Type, "type falls back to the first option")
	assert.Equal(t, "true", form.IsPromotion)
	assert.Equal(t, "120", form.Capacity)
	assert.Equal(t, "3.50", form.Prices[models.CategoryStandard])
	assert.Empty(t, form.Prices[models.CategoryVIP])
	assert.Empty(t, form.Prices[models.CategoryVVIP])
}
