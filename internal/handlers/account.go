package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
)

// AccountHandler serves the signed-in shopper's own pages
type AccountHandler struct {
	*Base
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(base *Base) *AccountHandler {
	return &AccountHandler{Base: base}
}

type ticketTab struct {
	Value  services.TicketFilter
	Label  string
	Active bool
}

type myTicketsView struct {
	Tabs    []ticketTab
	Tickets []models.Ticket
	Error   string
}

// MyTicketsPage lists purchased tickets under all/upcoming/past tabs
func (h *AccountHandler) MyTicketsPage(w http.ResponseWriter, r *http.Request) {
	filter := services.ParseTicketFilter(r.URL.Query().Get("filter"))
	view := myTicketsView{
		Tabs: []ticketTab{
			{Value: services.TicketsAll, Label: "All Tickets"},
			{Value: services.TicketsUpcoming, Label: "Upcoming"},
			{Value: services.TicketsPast, Label: "Past"},
		},
	}
	for i := range view.Tabs {
		view.Tabs[i].Active = view.Tabs[i].Value == filter
	}

	tickets, err := services.NewTicketService(h.apiClient(r)).MyTickets(r.Context(), filter)
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		h.redirect(w, r, "/login?redirect="+url.QueryEscape(r.URL.RequestURI()))
		return
	case err != nil:
		h.log(r).WithError(err).Warn("tickets: failed to load tickets")
		view.Error = "Failed to load tickets"
	default:
		view.Tickets = tickets
	}
	h.render(w, r, http.StatusOK, "my_tickets", "My Tickets", view)
}

type profileView struct {
	Claims *services.TokenClaims
}

// ProfilePage shows the current user
func (h *AccountHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserFromContext(r.Context()) == nil {
		h.redirect(w, r, "/login?redirect=%2Fprofile")
		return
	}
	view := profileView{}
	if claims, err := h.authService(r).Claims(r.Context()); err == nil {
		view.Claims = claims
	}
	h.render(w, r, http.StatusOK, "profile", "Profile", view)
}
