package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// featuredCount is how many promoted events the home page shows.
const featuredCount = 6

// PublicHandler serves the pages anyone can see
type PublicHandler struct {
	*Base
	now func() time.Time
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(base *Base) *PublicHandler {
	return &PublicHandler{Base: base, now: time.Now}
}

type homeView struct {
	Featured    []*models.Event
	Unavailable bool
}

// HomePage renders the landing page with featured events
func (h *PublicHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	view := homeView{}
	page, err := services.NewEventService(h.apiClient(r)).Browse(r.Context(), models.EventFilter{
		IsPromotion: "true",
		Size:        featuredCount,
	})
	if err != nil {
		// the page still renders, just without events
		h.log(r).WithError(err).Warn("home: failed to load featured events")
		view.Unavailable = true
	} else {
		view.Featured = lo.ToSlicePtr(page.Content)
	}
	h.render(w, r, http.StatusOK, "home", "", view)
}

type paginationView struct {
	TotalPages int
	Current    int
	PrevURL    string
	NextURL    string
}

type eventsView struct {
	Filter      models.EventFilter
	Cities      []string
	Types       []string
	Events      []*models.Event
	Pagination  paginationView
	Unavailable bool
}

// EventsPage renders the filterable event listing
func (h *PublicHandler) EventsPage(w http.ResponseWriter, r *http.Request) {
	filter := models.FilterFromQuery(r.URL.Query())
	view := eventsView{
		Filter: filter,
		Cities: models.Cities,
		Types:  models.EventTypes,
	}

	page, err := services.NewEventService(h.apiClient(r)).Browse(r.Context(), filter)
	if err != nil {
		h.log(r).WithError(err).Warn("events: failed to load listing")
		view.Unavailable = true
		h.render(w, r, http.StatusOK, "events", "Events", view)
		return
	}

	view.Events = lo.ToSlicePtr(page.Content)
	view.Pagination = paginationView{
		TotalPages: page.TotalPages,
		Current:    page.Number + 1,
	}
	if page.HasPrevious() {
		view.Pagination.PrevURL = "/events?" + filter.WithPage(page.Number-1).Query().Encode()
	}
	if page.HasNext() {
		view.Pagination.NextURL = "/events?" + filter.WithPage(page.Number+1).Query().Encode()
	}
	h.render(w, r, http.StatusOK, "events", "Events", view)
}

type eventView struct {
	Event            *models.Event
	Past             bool
	Cart             cartView
	OtherEventInCart string
}

// EventPage renders one event with its ticket types and the cart
func (h *PublicHandler) EventPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.notFound(w, r, "Event not found")
		return
	}

	event, err := services.NewEventService(h.apiClient(r)).Get(r.Context(), id)
	if errors.Is(err, models.ErrEventNotFound) {
		h.notFound(w, r, "Event not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to load event")
		return
	}

	store := h.cartStore(r)
	view := eventView{
		Event: event,
		Past:  event.IsPast(h.now()),
		Cart:  newCartView(store, middleware.GetCSRFToken(r.Context())),
	}
	if selected := store.Event(); selected != nil && selected.ID != event.ID && !store.IsEmpty() {
		view.OtherEventInCart = selected.Name
	}
	h.render(w, r, http.StatusOK, "event", event.Name, view)
}
