package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"event-storefront/internal/cart"
	"event-storefront/internal/metrics"
	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// cartView feeds the cart_summary partial.
type cartView struct {
	Event     *models.Event
	Lines     []models.CartLineItem
	Count     int
	Total     models.Amount
	CSRFToken string
}

func newCartView(store *cart.Store, csrfToken string) cartView {
	c := store.Cart()
	return cartView{
		Event:     c.Event,
		Lines:     c.Tickets,
		Count:     store.TicketCount(),
		Total:     store.Total(),
		CSRFToken: csrfToken,
	}
}

// CartHandler changes the device's cart
type CartHandler struct {
	*Base
	now func() time.Time
}

// NewCartHandler creates a new cart handler
func NewCartHandler(base *Base) *CartHandler {
	return &CartHandler{Base: base, now: time.Now}
}

// AddTicket adds one ticket of a category. Picking a ticket for another
// event starts a new cart for that event.
func (h *CartHandler) AddTicket(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	eventID, err := strconv.ParseInt(r.FormValue("event_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}
	category := models.TicketCategory(strings.ToUpper(r.FormValue("category")))
	if !category.Valid() {
		http.Error(w, "Invalid ticket category", http.StatusBadRequest)
		return
	}

	event, err := services.NewEventService(h.apiClient(r)).Get(r.Context(), eventID)
	if errors.Is(err, models.ErrEventNotFound) {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log(r).WithError(err).Error("cart: failed to load event")
		http.Error(w, "Failed to load event", http.StatusBadGateway)
		return
	}
	if event.IsPast(h.now()) {
		http.Error(w, "This event has already taken place", http.StatusConflict)
		return
	}
	ticketType, ok := event.TicketType(category)
	if !ok {
		http.Error(w, "This ticket type is not on sale", http.StatusBadRequest)
		return
	}

	store, unlock := h.lockCart(r)
	defer unlock()
	if selected := store.Event(); selected == nil || selected.ID != event.ID {
		if err := store.SetEvent(r.Context(), event); err != nil {
			h.cartFailed(w, r, err)
			return
		}
	}
	if err := store.AddTicket(r.Context(), ticketType); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	metrics.CartMutations.WithLabelValues("add").Inc()

	h.respond(w, r, store, string(category)+" ticket added to cart")
}

// UpdateQuantity sets the quantity of a category; zero removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}
	category := models.TicketCategory(strings.ToUpper(chi.URLParam(r, "category")))

	store, unlock := h.lockCart(r)
	defer unlock()
	if err := store.UpdateTicketQuantity(r.Context(), category, quantity); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	metrics.CartMutations.WithLabelValues("update").Inc()

	h.respond(w, r, store, "Cart updated")
}

// RemoveTicket drops a category from the cart
func (h *CartHandler) RemoveTicket(w http.ResponseWriter, r *http.Request) {
	category := models.TicketCategory(strings.ToUpper(chi.URLParam(r, "category")))

	store, unlock := h.lockCart(r)
	defer unlock()
	if err := store.RemoveTicket(r.Context(), category); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()

	h.respond(w, r, store, "Ticket removed from cart")
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, unlock := h.lockCart(r)
	defer unlock()
	back := cartHome(store.Event())
	if err := store.Clear(r.Context()); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()

	if middleware.IsHTMXRequest(r) {
		h.Renderer.Partial(w, http.StatusOK, "cart_summary", newCartView(store, middleware.GetCSRFToken(r.Context())))
		return
	}
	h.flash(w, r, middleware.FlashInfo, "Cart cleared")
	h.redirect(w, r, back)
}

// respond swaps the cart summary for HTMX, otherwise redirects back to the
// event with a flash.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, store *cart.Store, message string) {
	if middleware.IsHTMXRequest(r) {
		h.Renderer.Partial(w, http.StatusOK, "cart_summary", newCartView(store, middleware.GetCSRFToken(r.Context())))
		return
	}
	h.flash(w, r, middleware.FlashSuccess, message)
	h.redirect(w, r, cartHome(store.Event()))
}

func (h *CartHandler) cartFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).WithError(err).Error("cart: failed to save cart")
	http.Error(w, "Failed to update cart", http.StatusInternalServerError)
}

func cartHome(event *models.Event) string {
	if event == nil {
		return "/events"
	}
	return "/events/" + strconv.FormatInt(event.ID, 10)
}
