package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// AdminHandler handles the admin console. Routes are guarded by
// middleware.RequireAdmin; the backend authorises every call.
type AdminHandler struct {
	*Base
	now func() time.Time
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(base *Base) *AdminHandler {
	return &AdminHandler{Base: base, now: time.Now}
}

type dashboardView struct {
	Events      []*models.Event
	TotalEvents int64
	Upcoming    int
	Featured    int
	Unavailable bool
}

// Dashboard lists the first page of events with a few counts
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{}
	page, err := services.NewAdminEventService(h.apiClient(r)).Dashboard(r.Context())
	if err != nil {
		h.log(r).WithError(err).Warn("admin: failed to load events")
		view.Unavailable = true
		h.render(w, r, http.StatusOK, "admin_dashboard", "Admin", view)
		return
	}

	now := h.now()
	view.Events = lo.ToSlicePtr(page.Content)
	view.TotalEvents = page.TotalElements
	view.Upcoming = lo.CountBy(page.Content, func(e models.Event) bool { return e.IsUpcoming(now) })
	view.Featured = lo.CountBy(page.Content, func(e models.Event) bool { return bool(e.IsPromotion) })
	h.render(w, r, http.StatusOK, "admin_dashboard", "Admin", view)
}

type priceField struct {
	Category models.TicketCategory
	Value    string
}

type eventFormView struct {
	Form    models.EventForm
	Errors  validation.FieldErrors
	EventID int64
	Action  string
	Cities  []string
	Types   []string
	Prices  []priceField
}

// CreateEventPage renders the blank event editor
func (h *AdminHandler) CreateEventPage(w http.ResponseWriter, r *http.Request) {
	h.renderEventForm(w, r, http.StatusOK, 0, models.NewEventForm(), validation.FieldErrors{})
}

// CreateEvent handles the create form submission
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	form := eventFormFromRequest(r)

	event, err := services.NewAdminEventService(h.apiClient(r)).Create(r.Context(), form)
	if err != nil {
		h.eventFormFailed(w, r, 0, form, err)
		return
	}

	h.log(r).WithField("event_id", event.ID).Info("admin: event created")
	h.flash(w, r, middleware.FlashSuccess, "Event created successfully")
	h.redirect(w, r, "/admin")
}

// EditEventPage renders the editor prefilled from an existing event
func (h *AdminHandler) EditEventPage(w http.ResponseWriter, r *http.Request) {
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
	h.renderEventForm(w, r, http.StatusOK, id, models.EventFormFromEvent(event), validation.FieldErrors{})
}

// UpdateEvent handles the edit form submission
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.notFound(w, r, "Event not found")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	form := eventFormFromRequest(r)

	_, err = services.NewAdminEventService(h.apiClient(r)).Update(r.Context(), id, form)
	if errors.Is(err, models.ErrEventNotFound) {
		h.notFound(w, r, "Event not found")
		return
	}
	if err != nil {
		h.eventFormFailed(w, r, id, form, err)
		return
	}

	h.log(r).WithField("event_id", id).Info("admin: event updated")
	h.flash(w, r, middleware.FlashSuccess, "Event updated successfully")
	h.redirect(w, r, "/admin")
}

func (h *AdminHandler) eventFormFailed(w http.ResponseWriter, r *http.Request, id int64, form models.EventForm, err error) {
	if errs, ok := services.IsFieldErrors(err); ok {
		h.renderEventForm(w, r, http.StatusUnprocessableEntity, id, form, errs)
		return
	}

	msg := "Failed to save event"
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	h.log(r).WithError(err).Error("admin: failed to save event")
	h.renderEventForm(w, r, http.StatusBadGateway, id, form, validation.FieldErrors{"_": msg})
}

func (h *AdminHandler) renderEventForm(w http.ResponseWriter, r *http.Request, status int, id int64, form models.EventForm, errs validation.FieldErrors) {
	view := eventFormView{
		Form:    form,
		Errors:  errs,
		EventID: id,
		Action:  "/admin/events/create",
		Cities:  models.Cities,
		Types:   models.EventTypes,
	}
	title := "Create Event"
	if id > 0 {
		view.Action = "/admin/events/" + strconv.FormatInt(id, 10) + "/edit"
		title = "Edit Event"
	}
	for _, category := range models.AllTicketCategories {
		view.Prices = append(view.Prices, priceField{Category: category, Value: form.Prices[category]})
	}
	h.render(w, r, status, "admin_event_form", title, view)
}

func eventFormFromRequest(r *http.Request) models.EventForm {
	form := models.NewEventForm()
	form.Name = r.FormValue("name")
	form.DateTime = r.FormValue("dateTime")
	form.Venue = r.FormValue("venue")
	form.Address = r.FormValue("address")
	form.City = r.FormValue("city")
	if t := r.FormValue("type"); t != "" {
		form.Type = t
	}
	if r.FormValue("ispromotion") == "true" {
		form.IsPromotion = "true"
	}
	form.Latitude = strings.TrimSpace(r.FormValue("latitude"))
	form.Longitude = strings.TrimSpace(r.FormValue("longitude"))
	form.Capacity = strings.TrimSpace(r.FormValue("capacity"))
	form.Description = r.FormValue("description")
	form.BannerURL = strings.TrimSpace(r.FormValue("banner_url"))
	form.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	for _, category := range models.AllTicketCategories {
		form.Prices[category] = strings.TrimSpace(r.FormValue("price_" + string(category)))
	}
	return form
}

type ticketCheckView struct {
	Request     models.TicketCheckRequest
	Categories  []models.TicketCategory
	Result      *models.TicketCheckResult
	Action      string
	Reference   string
	Transaction *models.Transaction
	Error       string
}

// TicketsPage shows the validate/redeem form and, given ?reference=, the
// payment behind a ticket.
func (h *AdminHandler) TicketsPage(w http.ResponseWriter, r *http.Request) {
	view := ticketCheckView{
		Categories: models.AllTicketCategories,
		Reference:  strings.TrimSpace(r.URL.Query().Get("reference")),
	}
	if view.Reference != "" {
		txn, err := services.NewTicketService(h.apiClient(r)).Transaction(r.Context(), view.Reference)
		switch {
		case api.IsStatus(err, http.StatusNotFound):
			view.Error = "No payment found for " + view.Reference
		case err != nil:
			h.log(r).WithError(err).Warn("admin: payment lookup failed")
			view.Error = "Failed to look up payment"
		default:
			view.Transaction = txn
		}
	}
	h.render(w, r, http.StatusOK, "admin_tickets", "Tickets", view)
}

// ValidateTicket checks a ticket without consuming it
func (h *AdminHandler) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	h.checkTicket(w, r, "Validation", func(svc *services.TicketService, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
		return svc.Validate(r.Context(), req)
	})
}

// RedeemTicket marks a ticket as used
func (h *AdminHandler) RedeemTicket(w http.ResponseWriter, r *http.Request) {
	h.checkTicket(w, r, "Redemption", func(svc *services.TicketService, req models.TicketCheckRequest) (*models.TicketCheckResult, error) {
		return svc.Redeem(r.Context(), req)
	})
}

func (h *AdminHandler) checkTicket(w http.ResponseWriter, r *http.Request, action string,
	call func(*services.TicketService, models.TicketCheckRequest) (*models.TicketCheckResult, error)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	req := models.TicketCheckRequest{
		TicketID: strings.TrimSpace(r.FormValue("ticketId")),
		Type:     models.TicketCategory(r.FormValue("type")),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("eventId")), 10, 64); err == nil {
		req.EventID = id
	}
	view := ticketCheckView{
		Request:    req,
		Categories: models.AllTicketCategories,
		Action:     action,
	}

	if req.TicketID == "" {
		view.Error = "Ticket ID is required"
		h.render(w, r, http.StatusUnprocessableEntity, "admin_tickets", "Tickets", view)
		return
	}

	result, err := call(services.NewTicketService(h.apiClient(r)), req)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			view.Error = apiErr.Message
		} else {
			view.Error = action + " failed. Please try again."
		}
		h.log(r).WithError(err).WithField("ticket_id", req.TicketID).Warn("admin: ticket check failed")
		h.render(w, r, http.StatusOK, "admin_tickets", "Tickets", view)
		return
	}

	h.log(r).WithField("ticket_id", req.TicketID).WithField("action", action).Info("admin: ticket checked")
	view.Result = result
	h.render(w, r, http.StatusOK, "admin_tickets", "Tickets", view)
}
