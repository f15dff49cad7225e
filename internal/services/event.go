package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"event-storefront/internal/api"
	"event-storefront/internal/models"
	"event-storefront/internal/validation"
)

// EventService reads the public event catalogue.
type EventService struct {
	client *api.Client
}

func NewEventService(client *api.Client) *EventService {
	return &EventService{client: client}
}

// List returns one page of events.
func (s *EventService) List(ctx context.Context, page, size int) (*models.EventPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = models.BrowsePageSize
	}
	return s.client.ListEvents(ctx, page, size)
}

// Browse applies filter; without criteria it falls back to the plain listing.
func (s *EventService) Browse(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	if filter.Size <= 0 {
		filter.Size = models.BrowsePageSize
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	return s.client.FilterEvents(ctx, filter)
}

// Get returns one event, or models.ErrEventNotFound.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.client.GetEvent(ctx, id)
	if api.IsStatus(err, http.StatusNotFound) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	return event, nil
}

// AdminEventService creates and edits events. Its client must carry an
// admin token; the backend enforces the role.
type AdminEventService struct {
	client *api.Client
}

func NewAdminEventService(client *api.Client) *AdminEventService {
	return &AdminEventService{client: client}
}

// Dashboard lists the events shown on the admin console.
func (s *AdminEventService) Dashboard(ctx context.Context) (*models.EventPage, error) {
	return s.client.ListEvents(ctx, 0, models.AdminPageSize)
}

// Create validates form and posts it. Field errors come back as
// validation.FieldErrors.
func (s *AdminEventService) Create(ctx context.Context, form models.EventForm) (*models.Event, error) {
	if errs := form.Validate(); !errs.Empty() {
		return nil, errs
	}
	return s.client.CreateEvent(ctx, form.ToPayload())
}

// Update validates form and replaces event id.
func (s *AdminEventService) Update(ctx context.Context, id int64, form models.EventForm) (*models.Event, error) {
	if errs := form.Validate(); !errs.Empty() {
		return nil, errs
	}
	event, err := s.client.UpdateEvent(ctx, id, form.ToPayload())
	if api.IsStatus(err, http.StatusNotFound) {
		return nil, models.ErrEventNotFound
	}
	return event, err
}

// IsFieldErrors extracts per-field errors from err.
func IsFieldErrors(err error) (validation.FieldErrors, bool) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
