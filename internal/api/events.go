package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"event-storefront/internal/models"
)

// ListEvents fetches GET /events?page=&size=.
func (c *Client) ListEvents(ctx context.Context, page, size int) (*models.EventPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out models.EventPage
	if err := c.get(ctx, "/events", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvent fetches GET /events/{id}.
func (c *Client) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var out models.Event
	if err := c.get(ctx, fmt.Sprintf("/events/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterEvents fetches GET /events/filter with the non-empty filter fields.
func (c *Client) FilterEvents(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	var out models.EventPage
	if err := c.get(ctx, "/events/filter", filter.Query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent posts a new event (admin).
func (c *Client) CreateEvent(ctx context.Context, payload models.EventPayload) (*models.Event, error) {
	var out models.Event
	if err := c.post(ctx, "/events", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent replaces an event (admin).
func (c *Client) UpdateEvent(ctx context.Context, id int64, payload models.EventPayload) (*models.Event, error) {
	var out models.Event
	if err := c.put(ctx, fmt.Sprintf("/events/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
