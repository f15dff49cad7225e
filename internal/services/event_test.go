package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventBackend(t *testing.T) (*api.Client, *[]models.EventPayload) {
	t.Helper()
	var posted []models.EventPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var p models.EventPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			posted = append(posted, p)
			writeJSON(w, http.StatusCreated, models.Event{ID: 10, Name: p.Name})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content":    []models.Event{{ID: 1, Name: r.URL.Query().Get("size")}},
			"totalPages": 3,
		})
	})
	mux.HandleFunc("/api/events/filter", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"content":    []models.Event{{ID: 2, City: r.URL.Query().Get("city")}},
			"totalPages": 1,
		})
	})
	mux.HandleFunc("/api/events/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Event{ID: 1, Name: "Jazz"})
	})
	mux.HandleFunc("/api/events/404", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Event not found"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", time.Second, quietLogger()), &posted
}

func TestEventServiceList(t *testing.T) {
	client, _ := eventBackend(t)
	page, err := NewEventService(client).List(context.Background(), -1, 0)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "12", page.Content[0].Name)
	assert.Equal(t, 3, page.TotalPages)
}

func TestEventServiceBrowse(t *testing.T) {
	client, _ := eventBackend(t)
	page, err := NewEventService(client).Browse(context.Background(), models.EventFilter{City: "Bulawayo"})
	require.NoError(t, err)
	assert.Equal(t, "Bulawayo", page.Content[0].City)
}

func TestEventServiceGet(t *testing.T) {
	client, _ := eventBackend(t)
	svc := NewEventService(client)

	event, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jazz", event.Name)

	_, err = svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestAdminCreateValidatesFirst(t *testing.T) {
	client, posted := eventBackend(t)
	svc := NewAdminEventService(client)

	_, err := svc.Create(context.Background(), models.NewEventForm())
	fe, ok := IsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Event name is required", fe.Get("name"))
	assert.Equal(t, "Valid capacity is required", fe.Get("capacity"))
	assert.Empty(t, *posted)

	form := models.NewEventForm()
	form.Name = "Harare Jazz Night"
	form.DateTime = "2030-05-01T19:30"
	form.Venue = "HICC"
	form.Address = "Pennefather Ave"
	form.City = "Harare"
	form.Capacity = "500"
	form.Prices[models.CategoryStandard] = "10.00"
	form.Prices[models.CategoryVIP] = ""

	event, err := svc.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(10), event.ID)
	require.Len(t, *posted, 1)
	assert.Equal(t, []models.TicketType{{Category: models.CategoryStandard, Price: models.NewAmount(10, 0)}}, (*posted)[0].TicketTypes)
	assert.Equal(t, 500, (*posted)[0].Capacity)
}

func TestIsFieldErrors(t *testing.T) {
	_, ok := IsFieldErrors(models.ErrEventNotFound)
	assert.False(t, ok)
}
