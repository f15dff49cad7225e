package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-storefront/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(srv.URL+"/api/", 5*time.Second, logger)
}

func TestPurchaseTickets(t *testing.T) {
	var received models.PurchaseRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tickets/purchase", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Tickets purchased","transactionId":"TXN1","paymentMethod":"ECOCASH"}`))
	}).WithToken("abc")

	req := &models.PurchaseRequest{
		EventID:       7,
		Tickets:       []models.PurchaseTicket{{Category: models.CategoryVIP, Quantity: 2}},
		PaymentMethod: models.PaymentEcoCash,
		CustomerEmail: "a@b.com",
		CustomerName:  "A B",
		MobileNumber:  "0771234567",
	}
	res, err := client.PurchaseTickets(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, *req, received)
	assert.True(t, res.Success)
	assert.Equal(t, "TXN1", res.TransactionID)
	assert.Equal(t, models.PaymentEcoCash, res.PaymentMethod)
}

func TestPurchaseWireFormat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"eventId": 3,
			"tickets": [{"category": "STANDARD", "quantity": 1}],
			"paymentMethod": "INNBUCKS",
			"customerEmail": "x@y.co",
			"customerName": "X Y",
			"mobileNumber": "0712"
		}`, string(body))
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	})

	_, err := client.PurchaseTickets(context.Background(), &models.PurchaseRequest{
		EventID:       3,
		Tickets:       []models.PurchaseTicket{{Category: models.CategoryStandard, Quantity: 1}},
		PaymentMethod: models.PaymentInnBucks,
		CustomerEmail: "x@y.co",
		CustomerName:  "X Y",
		MobileNumber:  "0712",
	})
	require.NoError(t, err)
}

func TestNon2xxBecomesError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Not enough VIP tickets left"}`))
	})

	_, err := client.PurchaseTickets(context.Background(), &models.PurchaseRequest{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Not enough VIP tickets left", apiErr.Error())
	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.GetEvent(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestFilterEventsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/filter", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Harare", q.Get("city"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "12", q.Get("size"))
		assert.False(t, q.Has("name"), "empty filters are dropped")
		assert.False(t, q.Has("minPrice"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Write([]byte(`{"content":[{"id":1,"name":"Jazz","dateTime":"2030-05-01T19:30:00","ispromotion":"true","ticketTypes":[{"category":"VIP","price":25.5}]}],"totalPages":3,"number":2,"size":12}`))
	})

	page, err := client.FilterEvents(context.Background(), models.EventFilter{City: "Harare", Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	ev := page.Content[0]
	assert.Equal(t, "Jazz", ev.Name)
	assert.True(t, bool(ev.IsPromotion))
	assert.Equal(t, time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC), ev.DateTime.Time)
	assert.Equal(t, models.NewAmount(25, 50), ev.TicketTypes[0].Price)
}

func TestLoginAndMe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"success":true,"accessToken":"tok"}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":9,"username":"tino","email":"t@x.com","firstName":"Tino","lastName":"M","role":"ADMIN"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	resp, err := client.Login(ctx, models.LoginRequest{Username: "tino", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)

	_, err = client.CurrentUser(ctx)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	authed := client.WithToken(resp.AccessToken)
	assert.True(t, authed.HasToken())
	assert.False(t, client.HasToken(), "WithToken does not mutate the original")

	user, err := authed.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tino M", user.FullName())
	assert.True(t, user.IsAdmin())
}

func TestNetworkError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient("http://127.0.0.1:1", time.Second, logger)

	_, err := client.ListEvents(context.Background(), 0, 10)
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
