// Package apitest runs an in-process fake of the ticketing backend so
// handlers, the CLI and the services can be exercised end to end in tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"event-storefront/internal/models"
	"event-storefront/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt"
	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
)

const signingKey = "apitest-secret"

type account struct {
	user     models.User
	password string
}

// Backend is the fake. All exported methods are safe for concurrent use.
type Backend struct {
	server *httptest.Server

	mu             sync.Mutex
	nextEventID    int64
	events         map[int64]models.Event
	accounts       map[string]*account
	tokens         map[string]string // token -> username
	tickets        map[string][]models.Ticket
	transactions   map[string]models.Transaction
	purchases      []models.PurchaseRequest
	purchaseStatus int
	purchaseResult *models.PurchaseResult
	redeemed       map[string]bool
}

// NewBackend starts the fake and stops it when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		nextEventID:  1,
		events:       make(map[int64]models.Event),
		accounts:     make(map[string]*account),
		tokens:       make(map[string]string),
		tickets:      make(map[string][]models.Ticket),
		transactions: make(map[string]models.Transaction),
		redeemed:     make(map[string]bool),
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// BaseURL is what api.NewClient should be given.
func (b *Backend) BaseURL() string {
	return b.server.URL + "/api"
}

// Close stops the server early, e.g. to simulate an outage.
func (b *Backend) Close() {
	b.server.Close()
}

// AddEvent stores e, assigning an id when it has none, and returns the id.
func (b *Backend) AddEvent(e models.Event) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == 0 {
		e.ID = b.nextEventID
	}
	if e.ID >= b.nextEventID {
		b.nextEventID = e.ID + 1
	}
	b.events[e.ID] = e
	return e.ID
}

// Event returns the stored event.
func (b *Backend) Event(id int64) (models.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[id]
	return e, ok
}

// AddUser registers an account.
func (b *Backend) AddUser(u models.User, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == 0 {
		u.ID = int64(len(b.accounts) + 1)
	}
	b.accounts[u.Username] = &account{user: u, password: password}
}

// TokenFor issues a token for an existing user, as a login would.
func (b *Backend) TokenFor(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issue(username)
}

// AddTicket gives username a purchased ticket.
func (b *Backend) AddTicket(username string, t models.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets[username] = append(b.tickets[username], t)
}

// AddTransaction stores a payment for lookup.
func (b *Backend) AddTransaction(t models.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transactions[t.Reference] = t
}

// FailPurchases makes every later purchase answer status with message. A
// 2xx status returns {success:false, message}.
func (b *Backend) FailPurchases(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purchaseStatus = status
	b.purchaseResult = &models.PurchaseResult{Success: false, Message: message}
}

// Purchases returns the purchase requests received so far.
func (b *Backend) Purchases() []models.PurchaseRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.PurchaseRequest(nil), b.purchases...)
}

func (b *Backend) issue(username string) string {
	acct, ok := b.accounts[username]
	if !ok {
		return ""
	}
	claims := jwt.MapClaims{
		"sub":  username,
		"role": "ROLE_" + string(acct.user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"jti":  shortuuid.New(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		panic(err)
	}
	b.tokens[token] = username
	return token
}

// caller resolves the bearer token; callers hold b.mu.
func (b *Backend) caller(r *http.Request) (*account, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	username, ok := b.tokens[token]
	if !ok {
		return nil, false
	}
	acct, ok := b.accounts[username]
	return acct, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", b.listEvents)
		r.Get("/events/filter", b.filterEvents)
		r.Get("/events/{id}", b.getEvent)
		r.Post("/events", b.saveEvent)
		r.Put("/events/{id}", b.saveEvent)

		r.Post("/auth/login", b.login)
		r.Post("/auth/signup", b.signup)
		r.Get("/auth/me", b.me)

		r.Post("/tickets/purchase", b.purchase)
		r.Get("/tickets/my", b.myTickets)
		r.Post("/tickets/validate", b.checkTicket(false))
		r.Post("/tickets/redeem", b.checkTicket(true))
		r.Get("/payments/{reference}", b.payment)
	})
	return r
}

func (b *Backend) sortedEvents() []models.Event {
	events := lo.Values(b.events)
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

func paginate(events []models.Event, r *http.Request) models.EventPage {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	total := len(events)
	pages := (total + size - 1) / size
	start := min(page*size, total)
	end := min(start+size, total)
	return models.EventPage{
		Content:       append([]models.Event{}, events[start:end]...),
		TotalPages:    pages,
		TotalElements: int64(total),
		Number:        page,
		Size:          size,
	}
}

func (b *Backend) listEvents(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(b.sortedEvents(), r))
}

func (b *Backend) filterEvents(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := r.URL.Query()
	events := lo.Filter(b.sortedEvents(), func(e models.Event, _ int) bool {
		if name := q.Get("name"); name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			return false
		}
		if city := q.Get("city"); city != "" && e.City != city {
			return false
		}
		if typ := q.Get("type"); typ != "" && e.Type != typ {
			return false
		}
		if promo := q.Get("ispromotion"); promo != "" && strconv.FormatBool(bool(e.IsPromotion)) != promo {
			return false
		}
		return true
	})
	writeJSON(w, http.StatusOK, paginate(events, r))
}

func (b *Backend) getEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (b *Backend) saveEvent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if acct.user.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var payload models.EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed event")
		return
	}

	id := b.nextEventID
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, _ = strconv.ParseInt(raw, 10, 64)
		if _, exists := b.events[id]; !exists {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
	} else {
		b.nextEventID++
	}

	e := models.Event{
		ID:          id,
		Name:        payload.Name,
		DateTime:    payload.DateTime,
		Venue:       payload.Venue,
		Address:     payload.Address,
		City:        payload.City,
		Type:        payload.Type,
		IsPromotion: payload.IsPromotion,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		Capacity:    payload.Capacity,
		Description: payload.Description,
		BannerURL:   payload.BannerURL,
		ImageURL:    payload.ImageURL,
		TicketTypes: payload.TicketTypes,
	}
	b.events[id] = e
	writeJSON(w, http.StatusOK, e)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.accounts[req.Username]
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Message: "Login successful", AccessToken: b.issue(req.Username)})
}

func (b *Backend) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.accounts[req.Username]; taken {
		writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: "Username is already taken"})
		return
	}
	b.accounts[req.Username] = &account{
		user: models.User{
			ID:          int64(len(b.accounts) + 1),
			Username:    req.Username,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Role:        models.RoleCustomer,
		},
		password: req.Password,
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Message: "User registered successfully", AccessToken: b.issue(req.Username)})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (b *Backend) purchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed purchase")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purchases = append(b.purchases, req)

	if b.purchaseResult != nil {
		if b.purchaseStatus >= 200 && b.purchaseStatus < 300 {
			writeJSON(w, b.purchaseStatus, b.purchaseResult)
			return
		}
		writeError(w, b.purchaseStatus, b.purchaseResult.Message)
		return
	}

	acct, ok := b.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	event, ok := b.events[req.EventID]
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	txn := "TXN" + strings.ToUpper(shortuuid.New()[:10])
	var total models.Amount
	for _, line := range req.Tickets {
		tt, _ := event.TicketType(line.Category)
		total += tt.Price.Mul(line.Quantity)
		for i := 0; i < line.Quantity; i++ {
			e := event
			b.tickets[acct.user.Username] = append(b.tickets[acct.user.Username], models.Ticket{
				ID:          utils.GenerateTicketID(),
				Event:       &e,
				Category:    line.Category,
				Price:       tt.Price,
				PurchasedAt: models.DateTime{Time: time.Now().UTC()},
			})
		}
	}
	b.transactions[txn] = models.Transaction{
		Reference:     txn,
		Status:        "COMPLETED",
		Amount:        total,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     models.DateTime{Time: time.Now().UTC()},
	}
	writeJSON(w, http.StatusOK, models.PurchaseResult{
		Success:       true,
		Message:       "Payment successful! Your tickets have been purchased.",
		TransactionID: txn,
		PaymentMethod: req.PaymentMethod,
	})
}

func (b *Backend) myTickets(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	tickets := b.tickets[acct.user.Username]
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (b *Backend) checkTicket(redeem bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TicketCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed request")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.caller(r); !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var found *models.Ticket
		for _, list := range b.tickets {
			for i := range list {
				if list[i].ID == req.TicketID {
					found = &list[i]
				}
			}
		}
		switch {
		case found == nil:
			writeJSON(w, http.StatusOK, models.TicketCheckResult{Message: "Ticket not found"})
		case b.redeemed[req.TicketID]:
			writeJSON(w, http.StatusOK, models.TicketCheckResult{Message: "Ticket already redeemed"})
		case redeem:
			b.redeemed[req.TicketID] = true
			writeJSON(w, http.StatusOK, models.TicketCheckResult{Valid: true, Success: true, Message: "Ticket redeemed"})
		default:
			writeJSON(w, http.StatusOK, models.TicketCheckResult{Valid: true, Message: "Ticket is valid"})
		}
	}
}

func (b *Backend) payment(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	txn, ok := b.transactions[chi.URLParam(r, "reference")]
	if !ok {
		writeError(w, http.StatusNotFound, "Payment not found")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}
