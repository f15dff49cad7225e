package handlers

import (
	"net/http"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/cart"
	"event-storefront/internal/checkout"
	"event-storefront/internal/middleware"
	"event-storefront/internal/services"
	"event-storefront/internal/storage"

	"github.com/sirupsen/logrus"
)

// Base carries what every handler needs. Handlers embed it.
type Base struct {
	Renderer        *Renderer
	Sessions        *middleware.DeviceSessions
	Client          *api.Client
	Purchasers      services.PurchaserFactory
	Guard           *checkout.Guard
	CartLocks       *cart.Locks
	PurchaseTimeout time.Duration
	Logger          *logrus.Logger
}

// cartStore loads the device's cart.
func (b *Base) cartStore(r *http.Request) *cart.Store {
	kv := middleware.GetDeviceStore(r.Context())
	if kv == nil {
		kv = storage.NewMemoryStore()
	}
	return cart.Load(r.Context(), kv, b.Logger)
}

// deviceKey identifies the device for per-device locks.
func deviceKey(r *http.Request) string {
	if id := middleware.GetDeviceID(r.Context()); id != "" {
		return id
	}
	return r.RemoteAddr
}

// lockCart holds the device's cart lock and loads the cart under it. Call
// unlock once the last mutation has been persisted.
func (b *Base) lockCart(r *http.Request) (store *cart.Store, unlock func()) {
	unlock = b.CartLocks.Lock(deviceKey(r))
	return b.cartStore(r), unlock
}

// apiClient returns a backend client carrying the device's token, if any.
func (b *Base) apiClient(r *http.Request) *api.Client {
	if auth := middleware.GetAuthService(r.Context()); auth != nil {
		return auth.Client(r.Context())
	}
	return b.Client
}

func (b *Base) authService(r *http.Request) *services.AuthService {
	if auth := middleware.GetAuthService(r.Context()); auth != nil {
		return auth
	}
	kv := middleware.GetDeviceStore(r.Context())
	if kv == nil {
		kv = storage.NewMemoryStore()
	}
	return services.NewAuthService(b.Client, kv, b.Logger)
}

func (b *Base) log(r *http.Request) *logrus.Entry {
	return b.Logger.WithContext(r.Context()).WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
	})
}

// pageData assembles the layout fields. It pops pending flashes, so call it
// once per rendered page and before anything is written.
func (b *Base) pageData(w http.ResponseWriter, r *http.Request, title string, data any) *PageData {
	return &PageData{
		Title:     title,
		User:      middleware.GetUserFromContext(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Flashes:   b.Sessions.Flashes(w, r),
		CartCount: b.cartStore(r).TicketCount(),
		Path:      r.URL.Path,
		Data:      data,
	}
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	b.Renderer.Page(w, status, page, b.pageData(w, r, title, data))
}

func (b *Base) flash(w http.ResponseWriter, r *http.Request, level, message string) {
	b.Sessions.AddFlash(w, r, level, message)
}

// redirect sends the browser to target; HTMX requests get HX-Redirect.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type messageView struct {
	Message string
}

func (b *Base) notFound(w http.ResponseWriter, r *http.Request, message string) {
	b.render(w, r, http.StatusNotFound, "not_found", "Not Found", messageView{Message: message})
}

func (b *Base) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	b.log(r).WithError(err).Error(message)
	b.render(w, r, http.StatusInternalServerError, "error", "Error", messageView{Message: message})
}

// NotFound renders the 404 page for unmatched routes.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.notFound(w, r, "")
}
