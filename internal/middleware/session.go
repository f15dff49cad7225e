package middleware

import (
	"context"
	"net/http"
	"strings"

	"event-storefront/internal/storage"
	"event-storefront/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
	deviceIDKey    contextKey = "device_id"
	deviceStoreKey contextKey = "device_store"
	csrfTokenKey   contextKey = "csrf_token"
	requestIDKey   contextKey = "request_id"
	authServiceKey contextKey = "auth_service"
)

const (
	SessionName      = "storefront"
	sessionDeviceKey = "device_id"
	sessionCSRFKey   = "csrf_token"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Level   string
	Message string
}

// DeviceSessions gives every browser a stable device id in a signed cookie
// and exposes that device's slice of the key-value store.
type DeviceSessions struct {
	store  sessions.Store
	kv     storage.KeyValueStore
	logger *logrus.Logger
}

func NewDeviceSessions(store sessions.Store, kv storage.KeyValueStore, logger *logrus.Logger) *DeviceSessions {
	return &DeviceSessions{
		store:  store,
		kv:     kv,
		logger: logger,
	}
}

// NewCookieStore builds the cookie store used for device sessions.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (m *DeviceSessions) session(r *http.Request) *sessions.Session {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// A cookie signed with an old secret decodes to a fresh session.
		m.logger.WithError(err).Debug("session: discarding unreadable cookie")
	}
	return session
}

// Device ensures the request carries a device id and CSRF token, minting
// them on first visit.
func (m *DeviceSessions) Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.session(r)

		deviceID, _ := session.Values[sessionDeviceKey].(string)
		csrfToken, _ := session.Values[sessionCSRFKey].(string)
		if deviceID == "" || csrfToken == "" {
			if deviceID == "" {
				deviceID = uuid.NewString()
				session.Values[sessionDeviceKey] = deviceID
			}
			if csrfToken == "" {
				csrfToken = GenerateCSRFToken()
				session.Values[sessionCSRFKey] = csrfToken
			}
			if err := session.Save(r, w); err != nil {
				m.logger.WithError(err).Error("session: failed to save device session")
			}
		}

		ctx := WithDevice(r.Context(), deviceID, storage.Scope(m.kv, deviceID))
		ctx = context.WithValue(ctx, csrfTokenKey, csrfToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AddFlash queues a notice for the next rendered page.
func (m *DeviceSessions) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	session := m.session(r)
	session.AddFlash(level + "|" + message)
	if err := session.Save(r, w); err != nil {
		m.logger.WithError(err).Error("session: failed to save flash")
	}
}

// Flashes pops the queued notices.
func (m *DeviceSessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := m.session(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		m.logger.WithError(err).Error("session: failed to clear flashes")
	}

	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		s, ok := f.(string)
		if !ok {
			continue
		}
		level, msg, found := strings.Cut(s, "|")
		if !found {
			level, msg = FlashInfo, s
		}
		out = append(out, Flash{Level: level, Message: msg})
	}
	return out
}

// WithDevice attaches a device id and its scoped store to ctx.
func WithDevice(ctx context.Context, deviceID string, kv storage.KeyValueStore) context.Context {
	ctx = context.WithValue(ctx, deviceIDKey, deviceID)
	return context.WithValue(ctx, deviceStoreKey, kv)
}

// GetDeviceID returns the current device id, or "".
func GetDeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}

// GetDeviceStore returns the current device's key-value store, or nil.
func GetDeviceStore(ctx context.Context) storage.KeyValueStore {
	kv, _ := ctx.Value(deviceStoreKey).(storage.KeyValueStore)
	return kv
}

// GenerateCSRFToken generates a CSRF token for the session
func GenerateCSRFToken() string {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return uuid.NewString()
	}
	return token
}
