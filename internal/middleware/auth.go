package middleware

import (
	"context"
	"net/http"
	"net/url"

	"event-storefront/internal/api"
	"event-storefront/internal/models"
	"event-storefront/internal/services"

	"github.com/sirupsen/logrus"
)

// AuthMiddleware resolves the device's stored token to a user.
type AuthMiddleware struct {
	client *api.Client
	logger *logrus.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(client *api.Client, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		client: client,
		logger: logger,
	}
}

// LoadUser puts the device's AuthService, and the user when signed in, into
// the request context. It must run after DeviceSessions.Device.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kv := GetDeviceStore(r.Context())
		if kv == nil {
			next.ServeHTTP(w, r)
			return
		}

		auth := services.NewAuthService(m.client, kv, m.logger)
		ctx := context.WithValue(r.Context(), authServiceKey, auth)

		user, err := auth.CurrentUser(ctx)
		if err != nil {
			m.logger.WithContext(ctx).WithError(err).Warn("auth: could not resolve current user")
		}
		if user != nil {
			ctx = SetUserContext(ctx, user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAuthService returns the AuthService LoadUser bound to this device.
func GetAuthService(ctx context.Context) *services.AuthService {
	auth, _ := ctx.Value(authServiceKey).(*services.AuthService)
	return auth
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin hides admin pages from everyone but admins. It is a display
// guard only; the backend authorises the actual calls.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			redirectToLogin(w, r)
			return
		}
		if !user.IsAdmin() {
			if IsHTMXRequest(r) {
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetUserContext sets the user in the context
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
