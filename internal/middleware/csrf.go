package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// GetCSRFToken returns the token templates embed in forms.
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey).(string)
	return token
}

// CSRFProtection rejects state-changing requests whose token does not match
// the device session. It must run after DeviceSessions.Device.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		sessionToken := GetCSRFToken(r.Context())
		requestToken := r.Header.Get("X-CSRF-Token")
		if requestToken == "" {
			requestToken = r.FormValue("csrf_token")
		}

		if sessionToken == "" || subtle.ConstantTimeCompare([]byte(sessionToken), []byte(requestToken)) != 1 {
			if IsHTMXRequest(r) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`<div class="notice notice-error" role="alert"><p>Security token mismatch. Please refresh the page and try again.</p></div>`))
				return
			}
			http.Error(w, "CSRF token mismatch", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
