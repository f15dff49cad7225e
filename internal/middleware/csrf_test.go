package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCSRFToken(t *testing.T) {
	token1 := GenerateCSRFToken()
	token2 := GenerateCSRFToken()

	assert.NotEmpty(t, token1)
	assert.NotEqual(t, token1, token2)
}

func TestCSRFProtection(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := CSRFProtection(ok)
	withToken := func(r *http.Request) *http.Request {
		return r.WithContext(context.WithValue(r.Context(), csrfTokenKey, "expected"))
	}

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
	}{
		{
			name:   "GET passes",
			req:    func() *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) },
			status: http.StatusOK,
		},
		{
			name: "form token matches",
			req: func() *http.Request {
				form := url.Values{"csrf_token": {"expected"}}
				r := httptest.NewRequest(http.MethodPost, "/cart/clear", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return withToken(r)
			},
			status: http.StatusOK,
		},
		{
			name: "header token matches",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/cart/clear", nil)
				r.Header.Set("X-CSRF-Token", "expected")
				return withToken(r)
			},
			status: http.StatusOK,
		},
		{
			name: "wrong token",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/cart/clear", nil)
				r.Header.Set("X-CSRF-Token", "forged")
				return withToken(r)
			},
			status: http.StatusForbidden,
		},
		{
			name: "no session token",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/cart/clear", nil)
				r.Header.Set("X-CSRF-Token", "")
				return r
			},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, tt.req())
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}
