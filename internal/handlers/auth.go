package handlers

import (
	"errors"
	"net/http"
	"strings"

	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/validation"
)

// AuthHandler handles login, signup and logout
type AuthHandler struct {
	*Base
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(base *Base) *AuthHandler {
	return &AuthHandler{Base: base}
}

type loginView struct {
	Form     models.LoginRequest
	Errors   validation.FieldErrors
	Error    string
	Redirect string
}

type signupView struct {
	Form   models.SignupRequest
	Errors validation.FieldErrors
	Error  string
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserFromContext(r.Context()) != nil {
		h.redirect(w, r, safeRedirect(r.URL.Query().Get("redirect")))
		return
	}
	h.render(w, r, http.StatusOK, "login", "Login", loginView{
		Errors:   validation.FieldErrors{},
		Redirect: r.URL.Query().Get("redirect"),
	})
}

// Login handles the login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	req := models.LoginRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	view := loginView{Form: req, Redirect: r.FormValue("redirect")}

	if errs := req.Validate(); !errs.Empty() {
		view.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Login", view)
		return
	}

	user, err := h.authService(r).Login(r.Context(), req)
	if err != nil {
		view.Errors = validation.FieldErrors{}
		view.Error = authFailure(err, "Login failed. Please try again.")
		if !isAuthError(err) {
			h.log(r).WithError(err).Error("login: backend call failed")
		}
		h.render(w, r, http.StatusUnauthorized, "login", "Login", view)
		return
	}

	h.log(r).WithField("user", user.Username).Info("login: signed in")
	h.flash(w, r, middleware.FlashSuccess, "Welcome back, "+user.FullName()+"!")
	h.redirect(w, r, safeRedirect(view.Redirect))
}

// SignupPage renders the signup form
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserFromContext(r.Context()) != nil {
		h.redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, "signup", "Sign Up", signupView{Errors: validation.FieldErrors{}})
}

// Signup handles the signup form submission
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	req := models.SignupRequest{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		FirstName:       strings.TrimSpace(r.FormValue("firstName")),
		LastName:        strings.TrimSpace(r.FormValue("lastName")),
		PhoneNumber:     strings.TrimSpace(r.FormValue("phoneNumber")),
		AcceptTerms:     r.FormValue("terms") == "true" || r.FormValue("terms") == "on",
	}
	view := signupView{Form: req}

	if errs := req.Validate(); !errs.Empty() {
		view.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Sign Up", view)
		return
	}

	user, err := h.authService(r).Signup(r.Context(), req)
	if err != nil {
		view.Errors = validation.FieldErrors{}
		view.Error = authFailure(err, "Signup failed. Please try again.")
		if !isAuthError(err) {
			h.log(r).WithError(err).Error("signup: backend call failed")
		}
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Sign Up", view)
		return
	}

	h.log(r).WithField("user", user.Username).Info("signup: account created")
	h.flash(w, r, middleware.FlashSuccess, "Account created successfully!")
	h.redirect(w, r, "/")
}

// Logout forgets the device's token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService(r).Logout(r.Context()); err != nil {
		h.serverError(w, r, err, "Failed to log out")
		return
	}
	h.flash(w, r, middleware.FlashInfo, "You have been logged out")
	h.redirect(w, r, "/")
}

func isAuthError(err error) bool {
	var authErr *services.AuthError
	return errors.As(err, &authErr)
}

func authFailure(err error, fallback string) string {
	var authErr *services.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return fallback
}

// safeRedirect only follows local paths.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
