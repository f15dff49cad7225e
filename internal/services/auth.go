package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/models"
	"event-storefront/internal/storage"

	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

// AuthError carries the message shown to the user when login or signup is
// refused.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// TokenClaims is what the storefront reads out of the bearer token. It is a
// display hint only; the backend decides what the holder may do.
type TokenClaims struct {
	Subject   string
	Role      models.UserRole
	ExpiresAt time.Time
}

// DecodeClaims reads the claim segment of token without verifying the
// signature.
func DecodeClaims(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, models.ErrNotAuthenticated
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	out := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = models.UserRole(strings.TrimPrefix(strings.ToUpper(role), "ROLE_"))
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

// AuthService keeps one device's bearer token and proxies login, signup and
// "who am I" to the backend.
type AuthService struct {
	api    *api.Client
	kv     storage.KeyValueStore
	logger *logrus.Logger
}

// NewAuthService binds the backend client to a device's storage.
func NewAuthService(client *api.Client, kv storage.KeyValueStore, logger *logrus.Logger) *AuthService {
	return &AuthService{
		api:    client,
		kv:     kv,
		logger: logger,
	}
}

// Token returns the stored bearer token, or "".
func (s *AuthService) Token(ctx context.Context) string {
	token, _, err := s.kv.Get(ctx, storage.TokenKey)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("auth: failed to read token")
		return ""
	}
	return token
}

// Client returns a backend client authenticated as the stored user, if any.
func (s *AuthService) Client(ctx context.Context) *api.Client {
	if token := s.Token(ctx); token != "" {
		return s.api.WithToken(token)
	}
	return s.api
}

// Login exchanges credentials for a token, stores it and returns the user.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, s.refused(err, "Login failed")
	}
	return s.establish(ctx, resp, "Login failed")
}

// Signup registers an account and logs it in.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	resp, err := s.api.Signup(ctx, req)
	if err != nil {
		return nil, s.refused(err, "Signup failed")
	}
	return s.establish(ctx, resp, "Signup failed")
}

func (s *AuthService) establish(ctx context.Context, resp *models.AuthResponse, fallback string) (*models.User, error) {
	if !resp.Success || resp.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &AuthError{Message: msg}
	}

	if err := s.kv.Set(ctx, storage.TokenKey, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	user, err := s.api.WithToken(resp.AccessToken).CurrentUser(ctx)
	if err != nil {
		return nil, s.refused(err, fallback)
	}
	return user, nil
}

func (s *AuthService) refused(err error, fallback string) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return &AuthError{Message: msg}
	}
	return err
}

// Logout forgets the token.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.kv.Remove(ctx, storage.TokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// CurrentUser resolves the stored token to a user. No token, an undecodable
// token or a rejected token all mean "anonymous"; a rejected token is removed.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	token := s.Token(ctx)
	if token == "" {
		return nil, nil
	}
	if _, err := DecodeClaims(token); err != nil {
		s.logger.WithContext(ctx).WithError(err).Debug("auth: ignoring malformed token")
		return nil, nil
	}

	user, err := s.api.WithToken(token).CurrentUser(ctx)
	if err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			// backend unreachable: keep the token, treat as anonymous for now
			return nil, err
		}
		s.logger.WithContext(ctx).WithError(err).Info("auth: token rejected, logging out")
		if rmErr := s.Logout(ctx); rmErr != nil {
			return nil, rmErr
		}
		return nil, nil
	}
	return user, nil
}

// Claims decodes the stored token without contacting the backend.
func (s *AuthService) Claims(ctx context.Context) (*TokenClaims, error) {
	return DecodeClaims(s.Token(ctx))
}
