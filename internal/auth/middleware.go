// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/models"
)

type contextKey string

// ClaimsContextKey is the request context key holding the authenticated
// user's claims.
const ClaimsContextKey contextKey = "claims"

// UnauthorizedMessage is the body returned for every authentication
// failure. Kept deliberately uniform so clients cannot distinguish a
// missing token from an invalid one.
const UnauthorizedMessage = "You are not authorized. Please login to continue"

// Middleware authenticates requests using the session cookie or a Bearer
// Authorization header.
type Middleware struct {
	jwtManager *JWTManager
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwtManager: jwtManager}
}

// Authenticate wraps next, requiring a valid session token. On success
// the user's claims are placed in the request context; on failure the
// request is rejected with 401 and the uniform envelope.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.extractToken(r)
		if err != nil {
			m.unauthorized(w, r, err)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.unauthorized(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the JWT from the session cookie, falling back to a
// Bearer Authorization header for non-browser clients.
func (m *Middleware) extractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("no session cookie or authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// unauthorized writes the uniform 401 envelope.
func (m *Middleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("authentication rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body, _ := json.Marshal(&models.APIResponse{
		Success: false,
		Message: UnauthorizedMessage,
	})
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("failed to write unauthorized response")
	}
}

// ClaimsFromContext retrieves the authenticated user's claims.
// Returns nil when the request did not pass Authenticate.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}
