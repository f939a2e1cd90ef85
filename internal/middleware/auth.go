// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
)

// Authentication modes.
const (
	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

const maxUserIDLength = 128

// Authentication errors passed to the UnauthorizedFunc.
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// UnauthorizedFunc writes the response for a rejected request.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// AuthConfig configures caller identification.
type AuthConfig struct {
	Mode string

	// Secret is the HS256 signing key for jwt mode.
	Secret string

	// Issuer, when set, must match the token's iss claim.
	Issuer string

	// UserHeader carries the caller id in header mode.
	UserHeader string
}

// Authenticator resolves the calling user and stores it in the request context.
type Authenticator struct {
	mode           string
	secret         []byte
	issuer         string
	userHeader     string
	onUnauthorized UnauthorizedFunc
}

// NewAuthenticator validates cfg and builds an Authenticator. A nil
// onUnauthorized writes a plain 401.
func NewAuthenticator(cfg AuthConfig, onUnauthorized UnauthorizedFunc) (*Authenticator, error) {
	a := &Authenticator{
		mode:           cfg.Mode,
		issuer:         cfg.Issuer,
		userHeader:     cfg.UserHeader,
		onUnauthorized: onUnauthorized,
	}
	if a.onUnauthorized == nil {
		a.onUnauthorized = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	switch cfg.Mode {
	case AuthModeJWT:
		if cfg.Secret == "" {
			return nil, fmt.Errorf("jwt auth mode requires a secret")
		}
		a.secret = []byte(cfg.Secret)
	case AuthModeHeader:
		if a.userHeader == "" {
			a.userHeader = "X-User-ID"
		}
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
	return a, nil
}

// Identify attaches the caller to the context when credentials are present.
// Requests without credentials pass through anonymously; requests with bad
// credentials are rejected.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.resolve(r)
		switch {
		case errors.Is(err, ErrNoCredentials):
			next.ServeHTTP(w, r)
		case err != nil:
			logging.Ctx(r.Context()).Debug().Err(err).Str("mode", a.mode).Msg("Rejected credentials")
			a.onUnauthorized(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(logging.ContextWithUserID(r.Context(), userID)))
		}
	})
}

// RequireUser rejects requests that Identify did not attach a caller to.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			a.onUnauthorized(w, r, ErrNoCredentials)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	return logging.UserIDFromContext(ctx)
}

func (a *Authenticator) resolve(r *http.Request) (string, error) {
	if a.mode == AuthModeHeader {
		userID := strings.TrimSpace(r.Header.Get(a.userHeader))
		if userID == "" {
			return "", ErrNoCredentials
		}
		if len(userID) > maxUserIDLength {
			return "", ErrInvalidCredentials
		}
		return userID, nil
	}

	token := bearerToken(r)
	if token == "" {
		return "", ErrNoCredentials
	}
	return a.validateToken(token)
}

func (a *Authenticator) validateToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return "", ErrInvalidCredentials
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" || len(sub) > maxUserIDLength {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}
	return sub, nil
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
