// Package middleware provides HTTP middleware for the API server.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/profitscout/profitscout/internal/domain"
)

// Identity headers. The frontend gateway authenticates the user and forwards
// a stable uid; anonymous sessions carry a uid but no email.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// =============================================================================
// Context Keys
// =============================================================================

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// GetIdentity retrieves the caller identity from the request context.
// Returns the zero Identity when no identity middleware ran.
func GetIdentity(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityContextKey).(domain.Identity)
	return identity
}

// setIdentity stores an identity in the request context.
func setIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// =============================================================================
// Identity Middleware
// =============================================================================

// IdentityMiddleware extracts the forwarded caller identity from request
// headers.
type IdentityMiddleware struct {
	logger *slog.Logger
}

// NewIdentityMiddleware creates a new identity middleware.
func NewIdentityMiddleware(logger *slog.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{logger: logger}
}

// WithIdentity stores the forwarded identity, if any, in the request context.
// Requests without identity headers pass through with no identity set;
// handlers that need one stack RequireIdentity on top.
func (m *IdentityMiddleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity := domain.Identity{
			UID:         uid,
			Email:       strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
			DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
		}

		next.ServeHTTP(w, r.WithContext(setIdentity(r.Context(), identity)))
	})
}

// RequireIdentity rejects requests that carry no caller identity.
func (m *IdentityMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		if identity.UID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":    "caller identity is required",
				"required": "auth",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
