package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/auth"
)

const identityKey contextKey = "identity"

// RequireAuth is middleware that extracts the bearer token from the
// Authorization header and verifies it, placing the resulting Identity
// in the request context. Missing, malformed, tampered, or expired
// tokens return 401. It performs no data access; handlers read the
// identity and pass its team ID into the repositories.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				response.Err(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					response.Err(w, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, auth.ErrTokenSignature):
					response.Err(w, http.StatusUnauthorized, "Invalid token signature")
				default:
					response.Err(w, http.StatusUnauthorized, "Invalid authentication token")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a context carrying the given identity. Exposed
// for handler tests that bypass the middleware.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
