package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type so no other package can read or shadow
// the identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// CookieName is the HttpOnly cookie carrying the facade token.
const CookieName = "token"

// SessionChecker reports the identity key of the active session.
// *session.Context satisfies it.
type SessionChecker interface {
	IdentityKey() string
	Authenticated() bool
}

// RequireAuth rejects requests whose cookie token is missing, invalid, or
// issued for an identity other than the currently active session (e.g. a
// cookie that outlived a logout). The identity is stored in the request
// context for handlers.
func RequireAuth(tokens *TokenService, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil || !sessions.Authenticated() || identity != sessions.IdentityKey() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity set by RequireAuth.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	return id, ok && id != ""
}

// extractIdentity reads the token cookie and validates it.
func extractIdentity(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
