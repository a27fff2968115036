package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/blog-api/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// Using a package-private type means no other package can read or shadow
// the value we store — only this package can create a contextKey.
type contextKey string

const currentUserKey contextKey = "currentUser"

// UserResolver turns a user ID from a validated token into a full user
// record. Satisfied by repository.UserRepository; declared here so the
// guard can be tested with a stub and the auth package stays decoupled
// from the storage package.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RequireUser is the access guard for protected routes.
//
// It extracts the bearer token, validates signature/expiry/issuer, then
// resolves the embedded user ID against storage and stores the full
// model.User in the request context. The request is rejected with 401 when
// the token is missing, malformed, expired, signed with a different key —
// or when it references a user that no longer exists. That last case is
// deliberately 401 and not 404: a deleted account is simply no longer a
// valid identity.
//
// Token transport: "Authorization: Bearer <token>" is the primary channel;
// the "token" HttpOnly cookie set by the OAuth callback is accepted as a
// fallback so browser sessions work with the same guard.
func RequireUser(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			// The token is cryptographically valid, but the account it
			// names must still exist.
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated caller placed in the context
// by RequireUser. Returns (nil, false) on routes without the guard.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	return user, ok && user != nil
}

// extractToken pulls the JWT out of the request: Authorization header
// first, "token" cookie second. Returns "" if neither is present.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		// Scheme is case-insensitive per RFC 7235.
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}

	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
