package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/services"
	"github.com/AnshRaj112/phonebook-backend/pkg/clientip"
)

// SessionCookieName is the cookie that mirrors the bearer token for browser clients.
const SessionCookieName = "jwt_token"

type contextKey string

const userContextKey contextKey = "user"

// SessionVerifier resolves a session token to its user.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// Authenticate rejects requests without a live session and stores the
// authenticated user in the request context.
func Authenticate(sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Verify(r.Context(), TokenFromRequest(r))
			if err != nil {
				if errors.Is(err, services.ErrNotAuthorized) {
					log.Printf("🔒 Rejected session from %s for %s %s", clientip.FromRequest(r), r.Method, r.URL.Path)
					writeMessage(w, http.StatusUnauthorized, "Not authorized")
					return
				}
				log.Printf("❌ Session lookup failed: %v", err)
				writeMessage(w, http.StatusInternalServerError, "Server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && scheme == "Bearer" {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
