package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/finvofy-auth/auth"
	"github.com/jrsteele09/finvofy-auth/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated *users.User
	ContextKeyUser ContextKey = "user"
)

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*users.User)
	return user, ok && user != nil
}

// RequireAuth validates the access token cookie and stores the user in the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			accessToken := cookieValue(r, accessTokenCookie)
			if accessToken == "" {
				writeError(w, http.StatusUnauthorized, auth.MsgUnauthorized, nil)
				return
			}

			user, err := s.auth.CurrentUser(r.Context(), accessToken)
			if err != nil {
				s.handleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}
