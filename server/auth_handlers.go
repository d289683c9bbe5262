package server

import (
	"net/http"

	"github.com/jrsteele09/finvofy-auth/auth"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/jrsteele09/finvofy-auth/users"
)

const (
	msgSignupSuccessful  = "Signup successful"
	msgLoginSuccessful   = "Login successful"
	msgRefreshSuccessful = "Token refreshed successfully"
	msgLogoutSuccessful  = "Logout successful"
)

// UserResponse wraps the public profile. Tokens only ever travel in cookies.
type UserResponse struct {
	User    users.Profile `json:"user"`
	Message string        `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := decodeRequest(r, &req); err != nil {
			s.handleError(w, r, err)
			return
		}

		result, err := s.auth.Signup(r.Context(), req.toInput())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		s.SetAuthCookies(w, result.Tokens.AccessToken, result.Tokens.RefreshToken)
		writeJSON(w, http.StatusCreated, UserResponse{User: result.User, Message: msgSignupSuccessful})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeRequest(r, &req); err != nil {
			s.handleError(w, r, err)
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		s.SetAuthCookies(w, result.Tokens.AccessToken, result.Tokens.RefreshToken)
		writeJSON(w, http.StatusOK, UserResponse{User: result.User, Message: msgLoginSuccessful})
	}
}

// RefreshHandler rotates the refresh cookie. A missing cookie is the same
// failure as an invalid one.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := cookieValue(r, refreshTokenCookie)
		if refreshToken == "" {
			s.handleError(w, r, apperrors.NewUnauthorizedError(auth.MsgInvalidRefreshToken, apperrors.ErrInvalidRefreshToken))
			return
		}

		pair, err := s.auth.Refresh(r.Context(), refreshToken)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		s.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken)
		writeJSON(w, http.StatusOK, MessageResponse{Message: msgRefreshSuccessful})
	}
}

// LogoutHandler deletes the session behind the refresh cookie, if any, and
// always clears both cookies.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			s.auth.Logout(r.Context(), user.ID, cookieValue(r, refreshTokenCookie))
		}

		s.ClearAuthCookies(w)
		writeJSON(w, http.StatusOK, MessageResponse{Message: msgLogoutSuccessful})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, auth.MsgUnauthorized, nil)
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{User: user.Profile()})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
