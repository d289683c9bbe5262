package server

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

func (s *Server) sameSite() http.SameSite {
	if s.production {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func (s *Server) setTokenCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.production,
		SameSite: s.sameSite(),
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge),
	})
}

// SetAuthCookies writes both token cookies with their own lifetimes.
func (s *Server) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	s.setTokenCookie(w, accessTokenCookie, accessToken, s.accessTTL)
	s.setTokenCookie(w, refreshTokenCookie, refreshToken, s.refreshTTL)
}

// ClearAuthCookies expires both token cookies.
func (s *Server) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   s.production,
			SameSite: s.sameSite(),
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
