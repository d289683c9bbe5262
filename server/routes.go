package server

import "net/http"

func (s *Server) initRoutes() {
	s.route("POST", RouteAuthSignup, s.SignupHandler(), s.AuthAttemptMiddleware()...)
	s.route("POST", RouteAuthLogin, s.LoginHandler(), s.AuthAttemptMiddleware()...)
	s.route("POST", RouteAuthRefresh, s.RefreshHandler(), s.AuthAttemptMiddleware()...)

	s.route("POST", RouteAuthLogout, s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...)
	s.route("GET", RouteAuthMe, s.MeHandler(), s.APIMiddleware(s.RequireAuth())...)

	s.route("GET", RouteHealth, s.HealthHandler(), s.APIMiddleware()...)

	// Preflight for every API path.
	s.RegisterRouteHandler("OPTIONS "+s.prefix+"/", ChainMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}

func (s *Server) route(method, path string, handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) {
	s.RegisterRouteHandler(method+" "+s.prefix+path, ChainMiddleware(handler, mw...))
}
