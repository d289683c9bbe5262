package server

// Route path constants, relative to the API prefix.
const (
	RouteAuthSignup  = "/auth/signup"
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthMe      = "/auth/me"

	RouteHealth = "/health"
)
