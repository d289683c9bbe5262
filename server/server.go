package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/finvofy-auth/auth"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Server struct {
	production  bool
	prefix      string
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	auth        *auth.Service
	accessTTL   time.Duration
	refreshTTL  time.Duration
	rateLimiter *RateLimiter
	logger      zerolog.Logger
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With().Str("component", "http").Logger()
	}
}

// WithRateLimiter overrides the limiter built from configuration.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		s.rateLimiter = rl
	}
}

// New builds the HTTP surface. Cookie lifetimes follow the token lifetimes
// so a cookie never outlives the token it carries.
func New(cfg config.Config, authService *auth.Service, accessTTL, refreshTTL time.Duration, options ...Option) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[server.New] auth service is required")
	}

	s := &Server{
		production: cfg.IsProduction(),
		prefix:     cfg.GetAPIPrefix(),
		mux:        http.NewServeMux(),
		config:     cfg,
		auth:       authService,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     log.Logger.With().Str("component", "http").Logger(),
	}
	if cfg.GetEnableRateLimiting() {
		perMinute := max(cfg.GetRateLimitPerMinute(), 1)
		s.rateLimiter = NewRateLimiter(rate.Limit(float64(perMinute)/60), perMinute,
			TrustProxies(cfg.GetTrustedProxies()...))
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.production {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Debug().Msgf("[%s] %s", colourMethod(method), path)
}

// StartBackground runs housekeeping until ctx is done.
func (s *Server) StartBackground(ctx context.Context) {
	if s.rateLimiter != nil {
		go s.rateLimiter.PruneLoop(ctx, 3*time.Minute, 5*time.Minute)
	}
}
