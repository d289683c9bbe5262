package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/finvofy-auth/auth"
	"github.com/jrsteele09/finvofy-auth/internal/config"
	"github.com/jrsteele09/finvofy-auth/internal/logging"
	"github.com/jrsteele09/finvofy-auth/internal/persistence"
	"github.com/jrsteele09/finvofy-auth/server"
	"github.com/jrsteele09/finvofy-auth/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logging.Setup(c.IsProduction(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	if err := c.Validate(); err != nil {
		return err
	}
	if c.UsesDefaultRefreshSecret() {
		log.Warn().Msg("JWT_REFRESH_SECRET is unset; refresh tokens are signed with a public default secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	issuer := token.NewIssuer(c)
	authService, err := auth.NewService(auth.Repos{
		Users:    persistence.NewUsers(db),
		Sessions: persistence.NewSessions(db),
	}, issuer, c)
	if err != nil {
		return errors.Wrap(err, "[run] auth service")
	}

	handler, err := server.New(c, authService, issuer.AccessTTL(), issuer.RefreshTTL())
	if err != nil {
		return errors.Wrap(err, "[run] server")
	}
	handler.StartBackground(ctx)

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer, c.GetAPIPrefix())
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func openStore(ctx context.Context, c config.DatabaseConfig) (*bun.DB, error) {
	db, err := persistence.Open(ctx, c.GetDatabaseDriver(), c.GetDatabaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "[run] open database")
	}
	if err := persistence.CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "[run] create schema")
	}
	log.Info().Str("driver", c.GetDatabaseDriver()).Msg("Database ready")
	return db, nil
}

func listenAndServe(server *http.Server, prefix string) error {
	log.Info().Msgf("Server listening on %s%s", server.Addr, prefix)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
