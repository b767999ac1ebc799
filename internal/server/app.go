// Package server wires the authkeeper server together: logging, the
// PostgreSQL pool and migrations, the token services, and the gRPC and REST
// endpoints, and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/authkeeper/internal/server/passwords"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	grpcServer *gs.GRPCServer
	httpServer *http.Server
}

// NewApp opens the database, applies migrations and builds both endpoints.
// The database is closed again if any later step fails.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	key, err := c.SigningKey()
	if err != nil {
		return nil, err
	}
	codec, err := auth.NewCodec(key)
	if err != nil {
		return nil, err
	}
	hasher, err := passwords.NewHasher(c.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(db, rm, codec, hasher, c)
	gate := services.NewGate(db, rm, codec)

	app := &App{config: c, logger: logger, db: db}
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, gate)
	}
	if c.EndpointAddrHTTP != "" {
		app.httpServer = newHTTPServer(c.EndpointAddrHTTP, as, gate, logger)
	}
	return app, nil
}

func newHTTPServer(addr string, as httpapi.AuthService, g httpapi.Gate, l logging.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(as, g, l).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (app *App) runHTTPServer(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until one endpoint fails,
// which stops the other. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	if app.grpcServer != nil {
		g.Go(func() error { return app.grpcServer.Run(gctx) })
	}
	if app.httpServer != nil {
		g.Go(func() error { return app.runHTTPServer(gctx) })
	}

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
