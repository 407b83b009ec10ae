// Package devserver is a small in-memory implementation of the leads
// backend's authentication API. It exists for local runs of the CLI and for
// end-to-end tests of the session client.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/devserver/config"
	"github.com/dmitrijs2005/leadsession/internal/devserver/groups"
	"github.com/dmitrijs2005/leadsession/internal/devserver/refreshtokens"
	"github.com/dmitrijs2005/leadsession/internal/devserver/users"
	"github.com/dmitrijs2005/leadsession/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *UserService
	handler     http.Handler
}

// NewApp builds the service and router and creates the seed account.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	userRepo := users.NewMemoryRepository()
	us := NewUserService(userRepo, refreshtokens.NewMemoryRepository(), c, logger)
	gs := NewGroupService(groups.NewMemoryRepository(), userRepo, logger)
	if c.SeedEmail != "" {
		if err := us.Seed(ctx, c.SeedName, c.SeedEmail, c.SeedPassword); err != nil {
			return nil, err
		}
		logger.Info(ctx, "seed account ready", "email", c.SeedEmail)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		config:      c,
		logger:      logger,
		userService: us,
		handler:     NewRouter(us, gs, logger, reg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting dev server...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.logger.Error(ctx, "server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.logger.Info(shutdownCtx, "Shutting down dev server...")
	return srv.Shutdown(shutdownCtx)
}

// Handler exposes the router, mainly for tests.
func (app *App) Handler() http.Handler {
	return app.handler
}
