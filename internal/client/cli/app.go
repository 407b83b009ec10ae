package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/client/config"
	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/leadsession/internal/client/session"
	"github.com/dmitrijs2005/leadsession/internal/client/store"
	"github.com/dmitrijs2005/leadsession/internal/filex"
	"github.com/dmitrijs2005/leadsession/internal/logging"
	"github.com/dmitrijs2005/leadsession/internal/metrics"
	"github.com/dmitrijs2005/leadsession/internal/netx"
	"github.com/prometheus/client_golang/prometheus"

	_ "modernc.org/sqlite"
)

// sessionAPI is the part of *session.Client the commands use.
type sessionAPI interface {
	EnsureSession(ctx context.Context) (string, error)
	Login(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context)
	Register(ctx context.Context, body any) (*models.User, error)
	UpdateProfile(ctx context.Context, form *netx.Form) (*models.User, error)
	Get(ctx context.Context, endpoint string, opts ...session.CallOption) (json.RawMessage, error)
	Post(ctx context.Context, endpoint string, body any, opts ...session.CallOption) (json.RawMessage, error)
	PostForm(ctx context.Context, endpoint string, form *netx.Form, opts ...session.CallOption) (json.RawMessage, error)
	Delete(ctx context.Context, endpoint string, opts ...session.CallOption) (json.RawMessage, error)
	ForgotPassword(ctx context.Context, email string, opts ...session.CallOption) (json.RawMessage, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string, opts ...session.CallOption) (json.RawMessage, error)
	UserGroups(ctx context.Context, userID string) []json.RawMessage
	CreateGroup(ctx context.Context, body any, opts ...session.CallOption) (json.RawMessage, error)
	GroupConversations(ctx context.Context, opts ...session.CallOption) (json.RawMessage, error)
	UserGroupIDs(ctx context.Context, userID string, opts ...session.CallOption) (json.RawMessage, error)
	FileURL(path string) string
	Snapshot() session.Snapshot
	OnUnauthenticated(fn func(session.Reason)) (unsubscribe func())
}

type App struct {
	config   *config.Config
	session  sessionAPI
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the credentials database and builds the session client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		logger.Error(ctx, "error preparing database directory", "error", err)
		return nil, err
	}

	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	out := os.Stdout

	client, err := session.New(
		session.Config{BaseURL: c.BaseURL, Timeout: c.RequestTimeout, SingleFlight: c.SingleFlight},
		credentials.NewSQLiteRepository(db),
		session.WithLogger(logger),
		session.WithRecorder(metrics.NewRecorder(registry)),
		session.WithNotifier(newNotifier(out)),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:   c,
		session:  client,
		logger:   logger,
		db:       db,
		registry: registry,
		reader:   bufio.NewReader(os.Stdin),
		out:      out,
	}, nil
}

// Run checks the persisted session, then serves the REPL until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if a.config.MetricsAddr != "" {
		srv := a.startMetrics(ctx)
		defer shutdown(srv)
	}

	unsubscribe := a.session.OnUnauthenticated(func(r session.Reason) {
		if r != session.ReasonLoggedOut {
			fmt.Fprintf(a.out, "Not signed in (%s). Use 'login' or 'register'.\n", r)
		}
	})
	defer unsubscribe()

	if _, err := a.session.EnsureSession(ctx); err == nil {
		a.WhoAmI(ctx)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "database close failed", "error", err)
		}
	}
}

func (a *App) startMetrics(ctx context.Context) *http.Server {
	srv := &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           metrics.Handler(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info(ctx, "metrics listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(ctx, "metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == session.StateAuthenticated
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	if snap.User != nil && snap.State == session.StateAuthenticated {
		return fmt.Sprintf("(%s)", snap.User.Name)
	}
	return fmt.Sprintf("(%s)", snap.State)
}
