// Package server assembles the record-store server: storage backend,
// services, HTTP API, and graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/dmitrijs2005/taxdesk/internal/server/auth"
	"github.com/dmitrijs2005/taxdesk/internal/server/config"
	"github.com/dmitrijs2005/taxdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/taxdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxdesk/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	recordService *services.RecordService
	metrics       *httpapi.Metrics

	// listen is a seam for tests.
	listen func(network, addr string) (net.Listener, error)
}

// NewApp opens the configured store, runs migrations for PostgreSQL and
// seeds demo data when enabled.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat).With("app", "taxdesk-server")

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.UseMemory() {
		rm = repomanager.NewInMemoryRepositoryManager()
		logger.Info(ctx, "using in-memory store")
	} else {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
	}

	rs := services.NewRecordService(db, rm, logger)
	if c.SeedDemoData {
		if _, err := rs.SeedDemoData(ctx); err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, err
		}
	}

	if c.SecretKey == "" {
		logger.Warn(ctx, "no secret key configured, API is unauthenticated")
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		recordService: rs,
		metrics:       httpapi.NewMetrics(),
		listen:        net.Listen,
	}, nil
}

// IssueToken mints a bearer token for subject with the configured secret.
func IssueToken(c *config.Config, subject string) (string, error) {
	if c.SecretKey == "" {
		return "", errors.New("no secret key configured (-s)")
	}
	if subject == "" {
		return "", errors.New("token subject required")
	}
	return auth.GenerateToken(subject, []byte(c.SecretKey), c.AccessTokenValidityDuration)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) handler() http.Handler {
	return httpapi.NewRouter(app.recordService, httpapi.Options{
		SecretKey: []byte(app.config.SecretKey),
		RateLimit: httpapi.RateLimitConfig{
			RequestsPerSecond: app.config.RateLimitRPS,
			Burst:             app.config.RateLimitBurst,
		},
		Metrics: app.metrics,
		Logger:  app.logger,
	})
}

// startHTTPServer serves until ctx is cancelled, then drains in-flight
// requests within ShutdownTimeout.
func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	ln, err := app.listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		cancelFunc()
		return err
	}

	srv := &http.Server{Handler: app.handler()}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		cancelFunc()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	app.logger.Info(ctx, "http server stopped")
	return nil
}

// Run blocks until ctx is cancelled, a signal arrives, or the server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.startHTTPServer(ctx, cancelFunc); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
		}
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	return runErr
}
