package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/config"
	"github.com/msomdec/eventsphere/internal/domain"
	"github.com/msomdec/eventsphere/internal/handler"
	"github.com/msomdec/eventsphere/internal/metrics"
	"github.com/msomdec/eventsphere/internal/repository/postgres"
	"github.com/msomdec/eventsphere/internal/repository/sqlite"
	"github.com/msomdec/eventsphere/internal/service"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the EventSphere HTTP server.

Settings come from built-in defaults, then the --config YAML file, then
environment variables (PORT, DATABASE_DRIVER, DATABASE_PATH, DATABASE_URL,
JWT_SECRET, JWT_EXPIRY, BCRYPT_COST, LOG_LEVEL, LOG_FORMAT,
CORS_ALLOWED_ORIGINS, RATE_LIMIT_AUTH_PER_MINUTE, TIMEZONE).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			level, _ := cfg.SlogLevel()
			slog.SetDefault(newLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Log.Format, level))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
}

// newLogger builds the process logger. Text output goes to out, with
// warnings and errors mirrored as JSON to errOut.
func newLogger(out, errOut io.Writer, format string, level slog.Level) *slog.Logger {
	logOpts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, logOpts))
	}
	return slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(out, logOpts),
		slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: max(level, slog.LevelWarn)}),
	))
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (domain.Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

type app struct {
	handler http.Handler
	store   domain.Database
	limiter *service.KeyedLimiter
}

func (a *app) Close() error {
	a.limiter.Close()
	return a.store.Close()
}

// newApp opens and migrates the store and assembles the HTTP handler.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.Database.Driver)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	authService := service.NewAuthService(db.Users(), tokens, cfg.Auth.BcryptCost)
	eventService := service.NewEventService(db.Events(), func() time.Time { return time.Now().In(loc) })
	limiter := service.NewKeyedLimiter(cfg.RateLimit.AuthPerMinute, 0)
	m := metrics.New()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:        authService,
		Events:      eventService,
		Tokens:      tokens,
		Store:       db,
		AuthLimiter: limiter,
		Metrics:     m,
		MetricsPage: m.Handler(),
	})

	return &app{
		handler: handler.Chain(m.Middleware(mux), cfg.Server.CORSAllowedOrigins),
		store:   db,
		limiter: limiter,
	}, nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
