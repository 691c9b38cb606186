package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opdhq/opd/internal/config"
	"github.com/opdhq/opd/internal/domain/account"
	"github.com/opdhq/opd/internal/domain/billing"
	"github.com/opdhq/opd/internal/domain/dashboard"
	"github.com/opdhq/opd/internal/domain/patient"
	"github.com/opdhq/opd/internal/domain/visit"
	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/db"
	"github.com/opdhq/opd/internal/platform/middleware"
	"github.com/opdhq/opd/internal/platform/pdf"
	"github.com/opdhq/opd/internal/platform/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opd-server",
		Short: "Clinic OPD management server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	zlog.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())

	// Sessions
	sessionStore := auth.NewSessionStorePG(pool)
	sessions := auth.NewManager(sessionStore,
		[]byte(cfg.SessionSecret),
		time.Duration(cfg.SessionTTLHours)*time.Hour,
		cfg.SecureCookies)

	// Expired sessions pile up otherwise; sweep them in the background.
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	defer sweepCancel()
	go sweepSessions(sweepCtx, sessionStore, logger)

	public := e.Group("")
	protected := e.Group("", auth.RequireSession(sessions))

	// Domain wiring
	accountRepo := account.NewRepoPG(pool)
	accountSvc := account.NewService(accountRepo)
	accountHandler := account.NewHandler(accountSvc, sessions)
	accountHandler.RegisterRoutes(public, protected)

	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)

	visitRepo := visit.NewRepoPG(pool)
	visitSvc := visit.NewService(visitRepo, patientSvc)

	billRepo := billing.NewRepoPG(pool)
	billSvc := billing.NewService(billRepo, visitSvc, patientSvc,
		func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		})

	patientHandler := patient.NewHandler(patientSvc, visit.NewHistoryProvider(visitRepo))
	patientHandler.RegisterRoutes(protected)

	visitHandler := visit.NewHandler(visitSvc, billing.NewSummaryProvider(billRepo))
	visitHandler.RegisterRoutes(protected)

	billHandler := billing.NewHandler(billSvc, pdf.NewRenderer(cfg.ClinicName))
	billHandler.RegisterRoutes(protected)

	dashHandler := dashboard.NewHandler(patientSvc, visitSvc)
	dashHandler.RegisterRoutes(protected)

	e.GET("/health", db.HealthHandler(pool))

	// Serve with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// sweepSessions deletes expired session rows once an hour.
func sweepSessions(ctx context.Context, store auth.SessionStore, logger zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Error().Err(err).Msg("session sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int64("deleted", n).Msg("swept expired sessions")
			}
		}
	}
}

// errorHandler renders HTML error pages instead of echo's default JSON.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	type errorPage struct {
		Status  int
		Message string
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Something went wrong. Please try again."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				message = s
			}
		}
		if status == http.StatusNotFound {
			message = "The page you requested does not exist."
		}
		if status >= 500 {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if renderErr := web.RenderPage(c, status, "error.html",
			fmt.Sprintf("%d", status), errorPage{Status: status, Message: message}); renderErr != nil {
			logger.Error().Err(renderErr).Msg("error page render failed")
		}
	}
}
