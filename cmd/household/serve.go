package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dafibh/household/household-backend/internal/handler"
	"github.com/dafibh/household/household-backend/internal/middleware"
	"github.com/dafibh/household/household-backend/internal/repository/postgres"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/dafibh/household/household-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		RunE:  runServe,
	}
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("Migrations applied")
	}

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Change events fan out to local websocket clients, and through Redis to
	// other instances when a relay is configured
	hub := websocket.NewHub()
	var publisher websocket.EventPublisher = hub
	var relay *websocket.RedisRelay
	if cfg.Redis.Enabled() {
		client, err := websocket.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		relay = websocket.NewRedisRelay(client, hub, cfg.Redis.Channel)
		publisher = relay
		log.Info().Str("channel", cfg.Redis.Channel).Msg("Redis event relay enabled")
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	// Initialize services
	accountService := service.NewAccountService(accountRepo)
	accountService.SetEventPublisher(publisher)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, categoryRepo)
	transactionService.SetEventPublisher(publisher)
	categoryService := service.NewCategoryService(categoryRepo)
	categoryService.SetEventPublisher(publisher)
	ledgerService := service.NewLedgerService(accountRepo, transactionRepo, cfg.TimeZone)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.PerMinute > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		defer rateLimiter.Stop()
	}

	e := newEcho()
	handler.RegisterRoutes(e, handler.Handlers{
		System:      handler.NewSystemHandler(pool, ledgerService),
		Account:     handler.NewAccountHandler(accountService, ledgerService),
		Transaction: handler.NewTransactionHandler(transactionService, cfg.TimeZone),
		Category:    handler.NewCategoryHandler(categoryService),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}, rateLimiter)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("time_zone", cfg.TimeZone.String()).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.CloseAll()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("Connected to database")
	return pool, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			"HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger",
		},
		ExposeHeaders: []string{websocket.HXTriggerHeader, "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        86400,
	}))

	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())

	return e
}
