package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/dashboard"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/transfer"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/routes"
	notify "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/security"
	timeprovider "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := bootstrap.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeprovider.NewRealTimeProvider()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStorage(ctx, cfg.Database, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to open storage", map[string]any{"error": err.Error(), "driver": cfg.Database.Driver})
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Error("Failed to close storage", map[string]any{"error": err.Error()})
		}
	}()

	startingBalance, err := cfg.Ledger.StartingBalanceDecimal()
	if err != nil {
		appLogger.Error("Invalid starting balance", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tp)
	if err != nil {
		appLogger.Error("Failed to create token service", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	registry := notify.NewPresenceRegistry()
	hub := notify.NewHub(registry, appLogger)
	defer hub.Close()

	accounts := account.NewAccountUseCase(
		store.UnitOfWork,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		bootstrap.NewMailer(cfg.Mail, appLogger),
		tp,
		appLogger,
		account.Config{
			StartingBalance: startingBalance,
			VerificationTTL: cfg.Auth.VerificationTTL,
			SessionTTL:      cfg.Auth.SessionTTL,
			VerifyBaseURL:   cfg.Mail.VerifyBaseURL,
			DebugEcho:       cfg.DebugEcho,
			AllowReset:      cfg.AllowReset,
		},
	)
	transfers := transfer.NewTransferService(store.UnitOfWork, hub, tp, appLogger)
	dashboards := dashboard.NewDashboardService(store.UnitOfWork, startingBalance, appLogger)

	if len(cfg.Ledger.SeedAccounts) > 0 {
		seedAccounts(ctx, accounts, cfg.Ledger.SeedAccounts, appLogger)
	}

	go purgeExpiredChallenges(ctx, accounts, cfg.Ledger.PurgeInterval)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		Account:   handler.NewAccountHandler(accounts, appLogger),
		Transfer:  handler.NewTransferHandler(transfers, appLogger),
		Dashboard: handler.NewDashboardHandler(dashboards, cfg.Ledger.MaxPageSize, appLogger),
		Realtime:  handler.NewRealtimeHandler(accounts, hub, cfg.Server.AllowedOrigins, appLogger),
		Health:    handler.NewHealthHandler(store.Pinger, appLogger),
	}, accounts)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"driver": cfg.Database.Driver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

func seedAccounts(ctx context.Context, accounts *account.AccountUseCase, seeds []config.SeedAccount, appLogger coreport.Logger) {
	batch := make([]account.SeedAccount, 0, len(seeds))
	for _, s := range seeds {
		batch = append(batch, account.SeedAccount{Email: s.Email, Password: s.Password, PhoneNumber: s.PhoneNumber})
	}

	created, err := accounts.SeedAccounts(ctx, batch)
	if err != nil {
		appLogger.Error("Failed to seed accounts", map[string]any{"error": err.Error()})
		return
	}
	appLogger.Info("Seed accounts ready", map[string]any{"created": created, "configured": len(seeds)})
}

// purgeExpiredChallenges removes stale verification challenges every interval until ctx is done
func purgeExpiredChallenges(ctx context.Context, accounts *account.AccountUseCase, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = accounts.PurgeExpiredChallenges(ctx)
		}
	}
}
