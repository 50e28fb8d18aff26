// Package bootstrap builds the infrastructure shared by the server and the admin CLI.
package bootstrap

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/memstore"
	notify "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/config"
)

// Pinger reports storage liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage bundles the selected persistence backend
type Storage struct {
	UnitOfWork persistence.UnitOfWork
	// Pinger is nil for the in-memory backend
	Pinger Pinger
	close  func() error
}

// Close releases the backend's connections
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewLogger creates the zap logger described by cfg
func NewLogger(cfg config.LoggerConfig) (*logger.ZapLogger, error) {
	return logger.NewZapLogger(logger.Options{
		Production:  cfg.Format == "json",
		Level:       coreport.ParseLogLevel(cfg.Level),
		Service:     cfg.Service,
		OutputPaths: cfg.Outputs,
	})
}

// OpenStorage connects the configured backend, running migrations for postgres when enabled
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig, appLogger coreport.Logger, tp coreport.TimeProvider) (*Storage, error) {
	dbConfig := NewDatabaseConfig(cfg)
	if err := dbConfig.Validate(); err != nil {
		return nil, err
	}

	if dbConfig.Driver == database.DriverMemory {
		appLogger.Warn("Using in-memory storage; data is lost on restart", nil)
		return &Storage{UnitOfWork: memstore.NewUnitOfWork(memstore.NewStore(), appLogger)}, nil
	}

	manager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	if dbConfig.AutoMigrate {
		if err := manager.Migrate(ctx); err != nil {
			_ = manager.Close()
			return nil, err
		}
	}

	return &Storage{
		UnitOfWork: manager.CreateUnitOfWork(),
		Pinger:     manager,
		close:      manager.Close,
	}, nil
}

// NewDatabaseConfig maps the application's database section onto the manager's config
func NewDatabaseConfig(c config.DatabaseConfig) *database.Config {
	return &database.Config{
		Driver:          c.Driver,
		Host:            c.Host,
		Port:            c.Port,
		Username:        c.Username,
		Password:        c.Password,
		Database:        c.Database,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
		QueryTimeout:    c.QueryTimeout,
		LogLevel:        c.LogLevel,
		SlowThreshold:   200 * time.Millisecond,
		RetryAttempts:   c.RetryAttempts,
		RetryDelay:      c.RetryDelay,
		AutoMigrate:     c.AutoMigrate,
	}
}

// NewMailer returns an SMTP mailer, or a logging one when no SMTP host is configured
func NewMailer(c config.MailConfig, appLogger coreport.Logger) notification.Mailer {
	if c.SMTPHost == "" {
		appLogger.Warn("No SMTP host configured; verification mail is logged instead of sent", nil)
		return notify.NewLogMailer(appLogger)
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
		UseTLS:   c.UseTLS,
		Timeout:  c.Timeout,
	}, appLogger)
}
