package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Mail        MailConfig     `mapstructure:"mail"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`

	// DebugEcho returns the verification link, token and PIN in the signup
	// response. Always false in production.
	DebugEcho bool `mapstructure:"debugEcho"`
	// AllowReset is derived from the environment, never read from file.
	AllowReset bool `mapstructure:"-"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains storage settings. Driver "memory" ignores everything else.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level   string   `mapstructure:"level"`
	Format  string   `mapstructure:"format"` // json | console
	Outputs []string `mapstructure:"outputs"`
	Service string   `mapstructure:"service"`
}

// AuthConfig contains credential and token settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwtSecret"`
	Issuer          string        `mapstructure:"issuer"`
	SessionTTL      time.Duration `mapstructure:"sessionTTL"`      // minutes
	VerificationTTL time.Duration `mapstructure:"verificationTTL"` // seconds
	BcryptCost      int           `mapstructure:"bcryptCost"`
}

// MailConfig contains outbound email settings. An empty SMTP host logs messages instead of sending them.
type MailConfig struct {
	SMTPHost      string        `mapstructure:"smtpHost"`
	SMTPPort      int           `mapstructure:"smtpPort"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	From          string        `mapstructure:"from"`
	UseTLS        bool          `mapstructure:"useTLS"`
	Timeout       time.Duration `mapstructure:"timeout"` // seconds
	VerifyBaseURL string        `mapstructure:"verifyBaseURL"`
}

// LedgerConfig contains money and paging settings
type LedgerConfig struct {
	StartingBalance string        `mapstructure:"startingBalance"`
	MaxPageSize     int           `mapstructure:"maxPageSize"`
	PurgeInterval   time.Duration `mapstructure:"purgeInterval"` // minutes
	SeedAccounts    []SeedAccount `mapstructure:"seedAccounts"`
}

// SeedAccount is an already verified account created at startup outside production
type SeedAccount struct {
	Email       string `mapstructure:"email"`
	Password    string `mapstructure:"password"`
	PhoneNumber string `mapstructure:"phoneNumber"`
}

// StartingBalanceDecimal parses the configured opening balance
func (l LedgerConfig) StartingBalanceDecimal() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(l.StartingBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger.startingBalance %q: %w", l.StartingBalance, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("ledger.startingBalance must not be negative, got %s", l.StartingBalance)
	}
	return amount, nil
}

// Validate ensures all required configuration values are present
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if c.Server.ReadTimeout == 0 {
		missing = append(missing, "server.readTimeout")
	}
	if c.Server.WriteTimeout == 0 {
		missing = append(missing, "server.writeTimeout")
	}
	if c.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwtSecret (or BANK_JWT_SECRET environment variable)")
	}
	if c.Auth.SessionTTL == 0 {
		missing = append(missing, "auth.sessionTTL")
	}
	if c.Auth.VerificationTTL == 0 {
		missing = append(missing, "auth.verificationTTL")
	}
	if c.Mail.VerifyBaseURL == "" {
		missing = append(missing, "mail.verifyBaseURL")
	}
	if c.Ledger.MaxPageSize <= 0 {
		missing = append(missing, "ledger.maxPageSize")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if _, err := c.Ledger.StartingBalanceDecimal(); err != nil {
		return err
	}
	if c.Environment == Production && c.Auth.JWTSecret == developmentSecret {
		return errors.New("auth.jwtSecret must be overridden in production")
	}

	return nil
}
