package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

const developmentSecret = "change-me-in-production"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

var errNoDotEnv = errors.New("no .env file found in search paths")

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil && !errors.Is(err, errNoDotEnv) {
		fmt.Fprintln(os.Stderr, "Warning: Could not load .env file:", err)
	}

	env := getEnvironment()
	switch env {
	case Development, Test, Production:
	default:
		return nil, fmt.Errorf("unknown environment %q (BANK_ENV)", env)
	}

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	if dir := os.Getenv("BANK_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	// Set default values for non-critical settings
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("BANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Process environment variable overrides for sensitive values
	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	config.AllowReset = env == Development || env == Test
	if env == Production {
		config.DebugEcho = false
		config.Ledger.SeedAccounts = nil
	}

	// Convert time.Duration fields from their raw values
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first readable .env file from DotEnvPaths
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return errNoDotEnv
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5) // minutes
	v.SetDefault("database.connMaxIdleTime", 5) // minutes
	v.SetDefault("database.queryTimeout", 10)   // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 5) // seconds
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.outputs", []string{"stdout"})
	v.SetDefault("logger.service", "bank-ledger")

	v.SetDefault("auth.jwtSecret", developmentSecret)
	v.SetDefault("auth.issuer", "bank-ledger")
	v.SetDefault("auth.sessionTTL", 60)       // minutes
	v.SetDefault("auth.verificationTTL", 300) // seconds
	v.SetDefault("auth.bcryptCost", 10)

	v.SetDefault("mail.smtpPort", 587)
	v.SetDefault("mail.useTLS", true)
	v.SetDefault("mail.timeout", 10) // seconds
	v.SetDefault("mail.from", "no-reply@bank-ledger.local")
	v.SetDefault("mail.verifyBaseURL", "http://localhost:5000/bank_app/api/v1/auth")

	v.SetDefault("ledger.startingBalance", "500.00")
	v.SetDefault("ledger.maxPageSize", 100)
	v.SetDefault("ledger.purgeInterval", 10) // minutes

	v.SetDefault("debugEcho", false)
}

// getEnvironment determines the environment to use based on BANK_ENV environment variable
func getEnvironment() string {
	env := os.Getenv("BANK_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// stringOverrides maps environment variables onto config keys
var stringOverrides = map[string]string{
	"BANK_DB_DRIVER":       "database.driver",
	"BANK_DB_HOST":         "database.host",
	"BANK_DB_USERNAME":     "database.username",
	"BANK_DB_PASSWORD":     "database.password",
	"BANK_DB_NAME":         "database.database",
	"BANK_DB_SSL_MODE":     "database.sslMode",
	"BANK_SERVER_HOST":     "server.host",
	"BANK_LOGGER_LEVEL":    "logger.level",
	"BANK_JWT_SECRET":      "auth.jwtSecret",
	"BANK_SMTP_HOST":       "mail.smtpHost",
	"BANK_SMTP_USERNAME":   "mail.username",
	"BANK_SMTP_PASSWORD":   "mail.password",
	"BANK_MAIL_FROM":       "mail.from",
	"BANK_VERIFY_BASE_URL": "mail.verifyBaseURL",
}

// intOverrides maps numeric environment variables onto config keys; unparsable values are ignored
var intOverrides = map[string]string{
	"BANK_DB_PORT":           "database.port",
	"BANK_DB_MAX_OPEN_CONNS": "database.maxOpenConns",
	"BANK_DB_MAX_IDLE_CONNS": "database.maxIdleConns",
	"BANK_SERVER_PORT":       "server.port",
	"BANK_SMTP_PORT":         "mail.smtpPort",
	"BANK_BCRYPT_COST":       "auth.bcryptCost",
	"BANK_MAX_PAGE_SIZE":     "ledger.maxPageSize",
}

// processEnvOverrides ensures environment variables override config values
func processEnvOverrides(v *viper.Viper) {
	for name, key := range stringOverrides {
		if value := os.Getenv(name); value != "" {
			v.Set(key, value)
		}
	}
	for name, key := range intOverrides {
		if value := getEnvInt(name, 0); value > 0 {
			v.Set(key, value)
		}
	}

	if origins := os.Getenv("BANK_ALLOWED_ORIGINS"); origins != "" {
		v.Set("server.allowedOrigins", strings.Split(origins, ","))
	}
	if echo := os.Getenv("BANK_DEBUG_ECHO"); echo != "" {
		if enabled, err := strconv.ParseBool(echo); err == nil {
			v.Set("debugEcho", enabled)
		}
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.RetryDelay *= time.Second

	config.Auth.SessionTTL *= time.Minute
	config.Auth.VerificationTTL *= time.Second

	config.Mail.Timeout *= time.Second
	config.Ledger.PurgeInterval *= time.Minute
}
