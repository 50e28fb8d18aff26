package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Test(t *testing.T) {
	t.Setenv("BANK_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 5055, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.VerificationTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Minute, cfg.Ledger.PurgeInterval)
	assert.True(t, cfg.DebugEcho)
	assert.True(t, cfg.AllowReset)

	balance, err := cfg.Ledger.StartingBalanceDecimal()
	require.NoError(t, err)
	assert.Equal(t, "500.00", balance.StringFixed(2))

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DevelopmentSeeds(t *testing.T) {
	t.Setenv("BANK_ENV", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	require.Len(t, cfg.Ledger.SeedAccounts, 2)
	assert.Equal(t, "alice@example.com", cfg.Ledger.SeedAccounts[0].Email)
	assert.Equal(t, "+15550000002", cfg.Ledger.SeedAccounts[1].PhoneNumber)
	assert.Equal(t, developmentSecret, cfg.Auth.JWTSecret)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BANK_ENV", "test")
	t.Setenv("BANK_SERVER_PORT", "6001")
	t.Setenv("BANK_JWT_SECRET", "from-env")
	t.Setenv("BANK_DB_DRIVER", "postgres")
	t.Setenv("BANK_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("BANK_DEBUG_ECHO", "false")
	t.Setenv("BANK_MAX_PAGE_SIZE", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6001, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.DebugEcho)
	assert.Equal(t, 100, cfg.Ledger.MaxPageSize)
}

func TestLoadConfig_ProductionLocksDiagnostics(t *testing.T) {
	t.Setenv("BANK_ENV", "production")
	t.Setenv("BANK_DEBUG_ECHO", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.DebugEcho)
	assert.False(t, cfg.AllowReset)
	assert.Empty(t, cfg.Ledger.SeedAccounts)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)

	// the built-in secret is rejected in production
	assert.ErrorContains(t, cfg.Validate(), "auth.jwtSecret")

	t.Setenv("BANK_JWT_SECRET", "a-real-secret")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_UnknownEnvironment(t *testing.T) {
	t.Setenv("BANK_ENV", "staging")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "staging")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "auth.jwtSecret")
	assert.Contains(t, err.Error(), "ledger.maxPageSize")

	cfg = &Config{
		Server: ServerConfig{Port: 1, ReadTimeout: 1, WriteTimeout: 1, ShutdownTimeout: 1},
		Auth:   AuthConfig{JWTSecret: "s", SessionTTL: 1, VerificationTTL: 1},
		Mail:   MailConfig{VerifyBaseURL: "http://x"},
		Ledger: LedgerConfig{StartingBalance: "-1", MaxPageSize: 10},
	}
	assert.ErrorContains(t, cfg.Validate(), "negative")

	cfg.Ledger.StartingBalance = "abc"
	assert.ErrorContains(t, cfg.Validate(), "startingBalance")
}

func TestStartingBalanceDecimal(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr string
	}{
		{name: "Default", value: "500.00", want: "500.00"},
		{name: "Zero", value: "0", want: "0.00"},
		{name: "Negative", value: "-0.01", wantErr: "negative"},
		{name: "Not a number", value: "five hundred", wantErr: "ledger.startingBalance"},
		{name: "Empty", value: "", wantErr: "ledger.startingBalance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := LedgerConfig{StartingBalance: tt.value}.StartingBalanceDecimal()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.True(t, amount.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount.StringFixed(2))
		})
	}
}
