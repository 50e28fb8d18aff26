// Command ledgerctl runs administrative tasks against the ledger store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/dashboard"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/security"
	timeprovider "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/config"
)

const usage = `Usage: ledgerctl [flags] <command>

Commands:
  audit   check that balances and ledger entries agree
  purge   delete expired verification challenges
  reset   remove every account and ledger entry (development and test only)

Flags:
`

// errInconsistent makes the process exit non-zero without printing twice
var errInconsistent = errors.New("ledger inconsistent")

func main() {
	fs := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the audit report as JSON")
	noColor := fs.Bool("no-color", false, "disable colored output")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	if *noColor {
		color.NoColor = true
	}

	if err := run(context.Background(), fs.Arg(0), *asJSON, os.Stdout); err != nil {
		if !errors.Is(err, errInconsistent) {
			failColor.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, asJSON bool, out io.Writer) error {
	switch command {
	case "audit", "purge", "reset":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	appLogger, err := bootstrap.NewLogger(config.LoggerConfig{
		Level:   "warn",
		Format:  "console",
		Outputs: []string{"stderr"},
		Service: "ledgerctl",
	})
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeprovider.NewRealTimeProvider()
	store, err := bootstrap.OpenStorage(ctx, cfg.Database, appLogger, tp)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	startingBalance, err := cfg.Ledger.StartingBalanceDecimal()
	if err != nil {
		return err
	}

	switch command {
	case "audit":
		audit, err := dashboard.NewDashboardService(store.UnitOfWork, startingBalance, appLogger).AuditLedger(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			if err := renderJSON(out, audit); err != nil {
				return err
			}
		} else {
			renderAudit(out, audit)
		}
		if !audit.Consistent() {
			return errInconsistent
		}
		return nil
	}

	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tp)
	if err != nil {
		return err
	}
	accounts := account.NewAccountUseCase(
		store.UnitOfWork,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		bootstrap.NewMailer(cfg.Mail, appLogger),
		tp,
		logger.NewNoopLogger(),
		account.Config{
			StartingBalance: startingBalance,
			VerificationTTL: cfg.Auth.VerificationTTL,
			SessionTTL:      cfg.Auth.SessionTTL,
			VerifyBaseURL:   cfg.Mail.VerifyBaseURL,
			AllowReset:      cfg.AllowReset,
		},
	)

	if command == "purge" {
		removed, err := accounts.PurgeExpiredChallenges(ctx)
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "removed %d expired verification challenge(s)\n", removed)
		return nil
	}

	if err := accounts.Reset(ctx); err != nil {
		return err
	}
	okColor.Fprintf(out, "all accounts and ledger entries removed (%s)\n", cfg.Environment)
	return nil
}
