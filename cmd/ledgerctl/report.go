package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	labelColor = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
)

// renderAudit writes a human readable audit report
func renderAudit(w io.Writer, audit *usecase.LedgerAudit) {
	row := func(label string, value any) {
		labelColor.Fprintf(w, "%-18s", label)
		fmt.Fprintln(w, value)
	}

	row("accounts", audit.Accounts)
	row("transfers", audit.Transfers)
	row("ledger entries", audit.Transactions)
	row("total balance", audit.TotalBalance)
	row("expected balance", audit.ExpectedBalance)

	violations := []struct {
		title string
		items []string
	}{
		{"unbalanced transfer pairs", audit.UnbalancedPairs},
		{"negative balances", audit.NegativeAccounts},
		{"balance mismatches", audit.BalanceMismatches},
	}
	for _, v := range violations {
		if len(v.items) == 0 {
			continue
		}
		warnColor.Fprintf(w, "%s (%d)\n", v.title, len(v.items))
		for _, item := range v.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}

	if audit.TotalBalance != audit.ExpectedBalance {
		warnColor.Fprintf(w, "money is not conserved: %s != %s\n", audit.TotalBalance, audit.ExpectedBalance)
	}

	if audit.Consistent() {
		okColor.Fprintln(w, "ledger consistent")
	} else {
		failColor.Fprintln(w, "ledger INCONSISTENT")
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
