package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// CounterpartyPlaceholder stands in for a counterparty that no longer exists
const CounterpartyPlaceholder = "N/A"

// DashboardItem is one ledger entry as presented to its owner
type DashboardItem struct {
	ID                uuid.UUID        `json:"id"`
	Type              entity.Direction `json:"type"`
	Amount            string           `json:"amount"`
	Description       string           `json:"description"`
	CounterpartyEmail string           `json:"relatedUser"`
	Timestamp         time.Time        `json:"timestamp"`
}

// Dashboard is an account summary with one page of its history
type Dashboard struct {
	Email        string            `json:"email"`
	Balance      string            `json:"balance"`
	Transactions []DashboardItem   `json:"transactions"`
	Pagination   entity.Pagination `json:"pagination"`
}

// LedgerAudit summarizes the global consistency of the ledger
type LedgerAudit struct {
	Accounts          int      `json:"accounts"`
	TotalBalance      string   `json:"totalBalance"`
	ExpectedBalance   string   `json:"expectedBalance"`
	Transactions      int      `json:"transactions"`
	Transfers         int      `json:"transfers"`
	UnbalancedPairs   []string `json:"unbalancedPairs"`
	NegativeAccounts  []string `json:"negativeAccounts"`
	BalanceMismatches []string `json:"balanceMismatches"`
}

// Consistent reports whether the audit found no violation
func (a *LedgerAudit) Consistent() bool {
	return a.TotalBalance == a.ExpectedBalance &&
		len(a.UnbalancedPairs) == 0 &&
		len(a.NegativeAccounts) == 0 &&
		len(a.BalanceMismatches) == 0
}

// DashboardUseCase defines the read side of the ledger
type DashboardUseCase interface {
	// GetDashboard returns the account summary and one page of its history
	GetDashboard(ctx context.Context, accountID uuid.UUID, page entity.PageRequest) (*Dashboard, error)

	// AuditLedger checks the ledger invariants across every account
	AuditLedger(ctx context.Context) (*LedgerAudit, error)
}
