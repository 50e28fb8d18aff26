package dashboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// AuditLedger checks that money was conserved. The sum of balances must equal what
// the accounts were opened with and no balance may be negative. Every transfer needs
// a negative debit and a positive credit whose stored amounts sum to zero, and each
// balance must equal its opening amount plus its entries.
func (s *Service) AuditLedger(ctx context.Context) (*usecase.LedgerAudit, error) {
	accounts, err := s.uow.GetAccountRepository(ctx).List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.uow.GetTransactionRepository(ctx).List(ctx)
	if err != nil {
		return nil, err
	}

	audit := &usecase.LedgerAudit{
		Accounts:          len(accounts),
		Transactions:      len(entries),
		UnbalancedPairs:   []string{},
		NegativeAccounts:  []string{},
		BalanceMismatches: []string{},
	}

	netByAccount := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	netByTransfer := make(map[uuid.UUID]decimal.Decimal)
	legsByTransfer := make(map[uuid.UUID]int)
	misSigned := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		netByAccount[entry.AccountID] = netByAccount[entry.AccountID].Add(entry.SignedAmount())
		netByTransfer[entry.TransferID] = netByTransfer[entry.TransferID].Add(entry.SignedAmount())
		legsByTransfer[entry.TransferID]++
		if !entry.SignMatchesDirection() {
			misSigned[entry.TransferID] = true
		}
	}
	audit.Transfers = len(legsByTransfer)

	for transferID, net := range netByTransfer {
		if !net.IsZero() || legsByTransfer[transferID] != 2 || misSigned[transferID] {
			audit.UnbalancedPairs = append(audit.UnbalancedPairs, transferID.String())
		}
	}
	sort.Strings(audit.UnbalancedPairs)

	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance())
		if account.Balance().IsNegative() {
			audit.NegativeAccounts = append(audit.NegativeAccounts, account.Email)
		}
		expected := s.startingBalance.Add(netByAccount[account.ID])
		if !expected.Equal(account.Balance()) {
			audit.BalanceMismatches = append(audit.BalanceMismatches, account.Email)
		}
	}

	audit.TotalBalance = entity.FormatAmount(total)
	audit.ExpectedBalance = entity.FormatAmount(s.startingBalance.Mul(decimal.NewFromInt(int64(len(accounts)))))

	if !audit.Consistent() {
		s.logger.Error("Ledger audit found inconsistencies", map[string]any{
			"total_balance":      audit.TotalBalance,
			"expected_balance":   audit.ExpectedBalance,
			"unbalanced_pairs":   len(audit.UnbalancedPairs),
			"negative_accounts":  len(audit.NegativeAccounts),
			"balance_mismatches": len(audit.BalanceMismatches),
		})
	}
	return audit, nil
}
