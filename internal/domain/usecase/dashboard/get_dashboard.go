package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// GetDashboard returns the account's balance and one page of its ledger entries, newest first
func (s *Service) GetDashboard(ctx context.Context, accountID uuid.UUID, page entity.PageRequest) (*usecase.Dashboard, error) {
	if page.Page < 1 {
		page.Page = entity.DefaultPage
	}
	if page.PageSize < 1 {
		page.PageSize = entity.DefaultPageSize
	}

	accounts := s.uow.GetAccountRepository(ctx)
	ledger := s.uow.GetTransactionRepository(ctx)

	account, err := accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total, err := ledger.CountByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to count ledger entries", map[string]any{
			"account_id": accountID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	entries, err := ledger.ListByAccount(ctx, accountID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("Failed to list ledger entries", map[string]any{
			"account_id": accountID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	emails, err := accounts.GetEmails(ctx, counterpartyIDs(entries))
	if err != nil {
		return nil, err
	}

	items := make([]usecase.DashboardItem, 0, len(entries))
	for _, entry := range entries {
		counterparty := usecase.CounterpartyPlaceholder
		if entry.CounterpartyID != nil {
			if email, ok := emails[*entry.CounterpartyID]; ok {
				counterparty = email
			}
		}

		items = append(items, usecase.DashboardItem{
			ID:                entry.ID,
			Type:              entry.Direction,
			Amount:            entry.GetAmount(),
			Description:       entry.Description,
			CounterpartyEmail: counterparty,
			Timestamp:         entry.CreatedAt,
		})
	}

	return &usecase.Dashboard{
		Email:        account.Email,
		Balance:      account.GetBalance(),
		Transactions: items,
		Pagination:   entity.NewPagination(page, total),
	}, nil
}

func counterpartyIDs(entries []*entity.Transaction) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if entry.CounterpartyID == nil {
			continue
		}
		if _, ok := seen[*entry.CounterpartyID]; ok {
			continue
		}
		seen[*entry.CounterpartyID] = struct{}{}
		ids = append(ids, *entry.CounterpartyID)
	}
	return ids
}
