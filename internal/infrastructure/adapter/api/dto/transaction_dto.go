package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Amount is a money value that clients may send either as a JSON string or a
// JSON number. The literal text is kept so no binary float is involved.
type Amount string

// UnmarshalJSON accepts "12.50", 12.50 and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// TransferRequest represents the API request for moving funds
type TransferRequest struct {
	RecipientEmail string `json:"recipientEmail" validate:"required"`
	Amount         Amount `json:"amount" validate:"required,money"`
}

// TransferResponse represents the API response for a committed transfer
type TransferResponse struct {
	Message       string    `json:"message"`
	NewBalance    string    `json:"newBalance"`
	TransactionID uuid.UUID `json:"transactionId"`
}

// TransactionItem is one ledger entry on the dashboard
type TransactionItem struct {
	ID               uuid.UUID        `json:"_id"`
	Type             entity.Direction `json:"type"`
	Amount           string           `json:"amount"`
	Date             time.Time        `json:"date"`
	RelatedUserEmail string           `json:"relatedUserEmail"`
	Description      string           `json:"description"`
}

// DashboardResponse represents the API response for the dashboard
type DashboardResponse struct {
	Message            string            `json:"message"`
	UserEmail          string            `json:"userEmail"`
	Balance            string            `json:"balance"`
	LatestTransactions []TransactionItem `json:"latestTransactions"`
	Pagination         entity.Pagination `json:"pagination"`
}

// NewDashboardResponse maps a dashboard onto its wire form
func NewDashboardResponse(d *usecase.Dashboard) DashboardResponse {
	items := make([]TransactionItem, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		items = append(items, TransactionItem{
			ID:               t.ID,
			Type:             t.Type,
			Amount:           t.Amount,
			Date:             t.Timestamp.UTC(),
			RelatedUserEmail: t.CounterpartyEmail,
			Description:      t.Description,
		})
	}

	return DashboardResponse{
		Message:            "Dashboard data fetched successfully.",
		UserEmail:          d.Email,
		Balance:            d.Balance,
		LatestTransactions: items,
		Pagination:         d.Pagination,
	}
}
