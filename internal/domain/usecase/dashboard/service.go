package dashboard

import (
	"github.com/shopspring/decimal"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Service serves the read side of the ledger
type Service struct {
	uow             persistence.UnitOfWork
	startingBalance decimal.Decimal
	logger          coreport.Logger
}

var _ usecase.DashboardUseCase = (*Service)(nil)

// NewDashboardService creates a new dashboard service. startingBalance is the
// amount every account is opened with and anchors the ledger audit.
func NewDashboardService(uow persistence.UnitOfWork, startingBalance decimal.Decimal, logger coreport.Logger) *Service {
	return &Service{
		uow:             uow,
		startingBalance: startingBalance,
		logger:          logger,
	}
}
