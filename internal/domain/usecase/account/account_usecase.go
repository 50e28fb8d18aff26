package account

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Config holds the account lifecycle settings
type Config struct {
	StartingBalance decimal.Decimal
	VerificationTTL time.Duration
	SessionTTL      time.Duration
	VerifyBaseURL   string
	DebugEcho       bool // echo verification secrets in the registration response
	AllowReset      bool
}

// AccountUseCase handles registration, verification and authentication
type AccountUseCase struct {
	uow          persistence.UnitOfWork
	hasher       security.CredentialHasher
	tokens       security.TokenService
	mailer       notification.Mailer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config

	dummyOnce   sync.Once
	dummyDigest string
}

var _ usecase.AccountUseCase = (*AccountUseCase)(nil)

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(
	uow persistence.UnitOfWork,
	hasher security.CredentialHasher,
	tokens security.TokenService,
	mailer notification.Mailer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *AccountUseCase {
	return &AccountUseCase{
		uow:          uow,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// dummyHash returns a digest that never matches, used to keep the cost of a
// login for an unknown email close to that of a known one
func (u *AccountUseCase) dummyHash() string {
	u.dummyOnce.Do(func() {
		digest, err := u.hasher.Hash("unknown-account:placeholder")
		if err == nil {
			u.dummyDigest = digest
		}
	})
	return u.dummyDigest
}
