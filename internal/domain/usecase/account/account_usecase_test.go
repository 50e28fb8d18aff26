package account

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/usecase/transfer"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/memstore"
	securityadapter "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/security"
	timeadapter "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/time"
	mocknotification "github.com/amirhossein-jamali/bank-ledger/mocks/port/notification"
)

type fixture struct {
	uc     *AccountUseCase
	uow    *memstore.UnitOfWork
	clock  *timeadapter.ManualTimeProvider
	tokens *securityadapter.JWTService
	mailer *mocknotification.MockMailer
}

func testConfig() Config {
	return Config{
		StartingBalance: entity.MustParseAmount("500.00"),
		VerificationTTL: 5 * time.Minute,
		SessionTTL:      time.Hour,
		VerifyBaseURL:   "http://localhost:8080/bank_app/api/v1/auth",
		DebugEcho:       true,
		AllowReset:      true,
	}
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	clock := timeadapter.NewManualTimeProvider(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	tokens, err := securityadapter.NewJWTService("test-secret", "bank-ledger-test", clock)
	require.NoError(t, err)

	uow := memstore.NewUnitOfWork(memstore.NewStore(), logger.NewNoopLogger())
	mailer := mocknotification.NewMockMailer(t)

	uc := NewAccountUseCase(uow, securityadapter.NewBcryptHasher(bcrypt.MinCost), tokens, mailer, clock, logger.NewNoopLogger(), cfg)
	return &fixture{uc: uc, uow: uow, clock: clock, tokens: tokens, mailer: mailer}
}

// register signs up an account and returns the message handed to the mailer
func (f *fixture) register(t *testing.T, email, password string) (*usecase.RegisterResult, notification.VerificationMessage) {
	t.Helper()

	var sent notification.VerificationMessage
	f.mailer.On("SendVerification", mock.Anything, entity.NormalizeEmail(email), mock.AnythingOfType("notification.VerificationMessage")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(notification.VerificationMessage) }).
		Return(nil).Once()

	result, err := f.uc.Register(context.Background(), usecase.RegisterRequest{
		Email:       email,
		Password:    password,
		PhoneNumber: "+1 555 0100",
	})
	require.NoError(t, err)
	return result, sent
}

func linkParams(t *testing.T, link string) (string, string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token"), u.Query().Get("pin")
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, testConfig())

	tests := []struct {
		name string
		req  usecase.RegisterRequest
		want error
	}{
		{"missing email", usecase.RegisterRequest{Password: "password1", PhoneNumber: "1"}, errs.ErrMissingSignupFields},
		{"missing password", usecase.RegisterRequest{Email: "a@example.com", PhoneNumber: "1"}, errs.ErrMissingSignupFields},
		{"missing phone", usecase.RegisterRequest{Email: "a@example.com", Password: "password1", PhoneNumber: "  "}, errs.ErrMissingSignupFields},
		{"bad email", usecase.RegisterRequest{Email: "not-an-email", Password: "password1", PhoneNumber: "1"}, errs.ErrInvalidEmail},
		{"short password", usecase.RegisterRequest{Email: "a@example.com", Password: "short", PhoneNumber: "1"}, errs.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestRegister_CreatesPendingAccount(t *testing.T) {
	f := newFixture(t, testConfig())

	result, sent := f.register(t, "  Alice@Example.COM ", "password123")

	assert.Equal(t, "alice@example.com", result.Account.Email)
	assert.Equal(t, entity.StatusPending, result.Account.Status)
	assert.Equal(t, "500.00", result.Account.Balance)

	assert.Len(t, sent.Code, entity.VerificationCodeLength)
	assert.Equal(t, 5*time.Minute, sent.ExpiresIn)
	token, pin := linkParams(t, sent.Link)
	assert.Equal(t, sent.Code, pin)
	assert.NotEmpty(t, token)

	require.NotNil(t, result.Debug)
	assert.Equal(t, sent.Link, result.Debug.Link)
	assert.Equal(t, sent.Code, result.Debug.Code)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, security.PurposeVerification, claims.Purpose)
	assert.Equal(t, result.Account.ID, claims.AccountID)
}

func TestRegister_DebugEchoDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.DebugEcho = false
	f := newFixture(t, cfg)

	result, _ := f.register(t, "alice@example.com", "password123")
	assert.Nil(t, result.Debug)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t, testConfig())
	result, sent := f.register(t, "alice@example.com", "password123")

	_, err := f.uc.Register(context.Background(), usecase.RegisterRequest{
		Email: "ALICE@example.com", Password: "password123", PhoneNumber: "1",
	})
	assert.ErrorIs(t, err, errs.ErrAccountPending)

	token, pin := linkParams(t, sent.Link)
	_, err = f.uc.Verify(context.Background(), token, pin)
	require.NoError(t, err)

	_, err = f.uc.Register(context.Background(), usecase.RegisterRequest{
		Email: "alice@example.com", Password: "password123", PhoneNumber: "1",
	})
	assert.ErrorIs(t, err, errs.ErrAccountExists)
	assert.Equal(t, 409, errs.HTTPStatus(err))

	accounts, err := f.uow.GetAccountRepository(context.Background()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, result.Account.ID, accounts[0].ID)
}

func TestRegister_DeliveryFailureRollsBack(t *testing.T) {
	f := newFixture(t, testConfig())
	f.mailer.On("SendVerification", mock.Anything, "alice@example.com", mock.Anything).
		Return(errors.New("smtp: 550 mailbox unavailable")).Once()

	_, err := f.uc.Register(context.Background(), usecase.RegisterRequest{
		Email: "alice@example.com", Password: "password123", PhoneNumber: "1",
	})
	assert.ErrorIs(t, err, errs.ErrDelivery)
	assert.Equal(t, 502, errs.HTTPStatus(err))

	_, err = f.uow.GetAccountRepository(context.Background()).GetByEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	// the email can be registered again afterwards
	f.register(t, "alice@example.com", "password123")
}

func TestRegister_DeliveryFailureKeepsVerifiedAccount(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	// the account is verified while the mailer is still reporting failure
	f.mailer.On("SendVerification", mock.Anything, "alice@example.com", mock.Anything).
		Run(func(args mock.Arguments) {
			msg := args.Get(2).(notification.VerificationMessage)
			token, pin := linkParams(t, msg.Link)
			_, err := f.uc.Verify(ctx, token, pin)
			require.NoError(t, err)
		}).
		Return(errors.New("smtp: timeout after DATA")).Once()

	_, err := f.uc.Register(ctx, usecase.RegisterRequest{
		Email: "alice@example.com", Password: "password123", PhoneNumber: "1",
	})
	assert.ErrorIs(t, err, errs.ErrDelivery)

	account, err := f.uow.GetAccountRepository(ctx).GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, account.IsActive())
}

func TestRegister_SlowMailerDoesNotBlockTransfers(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	seeded, err := f.uc.SeedAccounts(ctx, []SeedAccount{
		{Email: "alice@example.com", Password: "password123", PhoneNumber: "1"},
		{Email: "bob@example.com", Password: "password123", PhoneNumber: "2"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, seeded)
	alice, err := f.uow.GetAccountRepository(ctx).GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.mailer.On("SendVerification", mock.Anything, "carol@example.com", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()

	registered := make(chan error, 1)
	go func() {
		_, err := f.uc.Register(ctx, usecase.RegisterRequest{
			Email: "carol@example.com", Password: "password123", PhoneNumber: "3",
		})
		registered <- err
	}()
	<-entered

	transfers := transfer.NewTransferService(f.uow, nil, f.clock, logger.NewNoopLogger())
	transferred := make(chan error, 1)
	go func() {
		_, err := transfers.TransferFunds(ctx, alice.ID, usecase.TransferRequest{
			RecipientEmail: "bob@example.com",
			Amount:         "25.00",
		})
		transferred <- err
	}()

	select {
	case err := <-transferred:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("transfer waited for the verification mail")
	}

	close(release)
	require.NoError(t, <-registered)

	bob, err := f.uow.GetAccountRepository(ctx).GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "525.00", bob.GetBalance())
}

func TestVerify(t *testing.T) {
	f := newFixture(t, testConfig())
	_, sent := f.register(t, "alice@example.com", "password123")
	token, pin := linkParams(t, sent.Link)
	ctx := context.Background()

	_, err := f.uc.Verify(ctx, "", pin)
	assert.ErrorIs(t, err, errs.ErrMissingVerificationParams)

	_, err = f.uc.Verify(ctx, "garbage", pin)
	assert.ErrorIs(t, err, errs.ErrTokenInvalid)

	wrongPin := "000000"
	if pin == wrongPin {
		wrongPin = "111111"
	}
	_, err = f.uc.Verify(ctx, token, wrongPin)
	assert.ErrorIs(t, err, errs.ErrVerificationNotFound)

	result, err := f.uc.Verify(ctx, token, pin)
	require.NoError(t, err)
	assert.False(t, result.AlreadyVerified)
	assert.Equal(t, entity.StatusActive, result.Account.Status)

	again, err := f.uc.Verify(ctx, token, pin)
	require.NoError(t, err)
	assert.True(t, again.AlreadyVerified)
	assert.Equal(t, entity.StatusActive, again.Account.Status)
}

func TestVerify_Expired(t *testing.T) {
	f := newFixture(t, testConfig())
	_, sent := f.register(t, "alice@example.com", "password123")
	token, pin := linkParams(t, sent.Link)

	f.clock.Advance(5*time.Minute + time.Second)

	_, err := f.uc.Verify(context.Background(), token, pin)
	assert.ErrorIs(t, err, errs.ErrTokenExpired)

	account, err := f.uow.GetAccountRepository(context.Background()).GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, account.IsPending())
}

func TestVerify_RejectsSessionToken(t *testing.T) {
	f := newFixture(t, testConfig())
	result, sent := f.register(t, "alice@example.com", "password123")
	_, pin := linkParams(t, sent.Link)

	session, err := f.tokens.Issue(security.Claims{
		AccountID: result.Account.ID,
		Email:     result.Account.Email,
		Purpose:   security.PurposeSession,
	}, time.Hour)
	require.NoError(t, err)

	_, err = f.uc.Verify(context.Background(), session, pin)
	assert.ErrorIs(t, err, errs.ErrTokenInvalid)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, testConfig())
	_, sent := f.register(t, "alice@example.com", "password123")
	ctx := context.Background()

	_, err := f.uc.Authenticate(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, errs.ErrAccountNotVerified)

	token, pin := linkParams(t, sent.Link)
	_, err = f.uc.Verify(ctx, token, pin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"missing fields", "", "", errs.ErrMissingCredentials},
		{"unknown email", "bob@example.com", "password123", errs.ErrUnknownEmail},
		{"wrong password", "alice@example.com", "password124", errs.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Authenticate(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	session, err := f.uc.Authenticate(ctx, " ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", session.Account.Email)

	principal, err := f.uc.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, principal.AccountID)
}

func TestResolveSession(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	accountID := uuid.New()

	_, err := f.uc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, errs.ErrSessionInvalid)

	verifyToken, err := f.tokens.Issue(security.Claims{AccountID: accountID, Purpose: security.PurposeVerification}, time.Hour)
	require.NoError(t, err)
	_, err = f.uc.ResolveSession(ctx, verifyToken)
	assert.ErrorIs(t, err, errs.ErrSessionInvalid)

	session, err := f.tokens.Issue(security.Claims{AccountID: accountID, Purpose: security.PurposeSession}, time.Hour)
	require.NoError(t, err)
	f.clock.Advance(time.Hour + time.Second)
	_, err = f.uc.ResolveSession(ctx, session)
	assert.ErrorIs(t, err, errs.ErrSessionExpired)
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowReset = false
		f := newFixture(t, cfg)
		assert.ErrorIs(t, f.uc.Reset(ctx), errs.ErrResetDisabled)
	})

	t.Run("wipes everything", func(t *testing.T) {
		f := newFixture(t, testConfig())
		f.register(t, "alice@example.com", "password123")

		require.NoError(t, f.uc.Reset(ctx))

		accounts, err := f.uow.GetAccountRepository(ctx).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

func TestSeedAccounts(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	seeds := []SeedAccount{
		{Email: "alice@example.com", Password: "password123", PhoneNumber: "1"},
		{Email: "bob@example.com", Password: "password123", PhoneNumber: "2"},
	}

	created, err := f.uc.SeedAccounts(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = f.uc.SeedAccounts(ctx, seeds)
	require.NoError(t, err)
	assert.Zero(t, created)

	session, err := f.uc.Authenticate(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, session.Account.Status)
}

func TestPurgeExpiredChallenges(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	f.register(t, "alice@example.com", "password123")

	f.clock.Advance(4 * time.Minute)
	removed, err := f.uc.PurgeExpiredChallenges(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	f.clock.Advance(time.Minute + time.Second)
	removed, err = f.uc.PurgeExpiredChallenges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
