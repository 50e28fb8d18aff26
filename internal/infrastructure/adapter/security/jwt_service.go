package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
)

// ErrEmptySecret is returned when the signing secret is not configured
var ErrEmptySecret = errors.New("jwt signing secret must not be empty")

// claims is the wire form of security.Claims
type claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
}

// JWTService implements security.TokenService with HS256 signed JWTs
type JWTService struct {
	secret       []byte
	issuer       string
	timeProvider coreport.TimeProvider
}

var _ security.TokenService = (*JWTService)(nil)

// NewJWTService creates a token service signing with secret
func NewJWTService(secret, issuer string, timeProvider coreport.TimeProvider) (*JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTService{
		secret:       []byte(secret),
		issuer:       issuer,
		timeProvider: timeProvider,
	}, nil
}

// Issue signs c valid for ttl from now
func (s *JWTService) Issue(c security.Claims, ttl time.Duration) (string, error) {
	now := s.timeProvider.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.AccountID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email:   c.Email,
		Purpose: string(c.Purpose),
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature, issuer and expiry of token
func (s *JWTService) Verify(token string) (*security.Claims, error) {
	parsed := &claims{}
	tok, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeProvider.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, errs.ErrTokenInvalid
	}

	accountID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return nil, errs.ErrTokenInvalid
	}

	return &security.Claims{
		AccountID: accountID,
		Email:     parsed.Email,
		Purpose:   security.TokenPurpose(parsed.Purpose),
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
