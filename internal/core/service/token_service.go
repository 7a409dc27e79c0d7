package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/order-service/internal/core/domain"
)

// TokenTTL is the fixed lifetime of an identity token. Tokens cannot be
// revoked before they expire.
const TokenTTL = time.Hour

// tokenClaims is the signed payload: subject id in "sub", plus the email.
// The role is never embedded.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a token for the subject, valid from now until now + TokenTTL.
func (s *TokenService) Issue(subjectID int64, email string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry. Every failure is reported
// as domain.ErrInvalidToken with the parser's reason attached.
func (s *TokenService) Verify(token string) (*domain.Principal, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if err := s.checkLifetime(claims); err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", domain.ErrInvalidToken)
	}

	return &domain.Principal{UserID: id, Email: claims.Email}, nil
}

// checkLifetime accepts a token up to and including its exp second. The jwt
// validator rejects at exp itself, so the window is checked here instead.
func (s *TokenService) checkLifetime(claims *tokenClaims) error {
	now := s.now()
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", domain.ErrInvalidToken)
	}
	if now.After(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w: token expired", domain.ErrInvalidToken)
	}
	if claims.IssuedAt != nil && claims.IssuedAt.After(now) {
		return fmt.Errorf("%w: issued in the future", domain.ErrInvalidToken)
	}
	return nil
}
