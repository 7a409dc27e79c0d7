package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	cost   int
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
}

// Register creates a USER identity and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	user, err := s.create(ctx, strings.TrimSpace(in.Name), email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies the password and returns a fresh token.
// Unknown emails yield domain.ErrUserNotFound, wrong passwords domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, User: user}, nil
}

// Me returns the current record of the authenticated user.
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.repo.FindByID(ctx, p.UserID)
}

// EnsureAdmin creates the bootstrap administrator when it does not exist yet.
// An existing account with the same email is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", domain.ErrValidation)
	}
	if err := checkPasswordLength(password); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			s.log.Warn().Str("email", email).Msg("bootstrap admin email belongs to a non-admin user")
		}
		return existing, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user, err := s.create(ctx, name, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("bootstrap admin created")
	return user, nil
}

func (s *AuthService) create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// bcrypt only hashes the first 72 bytes and refuses longer input.
const maxPasswordBytes = 72

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
