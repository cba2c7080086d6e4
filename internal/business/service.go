package business

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// Service manages merchant registration and authentication, and exposes the
// settlement balance the ledger engine credits on merchant-bound transfers.
type Service struct {
	repo Repository
}

// NewService creates a business directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures the data needed to enroll a merchant.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register enrolls a merchant with a hashed credential, a generated id and a
// linked bank account reference. The settlement balance starts at zero.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Business, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Business{}, fmt.Errorf("%w: business name is required", domain.ErrValidation)
	}
	if !strings.Contains(input.Email, "@") {
		return Business{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(input.Password) < 6 {
		return Business{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Business{}, err
	}

	b := Business{
		ID:                NewID(),
		Name:              strings.TrimSpace(input.Name),
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:      hash,
		BankAccount:       NewBankAccount(),
		SettlementBalance: decimal.Zero,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Business{}, err
	}
	return b, nil
}

// Authenticate verifies a merchant credential.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Business, error) {
	b, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Business{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(b.PasswordHash, []byte(password)); err != nil {
		return Business{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	return b, nil
}

// Get fetches a merchant by id.
func (s *Service) Get(ctx context.Context, id string) (Business, error) {
	return s.repo.GetByID(ctx, id)
}

// SettlementBalance returns the merchant's accumulated phantom-rail takings.
func (s *Service) SettlementBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return b.SettlementBalance, nil
}
