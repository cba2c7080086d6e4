package business

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	b, err := svc.Register(ctx, RegisterInput{
		Name:     "Mma Ramotswe General Dealer",
		Email:    "Shop@Example.co.bw",
		Password: "s3cret-pw",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^merchant_[0-9a-f]{8}$`, b.ID)
	assert.Regexp(t, `^62\d{8}$`, b.BankAccount)
	assert.Equal(t, "shop@example.co.bw", b.Email)
	assert.True(t, b.SettlementBalance.IsZero())

	got, err := svc.Authenticate(ctx, "shop@example.co.bw", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Authenticate(ctx, "shop@example.co.bw", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = svc.Authenticate(ctx, "nobody@example.co.bw", "s3cret-pw")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "First", Email: "dup@example.com", Password: "password"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Second", Email: "DUP@example.com", Password: "password"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.com", Password: "password"},
		{Name: "Shop", Email: "not-an-email", Password: "password"},
		{Name: "Shop", Email: "a@b.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(ctx, input)
		assert.True(t, errors.Is(err, domain.ErrValidation), "input %+v", input)
	}
}

func TestCreditSettlement(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	b, err := svc.Register(ctx, RegisterInput{Name: "Tuck Shop", Email: "tuck@example.com", Password: "password"})
	require.NoError(t, err)

	balance, err := repo.CreditSettlement(ctx, b.ID, decimal.NewFromFloat(75.25))
	require.NoError(t, err)
	assert.Equal(t, "75.25", balance.String())

	balance, err = svc.SettlementBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "75.25", balance.String())

	_, err = repo.CreditSettlement(ctx, "merchant_ffffffff", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
