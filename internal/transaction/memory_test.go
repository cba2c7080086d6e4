package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

func record(t *testing.T, repo Repository, tx Transaction) Transaction {
	t.Helper()
	if tx.ID == "" {
		tx.ID = NewID()
	}
	if tx.Reference == "" {
		tx.Reference = NewReference()
	}
	if tx.Status == "" {
		tx.Status = domain.TransactionCompleted
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, repo.Record(context.Background(), tx))
	return tx
}

func TestHistoryNewestFirstWithDirections(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	record(t, repo, Transaction{
		WalletID: "pw_bw_2025_aaaa0001", ToWallet: "pw_bw_2025_aaaa0001",
		Amount: decimal.NewFromInt(500), Fee: decimal.Zero,
		Channel: domain.ChannelOrangeMoney, CreatedAt: base,
	})
	record(t, repo, Transaction{
		WalletID: "pw_bw_2025_aaaa0001", FromWallet: "pw_bw_2025_aaaa0001", ToWallet: "pw_bw_2025_bbbb0002",
		Amount: decimal.NewFromInt(150), Fee: decimal.Zero,
		Channel: domain.ChannelPhantomWallet, CreatedAt: base.Add(time.Second),
	})

	history, err := repo.History(ctx, "pw_bw_2025_aaaa0001", 50, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.DirectionSent, history[0].Direction)
	assert.Equal(t, domain.DirectionReceived, history[1].Direction)

	// The receiving wallet sees the same row, tagged from its side.
	history, err = repo.History(ctx, "pw_bw_2025_bbbb0002", 50, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.DirectionReceived, history[0].Direction)
}

func TestHistoryPagination(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		record(t, repo, Transaction{
			WalletID: "pw_bw_2025_cccc0003", ToWallet: "pw_bw_2025_cccc0003",
			Amount: decimal.NewFromInt(int64(i + 1)), Fee: decimal.Zero,
			Channel: domain.ChannelQRCode, CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	page, err := repo.History(ctx, "pw_bw_2025_cccc0003", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "5", page[0].Amount.String())

	page, err = repo.History(ctx, "pw_bw_2025_cccc0003", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "1", page[0].Amount.String())

	page, err = repo.History(ctx, "pw_bw_2025_cccc0003", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSumCompletedCountsOutboundOnly(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)

	record(t, repo, Transaction{ // inbound, must not count against spend
		WalletID: "w1", ToWallet: "w1",
		Amount: decimal.NewFromInt(900), Channel: domain.ChannelOrangeMoney,
		CreatedAt: dayStart.Add(time.Hour),
	})
	record(t, repo, Transaction{
		WalletID: "w1", FromWallet: "w1",
		Amount: decimal.NewFromInt(200), Channel: domain.ChannelPhantomWallet,
		CreatedAt: dayStart.Add(2 * time.Hour),
	})
	record(t, repo, Transaction{ // before the window
		WalletID: "w1", FromWallet: "w1",
		Amount: decimal.NewFromInt(300), Channel: domain.ChannelPhantomWallet,
		CreatedAt: dayStart.Add(-time.Hour),
	})

	total, err := repo.SumCompleted(ctx, "w1", dayStart)
	require.NoError(t, err)
	assert.Equal(t, "200", total.String())
}

func TestFindByReference(t *testing.T) {
	repo := NewMemoryRepository()
	tx := record(t, repo, Transaction{
		WalletID: "w2", FromWallet: "w2",
		Amount: decimal.NewFromInt(40), Channel: domain.ChannelUSSD,
	})

	found, err := repo.FindByReference(context.Background(), tx.Reference)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, found.ID)

	_, err = repo.FindByReference(context.Background(), "PB-DOESNOTEXIST")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
