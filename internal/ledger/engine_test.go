package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/policy"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/store"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

type fixture struct {
	engine   *Engine
	store    store.Store
	business business.Business
	other    business.Business
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()

	b := business.Business{
		ID:          business.NewID(),
		Name:        "Kgalagadi Traders",
		Email:       "info@kgalagadi.co.bw",
		BankAccount: business.NewBankAccount(),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.Businesses().Create(context.Background(), b))

	other := business.Business{
		ID:          business.NewID(),
		Name:        "Tswana Fresh Produce",
		Email:       "orders@tswanafresh.co.bw",
		BankAccount: business.NewBankAccount(),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.Businesses().Create(context.Background(), other))

	engine := NewEngine(st, policy.Default(), DefaultLimits(), nil, nil)
	return &fixture{engine: engine, store: st, business: b, other: other}
}

func (f *fixture) createWallet(t *testing.T, phone string, initial decimal.Decimal) CreateWalletResult {
	t.Helper()
	res, err := f.engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:     f.business.ID,
		CustomerName:   "Thabo Mogami",
		CustomerPhone:  phone,
		InitialBalance: initial,
	})
	require.NoError(t, err)
	return res
}

func bwp(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateWalletLookupsAgree(t *testing.T) {
	f := newFixture(t)
	created := f.createWallet(t, "+26771000001", decimal.Zero)
	w := created.Wallet

	ctx := context.Background()
	byID, err := f.store.Wallets().GetByID(ctx, w.ID)
	require.NoError(t, err)
	byPhone, err := f.store.Wallets().GetByPhone(ctx, w.CustomerPhone)
	require.NoError(t, err)
	byUSSD, err := f.store.Wallets().GetByUSSDCode(ctx, w.USSDCode)
	require.NoError(t, err)

	assert.Equal(t, byID.ID, byPhone.ID)
	assert.Equal(t, byID.ID, byUSSD.ID)
	assert.True(t, byID.Balance.IsZero())
	assert.Empty(t, created.TransactionID)
}

func TestCreateWalletOpeningBalanceIsLogged(t *testing.T) {
	f := newFixture(t)
	created := f.createWallet(t, "+26771000002", bwp("100"))
	require.NotEmpty(t, created.TransactionID)

	tx, err := f.store.Transactions().GetByID(context.Background(), created.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, created.Wallet.ID, tx.ToWallet)
	assert.Equal(t, domain.ChannelMerchantTopup, tx.Channel)
	assert.True(t, tx.Amount.Equal(bwp("100")))
	assert.True(t, tx.Fee.IsZero())
	assert.Equal(t, domain.TransactionCompleted, tx.Status)
}

func TestCreateWalletDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	f.createWallet(t, "+26771000003", decimal.Zero)

	_, err := f.engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:    f.business.ID,
		CustomerName:  "Thabo Mogami",
		CustomerPhone: "+26771000003",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// The same phone under a different business opens a separate wallet.
	_, err = f.engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:    f.other.ID,
		CustomerName:  "Thabo Mogami",
		CustomerPhone: "+26771000003",
	})
	assert.NoError(t, err)
}

func TestCreateWalletUnknownBusiness(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:    "merchant_ffffffff",
		CustomerName:  "Thabo Mogami",
		CustomerPhone: "+26771000004",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptPaymentCreditsFullAmount(t *testing.T) {
	f := newFixture(t)
	w := f.createWallet(t, "+26771000010", decimal.Zero).Wallet

	res, err := f.engine.AcceptPayment(context.Background(), AcceptPaymentInput{
		WalletID:          w.ID,
		Amount:            bwp("500"),
		Channel:           domain.ChannelOrangeMoney,
		Description:       "Salary",
		ExternalReference: "OM-20260830-001",
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(bwp("500")), "got %s", res.NewBalance)
	assert.True(t, res.Fee.IsZero())

	tx, err := f.store.Transactions().GetByID(context.Background(), res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, tx.ToWallet)
	assert.Empty(t, tx.FromWallet)
	assert.True(t, tx.Fee.IsZero())
	assert.Equal(t, "OM-20260830-001", tx.ExternalReference)
}

func TestSendPaymentToPeerWallet(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000011", bwp("500")).Wallet
	b := f.createWallet(t, "+26771000012", decimal.Zero).Wallet

	res, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet:  a.ID,
		Amount:      bwp("150"),
		Channel:     domain.ChannelPhantomWallet,
		Recipient:   b.ID,
		Description: "Rent share",
	})
	require.NoError(t, err)
	assert.True(t, res.Fee.IsZero())
	assert.True(t, res.NewBalance.Equal(bwp("350")), "got %s", res.NewBalance)

	ctx := context.Background()
	bAfter, err := f.store.Wallets().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, bAfter.Balance.Equal(bwp("150")))

	tx, err := f.store.Transactions().GetByID(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, tx.FromWallet)
	assert.Equal(t, b.ID, tx.ToWallet)
}

func TestSendPaymentByPhoneAndUSSD(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000013", bwp("300")).Wallet
	b := f.createWallet(t, "+26771000014", decimal.Zero).Wallet

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("50"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  b.CustomerPhone,
	})
	require.NoError(t, err)

	_, err = f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("50"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  b.USSDCode,
	})
	require.NoError(t, err)

	bAfter, err := f.store.Wallets().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, bAfter.Balance.Equal(bwp("100")))
}

func TestSendPaymentToMerchantCreditsSettlement(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000015", bwp("200")).Wallet

	res, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet:  a.ID,
		Amount:      bwp("80"),
		Channel:     domain.ChannelPhantomWallet,
		Recipient:   f.other.ID,
		Description: "Groceries",
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(bwp("120")))

	ctx := context.Background()
	merchant, err := f.store.Businesses().GetByID(ctx, f.other.ID)
	require.NoError(t, err)
	assert.True(t, merchant.SettlementBalance.Equal(bwp("80")))

	tx, err := f.store.Transactions().GetByID(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, tx.ToWallet)
}

func TestSendPaymentExternalLeavesLedger(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000016", bwp("150")).Wallet

	res, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet:  a.ID,
		Amount:      bwp("50"),
		Channel:     domain.ChannelOrangeMoney,
		Recipient:   "+26772999999",
		Description: "Send to cousin",
	})
	require.NoError(t, err)
	assert.True(t, res.Fee.Equal(bwp("2.5")))
	assert.True(t, res.NewBalance.Equal(bwp("97.5")), "got %s", res.NewBalance)
	assert.True(t, res.FeeSaved.Equal(bwp("89.5")))
	assert.NotEmpty(t, res.Reference)

	tx, err := f.store.Transactions().GetByID(context.Background(), res.TransactionID)
	require.NoError(t, err)
	assert.Empty(t, tx.ToWallet)
	assert.NotEmpty(t, tx.ExternalReference)
}

func TestSendPaymentUnresolvablePhantomRecipient(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000017", bwp("100")).Wallet

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("10"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  "+26770000000",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	aAfter, err := f.store.Wallets().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, aAfter.Balance.Equal(bwp("100")))
}

func TestSendPaymentInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000018", bwp("97.50")).Wallet
	b := f.createWallet(t, "+26771000019", decimal.Zero).Wallet

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("200"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  b.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	ctx := context.Background()
	aAfter, err := f.store.Wallets().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, aAfter.Balance.Equal(bwp("97.50")))
	bAfter, err := f.store.Wallets().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, bAfter.Balance.IsZero())
}

func TestSendPaymentBalanceBoundary(t *testing.T) {
	f := newFixture(t)

	// amount + fee == balance exactly drains the wallet.
	a := f.createWallet(t, "+26771000020", bwp("52.50")).Wallet
	res, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("50"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.IsZero())

	// one thebe short fails with no mutation.
	b := f.createWallet(t, "+26771000021", bwp("52.49")).Wallet
	_, err = f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: b.ID,
		Amount:     bwp("50"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	bAfter, err := f.store.Wallets().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, bAfter.Balance.Equal(bwp("52.49")))
}

func TestSendPaymentDailyLimit(t *testing.T) {
	f := newFixture(t)
	st := store.NewMemoryStore()
	require.NoError(t, st.Businesses().Create(context.Background(), f.business))
	engine := NewEngine(st, policy.Default(), Limits{
		Daily:   bwp("100"),
		Monthly: bwp("50000"),
	}, nil, nil)

	created, err := engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:     f.business.ID,
		CustomerName:   "Neo Kwelagobe",
		CustomerPhone:  "+26771000022",
		InitialBalance: bwp("500"),
	})
	require.NoError(t, err)

	_, err = engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: created.Wallet.ID,
		Amount:     bwp("60"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	require.NoError(t, err)

	// 60 already spent today; another 60 would breach the 100 cap.
	_, err = engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: created.Wallet.ID,
		Amount:     bwp("60"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	assert.Contains(t, err.Error(), "daily limit exceeded")
	assert.Contains(t, err.Error(), "BWP 100.00")
	assert.Contains(t, err.Error(), "BWP 60.00")

	// Exactly reaching the cap is allowed.
	_, err = engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: created.Wallet.ID,
		Amount:     bwp("40"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	assert.NoError(t, err)
}

func TestSendPaymentInactiveWallet(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000023", bwp("100")).Wallet
	require.NoError(t, f.engine.Deactivate(context.Background(), a.ID, f.business.ID))

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("10"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  "+26770000000",
	})
	assert.ErrorIs(t, err, domain.ErrInactiveWallet)

	_, err = f.engine.AcceptPayment(context.Background(), AcceptPaymentInput{
		WalletID: a.ID,
		Amount:   bwp("10"),
		Channel:  domain.ChannelQRCode,
	})
	assert.ErrorIs(t, err, domain.ErrInactiveWallet)
}

func TestSendPaymentToInactiveRecipient(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000024", bwp("100")).Wallet
	b := f.createWallet(t, "+26771000025", decimal.Zero).Wallet
	require.NoError(t, f.engine.Deactivate(context.Background(), b.ID, f.business.ID))

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("10"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  b.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInactiveWallet)
}

func TestMerchantTopup(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000026", bwp("97.50")).Wallet

	res, err := f.engine.MerchantTopup(context.Background(), TopupInput{
		WalletID:         a.ID,
		Amount:           bwp("300"),
		ActingBusinessID: f.business.ID,
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(bwp("397.50")))
	assert.True(t, res.Fee.IsZero())

	tx, err := f.store.Transactions().GetByID(context.Background(), res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelMerchantTopup, tx.Channel)
}

func TestMerchantTopupUnauthorized(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000027", bwp("50")).Wallet

	_, err := f.engine.MerchantTopup(context.Background(), TopupInput{
		WalletID:         a.ID,
		Amount:           bwp("300"),
		ActingBusinessID: f.other.ID,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	aAfter, err := f.store.Wallets().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, aAfter.Balance.Equal(bwp("50")))
}

func TestHistoryReconstructsBalance(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000028", bwp("100")).Wallet
	b := f.createWallet(t, "+26771000029", decimal.Zero).Wallet

	ctx := context.Background()
	_, err := f.engine.AcceptPayment(ctx, AcceptPaymentInput{
		WalletID: a.ID,
		Amount:   bwp("200"),
		Channel:  domain.ChannelMyZaka,
	})
	require.NoError(t, err)
	_, err = f.engine.SendPayment(ctx, SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("75"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  b.ID,
	})
	require.NoError(t, err)

	entries, err := f.engine.History(ctx, a.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first; signed sum reproduces the balance.
	total := decimal.Zero
	for _, entry := range entries {
		switch entry.Direction {
		case domain.DirectionSent:
			total = total.Sub(entry.Amount).Sub(entry.Fee)
		case domain.DirectionReceived:
			total = total.Add(entry.Amount)
		}
	}
	current, err := f.engine.Balance(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(current.Balance), "history sum %s, balance %s", total, current.Balance)
}

func TestActivateDeactivateLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000030", bwp("40")).Wallet
	ctx := context.Background()

	require.NoError(t, f.engine.Deactivate(ctx, a.ID, f.business.ID))
	w, err := f.engine.Balance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletInactive, w.Status)
	assert.True(t, w.Balance.Equal(bwp("40")), "deactivation must not touch balance")

	// Idempotent.
	require.NoError(t, f.engine.Deactivate(ctx, a.ID, f.business.ID))

	require.NoError(t, f.engine.Activate(ctx, a.ID, f.business.ID))
	w, err = f.engine.Balance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletActive, w.Status)

	assert.ErrorIs(t, f.engine.Deactivate(ctx, a.ID, f.other.ID), domain.ErrUnauthorized)
}

func TestUpgradedWalletRefusesMutations(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000031", bwp("60")).Wallet
	ctx := context.Background()
	require.NoError(t, f.store.Wallets().SetStatus(ctx, a.ID, domain.WalletUpgraded))

	_, err := f.engine.AcceptPayment(ctx, AcceptPaymentInput{
		WalletID: a.ID,
		Amount:   bwp("10"),
		Channel:  domain.ChannelQRCode,
	})
	assert.ErrorIs(t, err, domain.ErrInactiveWallet)

	assert.ErrorIs(t, f.engine.Activate(ctx, a.ID, f.business.ID), domain.ErrValidation)

	// Balance and history survive the upgrade.
	w, err := f.engine.Balance(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(bwp("60")))
}

func TestSendPaymentAmountBounds(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000032", bwp("4000")).Wallet

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("0.50"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("5001"),
		Channel:    domain.ChannelOrangeMoney,
		Recipient:  "+26772000000",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSendPaymentToSelfRejected(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000033", bwp("100")).Wallet

	_, err := f.engine.SendPayment(context.Background(), SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("10"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  a.ID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSendPaymentToOwnUSSDCodeRejected(t *testing.T) {
	f := newFixture(t)
	a := f.createWallet(t, "+26771000034", bwp("100")).Wallet
	ctx := context.Background()

	_, err := f.engine.SendPayment(ctx, SendPaymentInput{
		FromWallet: a.ID,
		Amount:     bwp("10"),
		Channel:    domain.ChannelPhantomWallet,
		Recipient:  a.USSDCode,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	after, err := f.engine.Balance(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(bwp("100")), "got %s", after.Balance)

	// A rejected self-send leaves no row, so the signed history sum still
	// reproduces the balance.
	entries, err := f.engine.History(ctx, a.ID, 50, 0)
	require.NoError(t, err)
	total := decimal.Zero
	for _, entry := range entries {
		switch entry.Direction {
		case domain.DirectionSent:
			total = total.Sub(entry.Amount).Sub(entry.Fee)
		case domain.DirectionReceived:
			total = total.Add(entry.Amount)
		}
	}
	assert.True(t, total.Equal(after.Balance), "history sum %s, balance %s", total, after.Balance)
}

// collidingWallets forces USSD collisions on the first few creates.
type collidingWallets struct {
	wallet.Repository
	remaining int
	attempts  []string
}

func (c *collidingWallets) Create(ctx context.Context, w wallet.Wallet) error {
	c.attempts = append(c.attempts, w.USSDCode)
	if c.remaining > 0 {
		c.remaining--
		return fmt.Errorf("%w (%s)", wallet.ErrUSSDCollision, w.USSDCode)
	}
	return c.Repository.Create(ctx, w)
}

type collidingStore struct {
	store.Store
	wallets *collidingWallets
}

func (s *collidingStore) Wallets() wallet.Repository { return s.wallets }

func (s *collidingStore) RunInTx(ctx context.Context, fn func(store.Store) error) error {
	return s.Store.RunInTx(ctx, func(inner store.Store) error {
		return fn(&collidingStore{Store: inner, wallets: s.wallets})
	})
}

func TestCreateWalletRegeneratesUSSDCodeOnCollision(t *testing.T) {
	base := store.NewMemoryStore()
	b := business.Business{
		ID:          business.NewID(),
		Name:        "Kgalagadi Traders",
		Email:       "info@kgalagadi.co.bw",
		BankAccount: business.NewBankAccount(),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, base.Businesses().Create(context.Background(), b))

	colliding := &collidingWallets{Repository: base.Wallets(), remaining: 2}
	engine := NewEngine(&collidingStore{Store: base, wallets: colliding}, policy.Default(), DefaultLimits(), nil, nil)

	res, err := engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:    b.ID,
		CustomerName:  "Thabo Mogami",
		CustomerPhone: "+26771000035",
	})
	require.NoError(t, err)
	require.Len(t, colliding.attempts, 3)
	assert.Equal(t, colliding.attempts[2], res.Wallet.USSDCode)

	// Every attempt drew a fresh code from the dial space.
	for _, code := range colliding.attempts {
		assert.Regexp(t, `^\*167\*[0-9A-F]{4}#$`, code)
	}
}

func TestCreateWalletGivesUpAfterRepeatedCollisions(t *testing.T) {
	base := store.NewMemoryStore()
	b := business.Business{
		ID:          business.NewID(),
		Name:        "Kgalagadi Traders",
		Email:       "info@kgalagadi.co.bw",
		BankAccount: business.NewBankAccount(),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, base.Businesses().Create(context.Background(), b))

	colliding := &collidingWallets{Repository: base.Wallets(), remaining: 100}
	engine := NewEngine(&collidingStore{Store: base, wallets: colliding}, policy.Default(), DefaultLimits(), nil, nil)

	_, err := engine.CreateWallet(context.Background(), CreateWalletInput{
		BusinessID:    b.ID,
		CustomerName:  "Thabo Mogami",
		CustomerPhone: "+26771000036",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, colliding.attempts, createAttempts)
}
