// Package seed loads a small demo data set through the public services so
// local environments have merchants, wallets and history to explore.
package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/ledger"
)

type demoCustomer struct {
	name    string
	phone   string
	balance string
}

// Demo registers two demo merchants and a handful of funded wallets, then
// runs a few payments so histories are non-empty. It goes through the engine
// rather than the repositories so every seeded balance has its transaction
// trail. Seeding an already seeded store is a no-op.
func Demo(ctx context.Context, engine *ledger.Engine, businesses *business.Service, logger *slog.Logger) error {
	shop, err := businesses.Register(ctx, business.RegisterInput{
		Name:     "Kgale Hill General Dealer",
		Email:    "demo@kgalehill.co.bw",
		Password: "demo-password",
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			logger.Info("demo data already present, skipping seed")
			return nil
		}
		return err
	}
	spaza, err := businesses.Register(ctx, business.RegisterInput{
		Name:     "Mma Dineo's Spaza",
		Email:    "demo@mmadineo.co.bw",
		Password: "demo-password",
	})
	if err != nil {
		return err
	}

	customers := []demoCustomer{
		{"Thabo Mogami", "+26771234001", "450"},
		{"Neo Kwelagobe", "+26771234002", "1200"},
		{"Kabo Sechele", "+26771234003", "0"},
		{"Boitumelo Tau", "+26771234004", "85.50"},
	}

	wallets := make([]ledger.CreateWalletResult, 0, len(customers))
	for _, c := range customers {
		res, err := engine.CreateWallet(ctx, ledger.CreateWalletInput{
			BusinessID:     shop.ID,
			CustomerName:   c.name,
			CustomerPhone:  c.phone,
			InitialBalance: decimal.RequireFromString(c.balance),
		})
		if err != nil {
			return err
		}
		wallets = append(wallets, res)
	}

	// A little history: an inbound mobile-money payment, a peer transfer and
	// a merchant-bound purchase.
	if _, err := engine.AcceptPayment(ctx, ledger.AcceptPaymentInput{
		WalletID:          wallets[2].Wallet.ID,
		Amount:            decimal.NewFromInt(200),
		Channel:           domain.ChannelOrangeMoney,
		Description:       "Mobile money deposit",
		ExternalReference: "OM-DEMO-0001",
	}); err != nil {
		return err
	}
	if _, err := engine.SendPayment(ctx, ledger.SendPaymentInput{
		FromWallet:  wallets[1].Wallet.ID,
		Amount:      decimal.NewFromInt(150),
		Channel:     domain.ChannelPhantomWallet,
		Recipient:   wallets[0].Wallet.ID,
		Description: "Stokvel contribution",
	}); err != nil {
		return err
	}
	if _, err := engine.SendPayment(ctx, ledger.SendPaymentInput{
		FromWallet:  wallets[0].Wallet.ID,
		Amount:      decimal.NewFromInt(60),
		Channel:     domain.ChannelPhantomWallet,
		Recipient:   spaza.ID,
		Description: "Groceries",
	}); err != nil {
		return err
	}

	logger.Info("demo data seeded",
		"businesses", 2,
		"wallets", len(wallets),
		"merchant_email", shop.Email,
	)
	return nil
}
