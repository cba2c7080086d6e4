// Package ledger implements the four money-movement operations over the
// wallet store, transaction log, fee policy and business directory. Every
// operation validates fully, then mutates balances and appends the log row
// inside one store transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/notification"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/policy"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/settlement"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/store"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/transaction"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

// createAttempts bounds USSD code regeneration on collision.
const createAttempts = 5

// Limits carries the default caps applied to newly created wallets.
type Limits struct {
	Daily   decimal.Decimal
	Monthly decimal.Decimal
}

// DefaultLimits returns the standard caps: P5,000 per day, P50,000 per month.
func DefaultLimits() Limits {
	return Limits{
		Daily:   decimal.NewFromInt(5000),
		Monthly: decimal.NewFromInt(50000),
	}
}

// Engine orchestrates wallet creation and the three payment operations.
type Engine struct {
	store    store.Store
	policy   policy.Policy
	limits   Limits
	gateway  settlement.Gateway
	notifier notification.Notifier
}

// NewEngine builds a ledger engine. A nil gateway falls back to the static
// always-approve connector; a nil notifier disables notifications.
func NewEngine(st store.Store, pol policy.Policy, limits Limits, gateway settlement.Gateway, notifier notification.Notifier) *Engine {
	if gateway == nil {
		gateway = settlement.StaticGateway{}
	}
	return &Engine{store: st, policy: pol, limits: limits, gateway: gateway, notifier: notifier}
}

// CreateWalletInput captures a business's request to open a wallet for a
// customer.
type CreateWalletInput struct {
	BusinessID     string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	InitialBalance decimal.Decimal
}

// CreateWalletResult returns the opened wallet plus the opening-balance
// transaction id when an initial balance was funded.
type CreateWalletResult struct {
	Wallet        wallet.Wallet
	TransactionID string
}

// CreateWallet opens a wallet under the acting business. A positive initial
// balance is recorded as a completed top-up so the balance stays
// reconstructible from the transaction log alone.
func (e *Engine) CreateWallet(ctx context.Context, input CreateWalletInput) (CreateWalletResult, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	if name == "" || phone == "" {
		return CreateWalletResult{}, fmt.Errorf("%w: customer name and phone are required", domain.ErrValidation)
	}
	if input.InitialBalance.IsNegative() {
		return CreateWalletResult{}, fmt.Errorf("%w: initial balance cannot be negative", domain.ErrValidation)
	}
	if _, err := e.store.Businesses().GetByID(ctx, input.BusinessID); err != nil {
		return CreateWalletResult{}, err
	}

	var result CreateWalletResult
	err := e.store.RunInTx(ctx, func(s store.Store) error {
		now := time.Now().UTC()
		w := wallet.Wallet{
			ID:            wallet.NewID(),
			BusinessID:    input.BusinessID,
			CustomerName:  name,
			CustomerPhone: phone,
			CustomerEmail: strings.TrimSpace(input.CustomerEmail),
			PIN:           wallet.NewPIN(),
			Balance:       input.InitialBalance,
			DailyLimit:    e.limits.Daily,
			MonthlyLimit:  e.limits.Monthly,
			Status:        domain.WalletActive,
			CreatedAt:     now,
			LastActivity:  now,
		}

		// The dial code is drawn from a small space; regenerate on
		// collision rather than failing the customer. Each attempt runs in
		// its own nested transaction, so on PostgreSQL a unique violation
		// aborts only that savepoint and the retry can still insert.
		var err error
		for attempt := 0; attempt < createAttempts; attempt++ {
			w.USSDCode = wallet.NewUSSDCode()
			err = s.RunInTx(ctx, func(s store.Store) error {
				return s.Wallets().Create(ctx, w)
			})
			if err == nil || !errors.Is(err, wallet.ErrUSSDCollision) {
				break
			}
		}
		if err != nil {
			return err
		}
		result.Wallet = w

		if input.InitialBalance.IsPositive() {
			tx := transaction.Transaction{
				ID:          transaction.NewID(),
				Reference:   transaction.NewReference(),
				WalletID:    w.ID,
				ToWallet:    w.ID,
				Amount:      input.InitialBalance,
				Fee:         decimal.Zero,
				Channel:     domain.ChannelMerchantTopup,
				Description: "Opening balance",
				Status:      domain.TransactionCompleted,
				CreatedAt:   now,
				CompletedAt: &now,
			}
			if err := s.Transactions().Record(ctx, tx); err != nil {
				return err
			}
			result.TransactionID = tx.ID
		}
		return nil
	})
	if err != nil {
		return CreateWalletResult{}, err
	}

	e.notify(ctx, notification.Message{
		Kind:        notification.KindWalletCreated,
		Destination: result.Wallet.CustomerPhone,
		Body: fmt.Sprintf("Your Phantom Wallet is ready! Dial %s to check your balance. PIN: %s",
			result.Wallet.USSDCode, result.Wallet.PIN),
	})
	return result, nil
}

// AcceptPaymentInput captures an inbound payment from an external channel.
type AcceptPaymentInput struct {
	WalletID          string
	Amount            decimal.Decimal
	Channel           domain.Channel
	Description       string
	ExternalReference string
}

// PaymentResult is the outcome of a completed money movement.
type PaymentResult struct {
	TransactionID string
	Reference     string
	NewBalance    decimal.Decimal
	Fee           decimal.Decimal
	FeeSaved      decimal.Decimal
	CompletedAt   time.Time
}

// AcceptPayment credits a wallet with an inbound payment. Inbound funds carry
// no fee regardless of channel.
func (e *Engine) AcceptPayment(ctx context.Context, input AcceptPaymentInput) (PaymentResult, error) {
	if err := e.policy.ValidateAmount(input.Amount); err != nil {
		return PaymentResult{}, err
	}

	var (
		result PaymentResult
		w      wallet.Wallet
	)
	err := e.store.RunInTx(ctx, func(s store.Store) error {
		var err error
		w, err = s.Wallets().GetForUpdate(ctx, input.WalletID)
		if err != nil {
			return err
		}
		if w.Status != domain.WalletActive {
			return fmt.Errorf("%w: wallet %s is %s", domain.ErrInactiveWallet, w.ID, w.Status)
		}

		balance, err := s.Wallets().AdjustBalance(ctx, w.ID, input.Amount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		tx := transaction.Transaction{
			ID:                transaction.NewID(),
			Reference:         transaction.NewReference(),
			WalletID:          w.ID,
			ToWallet:          w.ID,
			Amount:            input.Amount,
			Fee:               decimal.Zero,
			Channel:           input.Channel,
			Description:       input.Description,
			ExternalReference: input.ExternalReference,
			Status:            domain.TransactionCompleted,
			CreatedAt:         now,
			CompletedAt:       &now,
		}
		if err := s.Transactions().Record(ctx, tx); err != nil {
			return err
		}
		result = PaymentResult{
			TransactionID: tx.ID,
			Reference:     tx.Reference,
			NewBalance:    balance,
			Fee:           decimal.Zero,
			CompletedAt:   now,
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	e.notify(ctx, notification.Message{
		Kind:        notification.KindPaymentReceived,
		Destination: w.CustomerPhone,
		Body: fmt.Sprintf("Payment received: BWP %s via %s. New balance: BWP %s",
			input.Amount.StringFixed(2), input.Channel, result.NewBalance.StringFixed(2)),
	})
	return result, nil
}

// SendPaymentInput captures an outbound payment from a wallet.
type SendPaymentInput struct {
	FromWallet  string
	Amount      decimal.Decimal
	Channel     domain.Channel
	Recipient   string
	Description string
}

// recipientKind tags how the recipient of a phantom transfer was resolved.
type recipientKind int

const (
	recipientWallet recipientKind = iota
	recipientMerchant
)

type resolvedRecipient struct {
	kind     recipientKind
	wallet   wallet.Wallet
	business business.Business
}

// SendPayment debits a wallet by amount plus the channel fee. Over the
// phantom_wallet rail the recipient must resolve to another wallet or a
// merchant inside the system; over external rails the payout is authorized
// with the settlement gateway and the money leaves the ledger.
func (e *Engine) SendPayment(ctx context.Context, input SendPaymentInput) (PaymentResult, error) {
	if err := e.policy.ValidateAmount(input.Amount); err != nil {
		return PaymentResult{}, err
	}
	if input.Channel == domain.ChannelMerchantTopup {
		return PaymentResult{}, fmt.Errorf("%w: channel %s is not a send rail", domain.ErrValidation, input.Channel)
	}
	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		return PaymentResult{}, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}

	fee := policy.FeeFor(input.Channel)
	totalDebit := input.Amount.Add(fee)

	// External rails are authorized before the wallet is touched; a gateway
	// decline leaves the ledger unchanged.
	var externalRef string
	if !input.Channel.Internal() {
		decision, err := e.gateway.AuthorizePayout(ctx, settlement.PayoutAuthorization{
			Channel:   input.Channel,
			Recipient: recipient,
			Amount:    input.Amount,
		})
		if err != nil {
			return PaymentResult{}, fmt.Errorf("settlement gateway: %w", err)
		}
		externalRef = decision.Reference
	}

	var (
		result PaymentResult
		sender wallet.Wallet
		dest   *resolvedRecipient
	)
	err := e.store.RunInTx(ctx, func(s store.Store) error {
		var err error
		sender, err = s.Wallets().GetForUpdate(ctx, input.FromWallet)
		if err != nil {
			return err
		}
		if sender.Status != domain.WalletActive {
			return fmt.Errorf("%w: wallet %s is %s", domain.ErrInactiveWallet, sender.ID, sender.Status)
		}
		if sender.Balance.LessThan(totalDebit) {
			return fmt.Errorf("%w: available BWP %s, required BWP %s",
				domain.ErrInsufficientFunds, sender.Balance.StringFixed(2), totalDebit.StringFixed(2))
		}
		if err := e.checkRollingLimits(ctx, s, sender, input.Amount); err != nil {
			return err
		}

		if input.Channel.Internal() {
			dest, err = e.resolveRecipient(ctx, s, sender, recipient)
			if err != nil {
				return err
			}
		}

		balance, err := s.Wallets().AdjustBalance(ctx, sender.ID, totalDebit.Neg())
		if err != nil {
			return err
		}

		toWallet := ""
		if dest != nil {
			switch dest.kind {
			case recipientWallet:
				if _, err := s.Wallets().AdjustBalance(ctx, dest.wallet.ID, input.Amount); err != nil {
					return err
				}
				toWallet = dest.wallet.ID
			case recipientMerchant:
				if _, err := s.Businesses().CreditSettlement(ctx, dest.business.ID, input.Amount); err != nil {
					return err
				}
				toWallet = dest.business.ID
			}
		}

		now := time.Now().UTC()
		tx := transaction.Transaction{
			ID:                transaction.NewID(),
			Reference:         transaction.NewReference(),
			WalletID:          sender.ID,
			FromWallet:        sender.ID,
			ToWallet:          toWallet,
			Amount:            input.Amount,
			Fee:               fee,
			Channel:           input.Channel,
			Description:       input.Description,
			ExternalReference: externalRef,
			Status:            domain.TransactionCompleted,
			CreatedAt:         now,
			CompletedAt:       &now,
		}
		if err := s.Transactions().Record(ctx, tx); err != nil {
			return err
		}
		result = PaymentResult{
			TransactionID: tx.ID,
			Reference:     tx.Reference,
			NewBalance:    balance,
			Fee:           fee,
			FeeSaved:      policy.FeeSaved(input.Channel),
			CompletedAt:   now,
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	e.notify(ctx, notification.Message{
		Kind:        notification.KindPaymentSent,
		Destination: sender.CustomerPhone,
		Body: fmt.Sprintf("Payment sent: BWP %s via %s (fee BWP %s). New balance: BWP %s",
			input.Amount.StringFixed(2), input.Channel, result.Fee.StringFixed(2), result.NewBalance.StringFixed(2)),
	})
	if dest != nil && dest.kind == recipientWallet {
		e.notify(ctx, notification.Message{
			Kind:        notification.KindPaymentReceived,
			Destination: dest.wallet.CustomerPhone,
			Body: fmt.Sprintf("Payment received: BWP %s from %s",
				input.Amount.StringFixed(2), sender.CustomerName),
		})
	}
	return result, nil
}

// resolveRecipient maps a phantom-rail recipient handle onto a wallet or a
// merchant. Unresolvable handles are a hard miss, never a silent external
// payout.
func (e *Engine) resolveRecipient(ctx context.Context, s store.Store, sender wallet.Wallet, recipient string) (*resolvedRecipient, error) {
	if recipient == sender.ID {
		return nil, fmt.Errorf("%w: cannot send to the same wallet", domain.ErrValidation)
	}

	switch {
	case strings.HasPrefix(recipient, "merchant_"):
		b, err := s.Businesses().GetByID(ctx, recipient)
		if err != nil {
			return nil, err
		}
		return &resolvedRecipient{kind: recipientMerchant, business: b}, nil
	case strings.HasPrefix(recipient, "pw_bw_"):
		w, err := s.Wallets().GetByID(ctx, recipient)
		if err != nil {
			return nil, err
		}
		if w.Status != domain.WalletActive {
			return nil, fmt.Errorf("%w: wallet %s is %s", domain.ErrInactiveWallet, w.ID, w.Status)
		}
		return &resolvedRecipient{kind: recipientWallet, wallet: w}, nil
	case strings.HasPrefix(recipient, "*"):
		w, err := s.Wallets().GetByUSSDCode(ctx, recipient)
		if err != nil {
			return nil, err
		}
		if w.ID == sender.ID {
			return nil, fmt.Errorf("%w: cannot send to the same wallet", domain.ErrValidation)
		}
		return &resolvedRecipient{kind: recipientWallet, wallet: w}, nil
	default:
		w, err := s.Wallets().GetByPhone(ctx, recipient)
		if err != nil {
			return nil, fmt.Errorf("%w: no wallet or merchant for recipient %s", domain.ErrNotFound, recipient)
		}
		if w.ID == sender.ID {
			return nil, fmt.Errorf("%w: cannot send to the same wallet", domain.ErrValidation)
		}
		return &resolvedRecipient{kind: recipientWallet, wallet: w}, nil
	}
}

func (e *Engine) checkRollingLimits(ctx context.Context, s store.Store, w wallet.Wallet, amount decimal.Decimal) error {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	dailyTotal, err := s.Transactions().SumCompleted(ctx, w.ID, dayStart)
	if err != nil {
		return err
	}
	monthlyTotal, err := s.Transactions().SumCompleted(ctx, w.ID, monthStart)
	if err != nil {
		return err
	}
	return e.policy.CheckRollingLimits(amount, dailyTotal, w.DailyLimit, monthlyTotal, w.MonthlyLimit)
}

// TopupInput captures a merchant crediting one of its own wallets.
type TopupInput struct {
	WalletID         string
	Amount           decimal.Decimal
	Description      string
	ActingBusinessID string
}

// MerchantTopup credits a wallet with merchant money. Only the owning
// business may top up; the credit is free of fees.
func (e *Engine) MerchantTopup(ctx context.Context, input TopupInput) (PaymentResult, error) {
	if err := e.policy.ValidateAmount(input.Amount); err != nil {
		return PaymentResult{}, err
	}

	var (
		result PaymentResult
		w      wallet.Wallet
	)
	err := e.store.RunInTx(ctx, func(s store.Store) error {
		var err error
		w, err = s.Wallets().GetForUpdate(ctx, input.WalletID)
		if err != nil {
			return err
		}
		if w.BusinessID != input.ActingBusinessID {
			return fmt.Errorf("%w: wallet belongs to another business", domain.ErrUnauthorized)
		}
		if w.Status != domain.WalletActive {
			return fmt.Errorf("%w: wallet %s is %s", domain.ErrInactiveWallet, w.ID, w.Status)
		}

		balance, err := s.Wallets().AdjustBalance(ctx, w.ID, input.Amount)
		if err != nil {
			return err
		}

		description := input.Description
		if description == "" {
			description = "Merchant top-up"
		}
		now := time.Now().UTC()
		tx := transaction.Transaction{
			ID:          transaction.NewID(),
			Reference:   transaction.NewReference(),
			WalletID:    w.ID,
			ToWallet:    w.ID,
			Amount:      input.Amount,
			Fee:         decimal.Zero,
			Channel:     domain.ChannelMerchantTopup,
			Description: description,
			Status:      domain.TransactionCompleted,
			CreatedAt:   now,
			CompletedAt: &now,
		}
		if err := s.Transactions().Record(ctx, tx); err != nil {
			return err
		}
		result = PaymentResult{
			TransactionID: tx.ID,
			Reference:     tx.Reference,
			NewBalance:    balance,
			Fee:           decimal.Zero,
			CompletedAt:   now,
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	e.notify(ctx, notification.Message{
		Kind:        notification.KindWalletTopup,
		Destination: w.CustomerPhone,
		Body: fmt.Sprintf("Wallet topped up: BWP %s. New balance: BWP %s",
			input.Amount.StringFixed(2), result.NewBalance.StringFixed(2)),
	})
	return result, nil
}

// Balance returns the wallet including its current balance and status.
func (e *Engine) Balance(ctx context.Context, walletID string) (wallet.Wallet, error) {
	return e.store.Wallets().GetByID(ctx, walletID)
}

// History returns the wallet's movements, newest first, tagged with the
// direction relative to the wallet.
func (e *Engine) History(ctx context.Context, walletID string, limit, offset int) ([]transaction.Entry, error) {
	if _, err := e.store.Wallets().GetByID(ctx, walletID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return e.store.Transactions().History(ctx, walletID, limit, offset)
}

// ListWallets returns every wallet owned by a business.
func (e *Engine) ListWallets(ctx context.Context, businessID string) ([]wallet.Wallet, error) {
	return e.store.Wallets().ListByBusiness(ctx, businessID)
}

// Activate returns a deactivated wallet to service. Idempotent for an already
// active wallet; terminal states are refused.
func (e *Engine) Activate(ctx context.Context, walletID, actingBusinessID string) error {
	return e.setStatus(ctx, walletID, actingBusinessID, domain.WalletActive)
}

// Deactivate suspends a wallet without touching its balance or history.
func (e *Engine) Deactivate(ctx context.Context, walletID, actingBusinessID string) error {
	return e.setStatus(ctx, walletID, actingBusinessID, domain.WalletInactive)
}

func (e *Engine) setStatus(ctx context.Context, walletID, actingBusinessID string, status domain.WalletStatus) error {
	return e.store.RunInTx(ctx, func(s store.Store) error {
		w, err := s.Wallets().GetForUpdate(ctx, walletID)
		if err != nil {
			return err
		}
		if w.BusinessID != actingBusinessID {
			return fmt.Errorf("%w: wallet belongs to another business", domain.ErrUnauthorized)
		}
		if w.Status.Terminal() {
			return fmt.Errorf("%w: wallet is already %s", domain.ErrValidation, w.Status)
		}
		if w.Status == status {
			return nil
		}
		return s.Wallets().SetStatus(ctx, w.ID, status)
	})
}

// notify delivers best-effort; a failed send never unwinds a committed
// balance change.
func (e *Engine) notify(ctx context.Context, msg notification.Message) {
	if e.notifier == nil {
		return
	}
	_ = e.notifier.Send(ctx, msg)
}
