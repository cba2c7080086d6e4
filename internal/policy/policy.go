// Package policy holds the fee schedule and transaction limit rules. It is
// pure lookup and validation logic; the ledger engine consults it before any
// balance is touched.
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// Channel fees in BWP. Free phantom and QR rails are the product guarantee;
// the rest undercut the mobile-money operators' withdrawal fees.
var channelFees = map[domain.Channel]decimal.Decimal{
	domain.ChannelPhantomWallet: decimal.Zero,
	domain.ChannelQRCode:        decimal.Zero,
	domain.ChannelUSSD:          decimal.NewFromFloat(1.50),
	domain.ChannelOrangeMoney:   decimal.NewFromFloat(2.50),
	domain.ChannelMyZaka:        decimal.NewFromFloat(3.00),
	domain.ChannelBankTransfer:  decimal.NewFromFloat(5.00),
	domain.ChannelMerchantTopup: decimal.Zero,
}

// defaultExternalFee applies to any channel missing from the table.
var defaultExternalFee = decimal.NewFromFloat(2.50)

// What Orange Money / MyZaka charge for a comparable withdrawal. Used only to
// surface savings to the caller, never in balance arithmetic.
var traditionalFees = map[domain.Channel]decimal.Decimal{
	domain.ChannelOrangeMoney: decimal.NewFromInt(92),
	domain.ChannelMyZaka:      decimal.NewFromInt(99),
}

// FeeFor returns the fee charged for sending over the given channel.
func FeeFor(ch domain.Channel) decimal.Decimal {
	if fee, ok := channelFees[ch]; ok {
		return fee
	}
	return defaultExternalFee
}

// TraditionalFeeFor returns the comparable real-world operator fee, zero when
// there is no published equivalent.
func TraditionalFeeFor(ch domain.Channel) decimal.Decimal {
	if fee, ok := traditionalFees[ch]; ok {
		return fee
	}
	return decimal.Zero
}

// FeeSaved is the informational saving versus the traditional operator fee,
// floored at zero.
func FeeSaved(ch domain.Channel) decimal.Decimal {
	saved := TraditionalFeeFor(ch).Sub(FeeFor(ch))
	if saved.IsNegative() {
		return decimal.Zero
	}
	return saved
}

// Policy carries the configured per-transaction bounds.
type Policy struct {
	MinTransaction decimal.Decimal
	MaxTransaction decimal.Decimal
}

// Default returns the product's standard bounds: P1 minimum, P5,000 single
// transaction maximum.
func Default() Policy {
	return Policy{
		MinTransaction: decimal.NewFromInt(1),
		MaxTransaction: decimal.NewFromInt(5000),
	}
}

// ValidateAmount rejects amounts outside the per-transaction bounds.
func (p Policy) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(p.MinTransaction) {
		return fmt.Errorf("%w: minimum transaction amount is BWP %s", domain.ErrValidation, p.MinTransaction.StringFixed(2))
	}
	if amount.GreaterThan(p.MaxTransaction) {
		return fmt.Errorf("%w: maximum transaction amount is BWP %s", domain.ErrValidation, p.MaxTransaction.StringFixed(2))
	}
	return nil
}

// CheckRollingLimits rejects a spend that would push the calendar-day or
// calendar-month completed total past the wallet's caps. The totals are
// computed by the transaction log; the message always states the cap and the
// amount already used so callers can display it.
func (p Policy) CheckRollingLimits(amount, dailyTotal, dailyLimit, monthlyTotal, monthlyLimit decimal.Decimal) error {
	if dailyTotal.Add(amount).GreaterThan(dailyLimit) {
		return fmt.Errorf("%w: daily limit exceeded. Limit: BWP %s, Used: BWP %s",
			domain.ErrLimitExceeded, dailyLimit.StringFixed(2), dailyTotal.StringFixed(2))
	}
	if monthlyTotal.Add(amount).GreaterThan(monthlyLimit) {
		return fmt.Errorf("%w: monthly limit exceeded. Limit: BWP %s, Used: BWP %s",
			domain.ErrLimitExceeded, monthlyLimit.StringFixed(2), monthlyTotal.StringFixed(2))
	}
	return nil
}
