package domain

import "fmt"

// Channel is the payment rail a transaction moved over.
type Channel string

const (
	ChannelPhantomWallet Channel = "phantom_wallet"
	ChannelOrangeMoney   Channel = "orange_money"
	ChannelMyZaka        Channel = "myzaka"
	ChannelUSSD          Channel = "ussd"
	ChannelQRCode        Channel = "qr_code"
	ChannelBankTransfer  Channel = "bank_transfer"
	// ChannelMerchantTopup is an internal tag for merchant-initiated credits.
	// It is never accepted from callers selecting a rail.
	ChannelMerchantTopup Channel = "merchant_topup"
)

// ParseChannel validates a caller-supplied channel name. The "eft" alias maps
// to bank_transfer; merchant_topup is rejected because it is internal-only.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelPhantomWallet, ChannelOrangeMoney, ChannelMyZaka, ChannelUSSD, ChannelQRCode, ChannelBankTransfer:
		return Channel(s), nil
	}
	if s == "eft" {
		return ChannelBankTransfer, nil
	}
	return "", fmt.Errorf("%w: unknown channel %q", ErrValidation, s)
}

// Internal reports whether the channel settles entirely inside the phantom
// ledger, with no external payout leg.
func (c Channel) Internal() bool {
	return c == ChannelPhantomWallet || c == ChannelMerchantTopup
}
