package domain

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletActive   WalletStatus = "active"
	WalletInactive WalletStatus = "inactive"
	WalletUpgraded WalletStatus = "upgraded"
	WalletClosed   WalletStatus = "closed"
)

// Terminal reports whether the wallet can never return to active. Terminal
// wallets keep their balance and history but accept no further ledger
// mutations.
func (s WalletStatus) Terminal() bool {
	return s == WalletUpgraded || s == WalletClosed
}

// TransactionStatus tracks a logged movement. Processing is synchronous, so a
// recorded transaction is completed immediately or was rejected before any row
// existed; pending is retained for wire compatibility only.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Direction tags a history entry relative to the wallet it was fetched for.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)
