package domain

import "errors"

// Domain error kinds. Callers wrap these with fmt.Errorf("%w: ...") so the
// kind stays machine-checkable through errors.Is while the message carries the
// human-readable reason. None of them implies a partial mutation: every ledger
// operation validates fully before touching a balance.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate marks a uniqueness conflict, e.g. a second wallet for the
	// same phone under one business.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound marks a wallet, business or USSD-code lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks an action by a business that does not own the
	// target wallet.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientFunds marks a debit whose amount plus fee exceeds the
	// available balance.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrLimitExceeded marks a breach of the wallet's daily or monthly cap.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInactiveWallet marks an operation against a wallet that is not
	// active.
	ErrInactiveWallet = errors.New("wallet is not active")
)
