package notification

import (
	"context"
	"log/slog"
)

// Notification kinds emitted by the ledger and the upgrade workflow.
const (
	KindWalletCreated    = "wallet_created"
	KindPaymentSent      = "payment_sent"
	KindPaymentReceived  = "payment_received"
	KindWalletTopup      = "wallet_topup"
	KindUpgradeSuggested = "upgrade_suggested"
)

// Message describes a notification payload. Destination is the customer's
// phone number, or a business id for merchant-facing events.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems. Delivery is
// best-effort and never sits on the critical path of a balance change.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// logger, standing in for an SMS gateway.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("sms notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
