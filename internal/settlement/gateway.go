package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// Gateway represents a connector to an external mobile money or bank rail.
// Outbound payments through a non-internal channel are authorized here before
// the wallet is debited.
type Gateway interface {
	AuthorizePayout(ctx context.Context, input PayoutAuthorization) (AuthorizationDecision, error)
}

// PayoutAuthorization encapsulates details needed to push money to an
// external recipient.
type PayoutAuthorization struct {
	Channel   domain.Channel
	Recipient string
	Amount    decimal.Decimal
}

// AuthorizationDecision captures the simulated response from the gateway.
type AuthorizationDecision struct {
	Reference string
	Status    string
}

// StaticGateway simulates a successful rail integration.
type StaticGateway struct{}

// AuthorizePayout approves the payout with a synthetic reference.
func (StaticGateway) AuthorizePayout(_ context.Context, _ PayoutAuthorization) (AuthorizationDecision, error) {
	return AuthorizationDecision{Reference: uuid.NewString(), Status: "approved"}, nil
}
