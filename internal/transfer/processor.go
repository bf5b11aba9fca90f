package transfer

import (
	"context"

	"github.com/google/uuid"
)

// Payment captures what the processor needs to move money.
type Payment struct {
	Recipient string
	Amount    string
	Method    Method
}

// Authorization is the simulated response from the processor.
type Authorization struct {
	Reference string
	Approved  bool
}

// Processor represents a connector to an external payment gateway. The flow
// drives its two legs on simulated timers; the processor only supplies the
// authorize and settle signals.
type Processor interface {
	Authorize(ctx context.Context, payment Payment) (Authorization, error)
	Settle(ctx context.Context, reference string) error
}

// StaticProcessor simulates a gateway that approves everything.
type StaticProcessor struct{}

// Authorize approves the payment with a synthetic reference.
func (StaticProcessor) Authorize(_ context.Context, _ Payment) (Authorization, error) {
	return Authorization{Reference: uuid.NewString(), Approved: true}, nil
}

// Settle confirms settlement of a previously authorized payment.
func (StaticProcessor) Settle(_ context.Context, _ string) error {
	return nil
}
