package notify

import (
	"context"
	"log"
)

// Event types emitted by the engines.
const (
	EventLoanRequested         = "loan.requested"
	EventLoanApproved          = "loan.approved"
	EventLoanRejected          = "loan.rejected"
	EventRepaymentVerified     = "repayment.verified"
	EventRepaymentRejected     = "repayment.rejected"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionRejected  = "subscription.rejected"
	EventKycDecided            = "kyc.decided"
)

// Dispatcher is fire-and-forget: implementations swallow delivery failures
// (logging them) so a notification can never roll back the operation that
// emitted it.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventType string, payload map[string]any)
}

// LogDispatcher writes events to the process log. Stands in for a real
// outbound channel (email, push) in development and tests.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher { return &LogDispatcher{} }

func (LogDispatcher) Dispatch(_ context.Context, eventType string, payload map[string]any) {
	log.Printf("notify: %s %v", eventType, payload)
}
