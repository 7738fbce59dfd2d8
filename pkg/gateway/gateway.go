// Package gateway provides the payment gateway collaborator. The sandbox
// implementation here mimics a real gateway's contract so the checkout
// pipeline can run end to end; a production deployment would swap in a
// Razorpay or Stripe backed implementation behind the same interface.
package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bluewud/internal/services"

	"github.com/google/uuid"
)

// SandboxGateway approves every well-formed payment and rejects malformed
// ones with gateway-style error codes.
type SandboxGateway struct {
	// Delay simulates gateway latency when positive.
	Delay time.Duration
}

// NewSandboxGateway creates a sandbox gateway with no artificial latency.
func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{}
}

// ProcessPayment validates the request and returns a settled outcome with a
// fresh transaction ID.
func (g *SandboxGateway) ProcessPayment(ctx context.Context, req services.PaymentRequest) (services.PaymentOutcome, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return services.PaymentOutcome{}, ctx.Err()
		}
	}

	if req.Amount <= 0 {
		return services.PaymentOutcome{
			Success:   false,
			ErrorCode: "INVALID_AMOUNT",
			Message:   "Payment amount must be greater than 0",
		}, nil
	}
	if req.Customer.Email == "" {
		return services.PaymentOutcome{
			Success:   false,
			ErrorCode: "INVALID_CUSTOMER",
			Message:   "Customer email is required",
		}, nil
	}

	transactionID := fmt.Sprintf("TXN%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16]))
	log.Printf("Sandbox gateway settled %.2f %s for order ref %s (transaction %s)",
		req.Amount, req.Currency, req.OrderRef, transactionID)

	return services.PaymentOutcome{
		Success:       true,
		TransactionID: transactionID,
		Message:       "Payment processed successfully",
	}, nil
}
