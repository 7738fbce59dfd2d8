package services

import (
	"context"
	"log"

	"bluewud/internal/models"
)

// CustomerDetails is the contact information sent with a payment request.
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// PaymentRequest carries everything a gateway needs to settle a checkout.
// OrderRef is a provisional reference; the real order does not exist yet.
type PaymentRequest struct {
	Amount   float64
	Currency string
	OrderRef string
	Method   models.PaymentMethod
	Customer CustomerDetails
}

// PaymentOutcome is the transient result of a settlement attempt. It is
// consumed by the checkout pipeline and never persisted standalone.
type PaymentOutcome struct {
	Success       bool
	TransactionID string // present only on success
	ErrorCode     string // present only on failure
	Message       string
}

// PaymentGateway is the external settlement collaborator for card and UPI
// payments. Implementations are swappable per payment method.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) (PaymentOutcome, error)
}

// PaymentService abstracts settlement behind one request/response contract.
// Cash on delivery settles implicitly; card and UPI make one synchronous
// gateway call. No retry happens here: a retry is the shopper repeating
// the whole checkout.
type PaymentService struct {
	gateway PaymentGateway
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(gateway PaymentGateway) *PaymentService {
	return &PaymentService{
		gateway: gateway,
	}
}

// ProcessPayment settles the request. A failed outcome must prevent order
// creation; the caller owns that ordering.
func (s *PaymentService) ProcessPayment(ctx context.Context, req PaymentRequest) PaymentOutcome {
	if req.Method == models.PaymentCOD {
		// Settled on delivery; no gateway involved.
		return PaymentOutcome{Success: true, Message: "payment due on delivery"}
	}

	outcome, err := s.gateway.ProcessPayment(ctx, req)
	if err != nil {
		log.Printf("Payment gateway unreachable for order ref %s: %v", req.OrderRef, err)
		return PaymentOutcome{
			Success:   false,
			ErrorCode: "GATEWAY_UNREACHABLE",
			Message:   "Payment could not be processed. Please try again.",
		}
	}

	if outcome.Success {
		log.Printf("Payment processed for order ref %s (transaction %s, amount %.2f %s)",
			req.OrderRef, outcome.TransactionID, req.Amount, req.Currency)
	} else {
		log.Printf("Payment declined for order ref %s: %s (%s)", req.OrderRef, outcome.ErrorCode, outcome.Message)
	}
	return outcome
}
