package services

import (
	"context"
	"fmt"
	"log"

	"bluewud/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CheckoutState names a step of the checkout pipeline.
type CheckoutState string

const (
	StateValidatingStock     CheckoutState = "validating_stock"
	StateProcessingPayment   CheckoutState = "processing_payment"
	StateCreatingOrder       CheckoutState = "creating_order"
	StateSendingConfirmation CheckoutState = "sending_confirmation"
	StateClearingCart        CheckoutState = "clearing_cart"
	StateCompleted           CheckoutState = "completed"
	StateAborted             CheckoutState = "aborted"
)

// IsTerminal reports whether the pipeline stops in this state.
func (s CheckoutState) IsTerminal() bool {
	return s == StateCompleted || s == StateAborted
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

// CartManager is the slice of the cart layer checkout needs.
type CartManager interface {
	GetCart(ctx context.Context, ownerID string) (models.Cart, error)
	ClearCart(ctx context.Context, ownerID string) error
}

// StockValidator re-checks live inventory before payment.
type StockValidator interface {
	ValidateStock(items []models.CartItem) StockResult
}

// PaymentProcessor settles a checkout.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) PaymentOutcome
}

// OrderCreator persists the order once payment has cleared.
type OrderCreator interface {
	CreateOrder(input CreateOrderInput) (*models.Order, error)
}

// SessionManager is the slice of guest session handling checkout needs.
type SessionManager interface {
	GetOrCreateSession(id string) *models.GuestSession
	UpdateEmail(id, email string) *models.GuestSession
	AddOrder(id, orderID string)
}

// OrderConfirmation is the summary sent to the notification collaborator.
type OrderConfirmation struct {
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Total       float64            `json:"total"`
	Items       []models.OrderItem `json:"items"`
	Address     models.ShippingAddress `json:"shippingAddress"`
}

// ConfirmationSender notifies the customer that their order exists.
// It is fire-and-forget: the orchestrator only logs its errors.
type ConfirmationSender interface {
	SendOrderConfirmation(email string, summary OrderConfirmation) error
}

// GuestCheckoutForm is the contact and shipping data a guest supplies at
// checkout.
type GuestCheckoutForm struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,min=4,max=10"`
}

// CheckoutRequest describes one checkout attempt. For authenticated
// shoppers UserID plus Shipping are set; guests supply a Guest form and a
// session ID instead.
type CheckoutRequest struct {
	OwnerID        string // cart owner: user ID or guest session ID
	UserID         string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Shipping       *models.ShippingAddress
	GuestSessionID string
	Guest          *GuestCheckoutForm
	PaymentMethod  models.PaymentMethod
	GiftWrap       bool
}

// CheckoutResult is the terminal outcome of one checkout attempt.
type CheckoutResult struct {
	State CheckoutState
	Order *models.Order  // set when State is completed
	Err   *CheckoutError // set when State is aborted
}

// CheckoutService drives the checkout state machine:
//
//	validating_stock -> processing_payment -> creating_order
//	  -> sending_confirmation -> clearing_cart -> completed
//
// with aborted reachable from the first three. Every aborted path leaves
// the cart exactly as it was, so the shopper can retry without loss.
type CheckoutService struct {
	cart          CartManager
	stock         StockValidator
	payments      PaymentProcessor
	orders        OrderCreator
	sessions      SessionManager
	confirmations ConfirmationSender
	validate      *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(cart CartManager, stock StockValidator, payments PaymentProcessor,
	orders OrderCreator, sessions SessionManager, confirmations ConfirmationSender) *CheckoutService {
	return &CheckoutService{
		cart:          cart,
		stock:         stock,
		payments:      payments,
		orders:        orders,
		sessions:      sessions,
		confirmations: confirmations,
		validate:      validator.New(),
	}
}

// PlaceOrder runs one checkout attempt to a terminal state. Steps are
// strictly sequential; nothing runs in parallel within one attempt.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) CheckoutResult {
	cart, err := s.cart.GetCart(ctx, req.OwnerID)
	if err != nil {
		return aborted(ErrNetwork, "Could not load your cart. Please try again.", err)
	}
	if len(cart.Items) == 0 {
		return aborted(ErrValidation, "Your cart is empty", nil)
	}
	if !req.PaymentMethod.Valid() {
		return aborted(ErrValidation, "Invalid payment method", nil)
	}

	// Resolve who is buying and where to ship before anything external
	// commits, so invalid shipping fields never follow a captured payment.
	identity, abortRes := s.resolveIdentity(req)
	if abortRes != nil {
		return *abortRes
	}

	totals := ComputeTotals(cart.Items, req.GiftWrap)
	if totals.Total <= 0 {
		return aborted(ErrValidation, "Invalid order total", nil)
	}

	state := StateValidatingStock
	log.Printf("Checkout for %s entering %s", req.OwnerID, state)
	if result := s.stock.ValidateStock(cart.Items); !result.OK {
		if result.Missing {
			return aborted(ErrValidation,
				fmt.Sprintf("Product %s is no longer available", result.ProductName), nil)
		}
		return aborted(ErrValidation,
			fmt.Sprintf("Insufficient stock for %s. Only %d available.", result.ProductName, result.Available), nil)
	}

	state = StateProcessingPayment
	log.Printf("Checkout for %s entering %s", req.OwnerID, state)
	paymentStatus := models.PaymentPending
	transactionID := ""
	if req.PaymentMethod != models.PaymentCOD {
		outcome := s.payments.ProcessPayment(ctx, PaymentRequest{
			Amount:   totals.Total,
			Currency: Currency,
			OrderRef: "temp-" + uuid.New().String(),
			Method:   req.PaymentMethod,
			Customer: CustomerDetails{
				Name:  identity.name,
				Email: identity.email,
				Phone: identity.phone,
			},
		})
		if !outcome.Success {
			message := outcome.Message
			if message == "" {
				message = "Payment failed. Please try again."
			}
			return aborted(ErrPayment, message, fmt.Errorf("gateway error %s", outcome.ErrorCode))
		}
		paymentStatus = models.PaymentPaid
		transactionID = outcome.TransactionID
	}

	state = StateCreatingOrder
	log.Printf("Checkout for %s entering %s", req.OwnerID, state)
	order, err := s.orders.CreateOrder(CreateOrderInput{
		UserID:          identity.userID,
		GuestSessionID:  identity.guestSessionID,
		GuestEmail:      identity.guestEmail,
		Items:           cart.Items,
		ShippingAddress: identity.shipping,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		TransactionID:   transactionID,
		GiftWrap:        req.GiftWrap,
	})
	if err != nil {
		if paymentStatus == models.PaymentPaid {
			// Payment is captured but no order exists. Nothing compensates
			// automatically; the transaction ID is the reconciliation handle.
			log.Printf("CRITICAL: order creation failed after successful payment (transaction %s): %v",
				transactionID, err)
		}
		return aborted(ErrPersistence, "Failed to place order. Please try again.", err)
	}

	if identity.guestSessionID != "" {
		s.sessions.AddOrder(identity.guestSessionID, order.ID)
	}

	state = StateSendingConfirmation
	log.Printf("Checkout for %s entering %s", req.OwnerID, state)
	if identity.email != "" {
		confirmation := OrderConfirmation{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
			Items:       order.Items,
			Address:     order.ShippingAddress,
		}
		if err := s.confirmations.SendOrderConfirmation(identity.email, confirmation); err != nil {
			// The order is already real; a lost email never rolls it back.
			log.Printf("Failed to send confirmation for order %s to %s: %v", order.ID, identity.email, err)
		}
	}

	state = StateClearingCart
	log.Printf("Checkout for %s entering %s", req.OwnerID, state)
	if err := s.cart.ClearCart(ctx, req.OwnerID); err != nil {
		log.Printf("Failed to clear cart for %s after order %s: %v", req.OwnerID, order.ID, err)
	}

	log.Printf("Checkout for %s completed: order %s (%s), total %.2f",
		req.OwnerID, order.ID, order.OrderNumber, order.Total)
	return CheckoutResult{State: StateCompleted, Order: order}
}

// checkoutIdentity is the resolved customer for one attempt: either an
// authenticated user or a guest session, never both.
type checkoutIdentity struct {
	userID         string
	guestSessionID string
	guestEmail     string
	name           string
	email          string
	phone          string
	shipping       models.ShippingAddress
}

func (s *CheckoutService) resolveIdentity(req CheckoutRequest) (checkoutIdentity, *CheckoutResult) {
	if req.UserID != "" {
		if req.Shipping == nil {
			res := aborted(ErrValidation, "Please select a delivery address", nil)
			return checkoutIdentity{}, &res
		}
		if err := s.validate.Struct(req.Shipping); err != nil {
			res := aborted(ErrValidation, "Selected address is invalid", err)
			return checkoutIdentity{}, &res
		}
		return checkoutIdentity{
			userID:   req.UserID,
			name:     req.CustomerName,
			email:    req.CustomerEmail,
			phone:    req.CustomerPhone,
			shipping: *req.Shipping,
		}, nil
	}

	if req.Guest == nil {
		res := aborted(ErrValidation, "Please fill in your contact and shipping information", nil)
		return checkoutIdentity{}, &res
	}
	if err := s.validate.Struct(req.Guest); err != nil {
		res := aborted(ErrValidation, "Please fill in your contact and shipping information", err)
		return checkoutIdentity{}, &res
	}

	session := s.sessions.UpdateEmail(req.GuestSessionID, req.Guest.Email)
	return checkoutIdentity{
		guestSessionID: session.ID,
		guestEmail:     req.Guest.Email,
		name:           req.Guest.Name,
		email:          req.Guest.Email,
		phone:          req.Guest.Phone,
		shipping: models.ShippingAddress{
			FullName:   req.Guest.Name,
			Phone:      req.Guest.Phone,
			Street:     req.Guest.Street,
			City:       req.Guest.City,
			State:      req.Guest.State,
			PostalCode: req.Guest.ZipCode,
			Country:    "India",
		},
	}, nil
}

func aborted(kind ErrorKind, message string, err error) CheckoutResult {
	checkoutErr := NewCheckoutError(kind, message, err)
	log.Printf("Checkout aborted: %v", checkoutErr)
	return CheckoutResult{State: StateAborted, Err: checkoutErr}
}
