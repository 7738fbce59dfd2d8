package services_test

import (
	"context"
	"errors"
	"testing"

	"bluewud/internal/models"
	"bluewud/internal/repositories"
	"bluewud/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartManager is a mock implementation of services.CartManager
type MockCartManager struct {
	mock.Mock
}

func (m *MockCartManager) GetCart(ctx context.Context, ownerID string) (models.Cart, error) {
	args := m.Called(ownerID)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartManager) ClearCart(ctx context.Context, ownerID string) error {
	args := m.Called(ownerID)
	return args.Error(0)
}

// MockStockValidator is a mock implementation of services.StockValidator
type MockStockValidator struct {
	mock.Mock
}

func (m *MockStockValidator) ValidateStock(items []models.CartItem) services.StockResult {
	args := m.Called(items)
	return args.Get(0).(services.StockResult)
}

// MockPaymentProcessor is a mock implementation of services.PaymentProcessor
type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) ProcessPayment(ctx context.Context, req services.PaymentRequest) services.PaymentOutcome {
	args := m.Called(req)
	return args.Get(0).(services.PaymentOutcome)
}

// MockOrderCreator is a mock implementation of services.OrderCreator
type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(input services.CreateOrderInput) (*models.Order, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockConfirmationSender is a mock implementation of services.ConfirmationSender
type MockConfirmationSender struct {
	mock.Mock
}

func (m *MockConfirmationSender) SendOrderConfirmation(email string, summary services.OrderConfirmation) error {
	args := m.Called(email, summary)
	return args.Error(0)
}

type checkoutFixture struct {
	cart          *MockCartManager
	stock         *MockStockValidator
	payments      *MockPaymentProcessor
	orders        *MockOrderCreator
	sessionRepo   *repositories.MockSessionRepository
	confirmations *MockConfirmationSender
	service       *services.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cart:          new(MockCartManager),
		stock:         new(MockStockValidator),
		payments:      new(MockPaymentProcessor),
		orders:        new(MockOrderCreator),
		sessionRepo:   repositories.NewMockSessionRepository(),
		confirmations: new(MockConfirmationSender),
	}
	f.service = services.NewCheckoutService(
		f.cart, f.stock, f.payments, f.orders,
		services.NewSessionService(f.sessionRepo), f.confirmations,
	)
	return f
}

func twoBookshelves() models.Cart {
	return models.NewCart([]models.CartItem{
		{
			ID:        "line-1",
			ProductID: "prod-1",
			Name:      "Alvino Engineered Wood Bookshelf",
			Size:      "standard",
			Color:     "wenge",
			Quantity:  2,
			UnitPrice: 1000,
			Subtotal:  2000,
		},
	})
}

func guestForm() *services.GuestCheckoutForm {
	return &services.GuestCheckoutForm{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Street:  "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		ZipCode: "560001",
	}
}

func TestCheckout_GuestCODCompletes(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{OK: true})

	placed := &models.Order{
		ID:          "order-1",
		OrderNumber: "ORD-2026-001",
		Total:       2360,
	}
	f.orders.On("CreateOrder", mock.MatchedBy(func(input services.CreateOrderInput) bool {
		return input.UserID == "" &&
			input.GuestSessionID != "" &&
			input.GuestEmail == "asha@example.com" &&
			input.PaymentMethod == models.PaymentCOD &&
			input.PaymentStatus == models.PaymentPending &&
			input.TransactionID == "" &&
			input.ShippingAddress.Country == "India" &&
			input.ShippingAddress.PostalCode == "560001"
	})).Return(placed, nil)
	f.confirmations.On("SendOrderConfirmation", "asha@example.com", mock.Anything).Return(nil)
	f.cart.On("ClearCart", "sess-1").Return(nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:        "sess-1",
		GuestSessionID: "",
		Guest:          guestForm(),
		PaymentMethod:  models.PaymentCOD,
	})

	assert.Equal(t, services.StateCompleted, result.State)
	assert.Nil(t, result.Err)
	assert.Equal(t, "ORD-2026-001", result.Order.OrderNumber)

	// COD never touches the gateway.
	f.payments.AssertNotCalled(t, "ProcessPayment", mock.Anything)
	f.cart.AssertCalled(t, "ClearCart", "sess-1")
	f.orders.AssertExpectations(t)
	f.confirmations.AssertExpectations(t)

	// The order is recorded on the freshly minted guest session.
	var input services.CreateOrderInput
	for _, call := range f.orders.Calls {
		if call.Method == "CreateOrder" {
			input = call.Arguments.Get(0).(services.CreateOrderInput)
		}
	}
	session, err := f.sessionRepo.Get(input.GuestSessionID)
	assert.NoError(t, err)
	assert.Contains(t, session.Orders, "order-1")
}

func TestCheckout_CardChargesGrandTotal(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "user-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{OK: true})

	// Subtotal 2000, shipping 0, 18% tax 360: the gateway sees 2360.
	f.payments.On("ProcessPayment", mock.MatchedBy(func(req services.PaymentRequest) bool {
		return req.Amount == 2360 && req.Currency == "INR" && req.Method == models.PaymentCard
	})).Return(services.PaymentOutcome{Success: true, TransactionID: "TXNABC"})

	f.orders.On("CreateOrder", mock.MatchedBy(func(input services.CreateOrderInput) bool {
		return input.UserID == "user-1" &&
			input.PaymentStatus == models.PaymentPaid &&
			input.TransactionID == "TXNABC"
	})).Return(&models.Order{ID: "order-2", OrderNumber: "ORD-2026-002", Total: 2360}, nil)
	f.confirmations.On("SendOrderConfirmation", "asha@example.com", mock.Anything).Return(nil)
	f.cart.On("ClearCart", "user-1").Return(nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "user-1",
		UserID:        "user-1",
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876543210",
		Shipping: &models.ShippingAddress{
			FullName:   "Asha Verma",
			Phone:      "9876543210",
			Street:     "12 MG Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560001",
			Country:    "India",
		},
		PaymentMethod: models.PaymentCard,
	})

	assert.Equal(t, services.StateCompleted, result.State)
	f.payments.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestCheckout_StockShortageAbortsBeforePayment(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{
		ProductName: "Alvino Engineered Wood Bookshelf",
		Available:   2,
	})

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentCard,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, services.ErrValidation, result.Err.Kind)
	assert.Equal(t, "Insufficient stock for Alvino Engineered Wood Bookshelf. Only 2 available.", result.Err.Message)

	f.payments.AssertNotCalled(t, "ProcessPayment", mock.Anything)
	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything)
	f.cart.AssertNotCalled(t, "ClearCart", mock.Anything)
}

func TestCheckout_MissingProductAborts(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{
		ProductName: "Alvino Engineered Wood Bookshelf",
		Missing:     true,
	})

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentCOD,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, "Product Alvino Engineered Wood Bookshelf is no longer available", result.Err.Message)
}

func TestCheckout_PaymentFailureLeavesCartIntact(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{OK: true})
	f.payments.On("ProcessPayment", mock.Anything).Return(services.PaymentOutcome{
		Success:   false,
		ErrorCode: "CARD_DECLINED",
		Message:   "Your card was declined",
	})

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentCard,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, services.ErrPayment, result.Err.Kind)
	assert.Equal(t, "Your card was declined", result.Err.Message)

	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything)
	f.cart.AssertNotCalled(t, "ClearCart", mock.Anything)
	f.confirmations.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
}

func TestCheckout_OrderCreationFailureAborts(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{OK: true})
	f.payments.On("ProcessPayment", mock.Anything).Return(services.PaymentOutcome{
		Success:       true,
		TransactionID: "TXNORPHAN",
	})
	f.orders.On("CreateOrder", mock.Anything).Return(nil, errors.New("database is locked"))

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentUPI,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, services.ErrPersistence, result.Err.Kind)
	f.cart.AssertNotCalled(t, "ClearCart", mock.Anything)
}

func TestCheckout_EmptyCartAborts(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(models.NewCart(nil), nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentCOD,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, "Your cart is empty", result.Err.Message)
	f.stock.AssertNotCalled(t, "ValidateStock", mock.Anything)
}

func TestCheckout_InvalidPaymentMethodAborts(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentMethod("bitcoin"),
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, "Invalid payment method", result.Err.Message)
}

func TestCheckout_InvalidGuestFormAbortsBeforeStock(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)

	form := guestForm()
	form.Email = "not-an-email"

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         form,
		PaymentMethod: models.PaymentCOD,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, services.ErrValidation, result.Err.Kind)
	f.stock.AssertNotCalled(t, "ValidateStock", mock.Anything)
	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestCheckout_MissingShippingAddressAborts(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "user-1").Return(twoBookshelves(), nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "user-1",
		UserID:        "user-1",
		PaymentMethod: models.PaymentCOD,
	})

	assert.Equal(t, services.StateAborted, result.State)
	assert.Equal(t, "Please select a delivery address", result.Err.Message)
}

func TestCheckout_ConfirmationFailureStillCompletes(t *testing.T) {
	f := newCheckoutFixture()

	f.cart.On("GetCart", "sess-1").Return(twoBookshelves(), nil)
	f.stock.On("ValidateStock", mock.Anything).Return(services.StockResult{OK: true})
	f.orders.On("CreateOrder", mock.Anything).Return(&models.Order{
		ID:          "order-3",
		OrderNumber: "ORD-2026-003",
		Total:       2360,
	}, nil)
	f.confirmations.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))
	f.cart.On("ClearCart", "sess-1").Return(nil)

	result := f.service.PlaceOrder(context.Background(), services.CheckoutRequest{
		OwnerID:       "sess-1",
		Guest:         guestForm(),
		PaymentMethod: models.PaymentCOD,
	})

	assert.Equal(t, services.StateCompleted, result.State)
	f.cart.AssertCalled(t, "ClearCart", "sess-1")
}

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{UnitPrice: 1000, Quantity: 2, Subtotal: 2000},
	}

	totals := services.ComputeTotals(items, false)
	assert.Equal(t, 2000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 360.0, totals.Tax)
	assert.Equal(t, 2360.0, totals.Total)

	wrapped := services.ComputeTotals(items, true)
	assert.Equal(t, 99.0, wrapped.GiftWrap)
	assert.Equal(t, 2459.0, wrapped.Total)

	// Tax rounds to the paisa.
	odd := services.ComputeTotals([]models.CartItem{{UnitPrice: 99.99, Quantity: 1}}, false)
	assert.InDelta(t, 18.0, odd.Tax, 0.001)
	assert.InDelta(t, 117.99, odd.Total, 0.001)
}
