package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"bluewud/internal/models"
	"bluewud/internal/repositories"

	"github.com/google/uuid"
)

const (
	// TaxRate is the GST applied on goods plus shipping.
	TaxRate = 0.18
	// GiftWrapPrice is the flat charge for gift wrapping, in rupees.
	GiftWrapPrice = 99.0
	// Currency is the storefront settlement currency.
	Currency = "INR"
)

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CreateOrderInput is everything needed to persist an order. Exactly one of
// UserID or GuestSessionID must be set; GuestEmail accompanies the latter.
type CreateOrderInput struct {
	UserID          string
	GuestSessionID  string
	GuestEmail      string
	Items           []models.CartItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   models.PaymentMethod
	PaymentStatus   models.PaymentStatus
	TransactionID   string
	GiftWrap        bool
}

// OrderTotals is the computed money breakdown for a cart.
type OrderTotals struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Discount float64
	GiftWrap float64
	Total    float64
}

// OrderService handles order creation and lookup. Created orders snapshot
// item names and prices, so later catalog changes never alter them.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	now         func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// ComputeTotals derives the money breakdown for the given cart lines.
// Shipping is free; tax is 18% of goods plus shipping, rounded to paise.
func ComputeTotals(items []models.CartItem, giftWrap bool) OrderTotals {
	totals := OrderTotals{}
	for _, item := range items {
		totals.Subtotal += item.UnitPrice * float64(item.Quantity)
	}
	totals.Shipping = 0
	totals.Tax = math.Round((totals.Subtotal+totals.Shipping)*TaxRate*100) / 100
	if giftWrap {
		totals.GiftWrap = GiftWrapPrice
	}
	totals.Total = totals.Subtotal + totals.Shipping + totals.Tax - totals.Discount + totals.GiftWrap
	return totals
}

// CreateOrder persists a new order from the given input and publishes an
// order.created event. Stock is decremented best-effort per line; there is
// no reservation, so a concurrent buyer can still win a race.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("cannot create an order with no items")
	}
	if input.UserID != "" && input.GuestSessionID != "" {
		return nil, fmt.Errorf("order cannot belong to both a user and a guest session")
	}
	if input.UserID == "" && input.GuestSessionID == "" {
		return nil, fmt.Errorf("order needs a user or a guest session")
	}

	snapshot := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		snapshot = append(snapshot, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			Subtotal:  item.UnitPrice * float64(item.Quantity),
		})
	}

	totals := ComputeTotals(input.Items, input.GiftWrap)
	number, err := s.nextOrderNumber()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		OrderNumber:     number,
		UserID:          input.UserID,
		GuestSessionID:  input.GuestSessionID,
		GuestEmail:      input.GuestEmail,
		Items:           snapshot,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   input.PaymentStatus,
		TransactionID:   input.TransactionID,
		Status:          models.OrderPending,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		GiftWrap:        totals.GiftWrap,
		Total:           totals.Total,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.decrementStock(order)
	s.publishCreated(order)

	return order, nil
}

// nextOrderNumber builds a human-readable order number like ORD-2025-042.
func (s *OrderService) nextOrderNumber() (string, error) {
	year := s.now().Year()
	count, err := s.orderRepo.CountForYear(year)
	if err != nil {
		return "", fmt.Errorf("failed to number order: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%03d", year, count+1), nil
}

// decrementStock reduces live stock for each ordered line. Failures are
// logged with enough context for manual reconciliation; the order stands.
func (s *OrderService) decrementStock(order *models.Order) {
	for _, item := range order.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			log.Printf("Stock decrement: product %s missing for order %s: %v", item.ProductID, order.ID, err)
			continue
		}
		product.Stock -= item.Quantity
		if product.Stock < 0 {
			log.Printf("Stock decrement: %s oversold by %d on order %s", product.Name, -product.Stock, order.ID)
			product.Stock = 0
		}
		if err := s.productRepo.Update(product); err != nil {
			log.Printf("Stock decrement: failed to update %s for order %s: %v", product.Name, order.ID, err)
		}
	}
}

// publishCreated emits an order.created event. Publishing is best-effort.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping order.created publication.")
		return
	}

	message := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
		"total":       order.Total,
	}
	body, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish("order", "order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderByNumber retrieves a single order by its order number.
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByNumber(orderNumber)
}

// GetOrdersForUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrdersForGuestSession retrieves all orders placed under a guest session.
func (s *OrderService) GetOrdersForGuestSession(sessionID string) ([]models.Order, error) {
	return s.orderRepo.GetByGuestSessionID(sessionID)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	validStatuses := map[models.OrderStatus]bool{
		models.OrderPending:   true,
		models.OrderConfirmed: true,
		models.OrderShipped:   true,
		models.OrderDelivered: true,
		models.OrderCancelled: true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// CancelOrder cancels an order that has not shipped yet.
func (s *OrderService) CancelOrder(id string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderPending && order.Status != models.OrderConfirmed {
		return fmt.Errorf("order %s cannot be cancelled in status %s", id, order.Status)
	}
	if err := s.orderRepo.UpdateStatus(id, models.OrderCancelled); err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", id, err)
	}
	return nil
}
