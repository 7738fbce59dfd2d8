package handlers

import (
	"log"

	"bluewud/internal/middleware"
	"bluewud/internal/models"
	"bluewud/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for placing orders.
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	userService     *services.AuthService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *services.CheckoutService, userService *services.AuthService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		userService:     userService,
	}
}

// RegisterRoutes registers the checkout route with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
}

// CheckoutBody represents a checkout submission. Authenticated shoppers
// send a shipping address; guests send the guest form instead.
type CheckoutBody struct {
	PaymentMethod models.PaymentMethod        `json:"paymentMethod"`
	GiftWrap      bool                        `json:"giftWrap"`
	Shipping      *models.ShippingAddress     `json:"shippingAddress,omitempty"`
	Guest         *services.GuestCheckoutForm `json:"guest,omitempty"`
}

// HandleCheckout runs one checkout attempt and reports its terminal state.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var body CheckoutBody
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	req := services.CheckoutRequest{
		OwnerID:       middleware.OwnerID(c),
		PaymentMethod: body.PaymentMethod,
		GiftWrap:      body.GiftWrap,
	}

	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		user, err := h.userService.GetUserByID(userID)
		if err != nil {
			log.Printf("Error resolving user %s for checkout: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Could not resolve the authenticated user",
			})
		}
		req.UserID = userID
		req.CustomerName = user.Username
		req.CustomerEmail = user.Email
		req.Shipping = body.Shipping
		if body.Shipping != nil {
			req.CustomerPhone = body.Shipping.Phone
		}
	} else {
		if sessionID, ok := c.Locals("guest_session_id").(string); ok {
			req.GuestSessionID = sessionID
		}
		req.Guest = body.Guest
	}

	result := h.checkoutService.PlaceOrder(c.Context(), req)
	if result.State == services.StateAborted {
		return c.Status(checkoutStatus(result.Err)).JSON(fiber.Map{
			"message": result.Err.Message,
			"kind":    result.Err.Kind,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Order placed successfully",
		"orderId":     result.Order.ID,
		"orderNumber": result.Order.OrderNumber,
		"total":       result.Order.Total,
	})
}

// checkoutStatus maps an abort kind onto an HTTP status.
func checkoutStatus(err *services.CheckoutError) int {
	switch err.Kind {
	case services.ErrValidation:
		return fiber.StatusBadRequest
	case services.ErrPayment:
		return fiber.StatusPaymentRequired
	case services.ErrNetwork:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
