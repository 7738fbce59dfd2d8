package handlers

import (
	"log"

	"bluewud/internal/middleware"
	"bluewud/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cartService    *services.CartService
	productService *services.ProductService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Post("/clear", h.HandleClearCart)
	cartRoutes.Post("/coupon", h.HandleApplyCoupon)
}

// HandleGetCart returns the current cart with derived totals. The response
// also reports which store served it, so the UI can surface degraded mode.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.cartService.GetCart(c.Context(), middleware.OwnerID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"items":     cart.Items,
		"total":     cart.Total,
		"itemCount": cart.ItemCount,
		"mode":      h.cartService.Mode(),
	})
}

// AddItemRequest represents the request body for adding a cart line.
type AddItemRequest struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// HandleAddItem adds a product to the cart, merging into an existing line
// when the same product, size and color is already present.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.productService.GetProductByID(req.ProductID)
	if err != nil {
		log.Printf("Error resolving product %s for cart add: %v", req.ProductID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	}

	item, err := h.cartService.AddToCart(c.Context(), middleware.OwnerID(c), product, req.SelectedSize, req.SelectedColor, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItemRequest represents the request body for updating a cart line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateItem changes a line's quantity. A non-positive quantity
// removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.UpdateQuantity(c.Context(), middleware.OwnerID(c), itemID, req.Quantity); err != nil {
		log.Printf("Error updating cart item %s: %v", itemID, err)
		return cartErrorResponse(c, err, "Could not update cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Cart item updated",
	})
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	if err := h.cartService.RemoveItem(c.Context(), middleware.OwnerID(c), itemID); err != nil {
		log.Printf("Error removing cart item %s: %v", itemID, err)
		return cartErrorResponse(c, err, "Could not remove cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Cart item removed",
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.cartService.ClearCart(c.Context(), middleware.OwnerID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return cartErrorResponse(c, err, "Could not clear cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// CouponRequest represents the request body for applying a coupon.
type CouponRequest struct {
	Code string `json:"code"`
}

// HandleApplyCoupon forwards a coupon code to the cart service.
func (h *CartHandler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Coupon code is required",
		})
	}

	cart, err := h.cartService.ApplyCoupon(c.Context(), middleware.OwnerID(c), req.Code)
	if err != nil {
		log.Printf("Error applying coupon %s: %v", req.Code, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Could not apply coupon",
			"error":   err.Error(),
		})
	}
	return c.JSON(cart)
}

// cartErrorResponse maps classified cart errors onto HTTP statuses.
func cartErrorResponse(c *fiber.Ctx, err error, message string) error {
	status := fiber.StatusInternalServerError
	if checkoutErr, ok := err.(*services.CheckoutError); ok && checkoutErr.Kind == services.ErrValidation {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
