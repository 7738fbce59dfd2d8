package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bluewud/internal/models"

	"github.com/sony/gobreaker/v2"
)

// RemoteCart is the client contract for the remote cart service. The cart
// service is the canonical cart store; every operation returns the full
// cart state after the mutation.
type RemoteCart interface {
	GetCart(ctx context.Context, ownerID string) (*models.Cart, error)
	AddItem(ctx context.Context, ownerID string, req AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, ownerID, itemID string, req UpdateItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error)
	Clear(ctx context.Context, ownerID string) error
	ApplyCoupon(ctx context.Context, ownerID, code string) (*models.Cart, error)
}

// AddItemRequest is the body for POST /cart/items.
type AddItemRequest struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// UpdateItemRequest is the body for PATCH /cart/items/:id.
type UpdateItemRequest struct {
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// HTTPRemoteCart talks to the cart service over HTTP. All calls go through
// a circuit breaker so a flapping cart service trips fast instead of making
// every shopper wait out a timeout.
type HTTPRemoteCart struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPRemoteCart creates a cart service client with a circuit breaker.
// onStateChange, when non-nil, is notified on every breaker transition so
// the caller can track consistency mode.
func NewHTTPRemoteCart(baseURL string, onStateChange func(from, to gobreaker.State)) *HTTPRemoteCart {
	settings := gobreaker.Settings{
		Name:        "cart-service",
		MaxRequests: 1,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Cart service breaker %s: %s -> %s", name, from, to)
			if onStateChange != nil {
				onStateChange(from, to)
			}
		},
	}

	return &HTTPRemoteCart{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// GetCart fetches the canonical cart for the owner.
func (c *HTTPRemoteCart) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	body, err := c.do(ctx, http.MethodGet, "/cart", ownerID, nil)
	if err != nil {
		return nil, err
	}
	return decodeCart(body)
}

// AddItem adds a line to the cart; the service merges duplicate lines itself.
func (c *HTTPRemoteCart) AddItem(ctx context.Context, ownerID string, req AddItemRequest) (*models.Cart, error) {
	body, err := c.do(ctx, http.MethodPost, "/cart/items", ownerID, req)
	if err != nil {
		return nil, err
	}
	return decodeCart(body)
}

// UpdateItem changes the quantity or variant of an existing cart line.
func (c *HTTPRemoteCart) UpdateItem(ctx context.Context, ownerID, itemID string, req UpdateItemRequest) (*models.Cart, error) {
	body, err := c.do(ctx, http.MethodPatch, "/cart/items/"+itemID, ownerID, req)
	if err != nil {
		return nil, err
	}
	return decodeCart(body)
}

// RemoveItem deletes a cart line.
func (c *HTTPRemoteCart) RemoveItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	body, err := c.do(ctx, http.MethodDelete, "/cart/items/"+itemID, ownerID, nil)
	if err != nil {
		return nil, err
	}
	return decodeCart(body)
}

// Clear empties the cart.
func (c *HTTPRemoteCart) Clear(ctx context.Context, ownerID string) error {
	_, err := c.do(ctx, http.MethodPost, "/cart/clear", ownerID, nil)
	return err
}

// ApplyCoupon applies a coupon code to the cart.
func (c *HTTPRemoteCart) ApplyCoupon(ctx context.Context, ownerID, code string) (*models.Cart, error) {
	payload := map[string]string{"code": code}
	body, err := c.do(ctx, http.MethodPost, "/cart/coupon", ownerID, payload)
	if err != nil {
		return nil, err
	}
	return decodeCart(body)
}

// do executes one request through the circuit breaker and returns the raw
// response body. Any non-2xx status counts as a breaker failure.
func (c *HTTPRemoteCart) do(ctx context.Context, method, path, ownerID string, payload interface{}) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal cart request: %w", err)
			}
			reqBody = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to build cart request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Cart-Owner", ownerID)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("cart service unreachable: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read cart response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("cart service returned status %d: %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
}

func decodeCart(body []byte) (*models.Cart, error) {
	var cart models.Cart
	if err := json.Unmarshal(body, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}
