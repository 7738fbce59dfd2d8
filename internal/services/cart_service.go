package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bluewud/internal/clients"
	"bluewud/internal/models"
	"bluewud/internal/repositories"

	"github.com/google/uuid"
)

// ConsistencyMode describes which store the cart is currently served from.
type ConsistencyMode string

const (
	// ModeRemote means the remote cart service is the source of truth.
	ModeRemote ConsistencyMode = "remote"
	// ModeDegraded means the remote service is unreachable and reads and
	// writes go to the local persistent mirror. Carts written in this mode
	// are not merged back when the remote service recovers.
	ModeDegraded ConsistencyMode = "degraded"
)

// CartService mediates all cart reads and writes. It prefers the remote
// cart service, transparently degrades to the local persistent mirror when
// the remote is unreachable, and short-circuits repeated reads through a
// short-lived cache. Remote unavailability is never fatal; it only weakens
// durability and consistency guarantees.
type CartService struct {
	remote clients.RemoteCart
	mirror repositories.CartMirrorRepository
	cache  *CartCache

	mu   sync.Mutex
	mode ConsistencyMode

	now func() time.Time
}

// NewCartService creates a CartService with its own isolated read cache.
func NewCartService(remote clients.RemoteCart, mirror repositories.CartMirrorRepository, cache *CartCache) *CartService {
	if cache == nil {
		cache = NewCartCache(DefaultCartCacheTTL)
	}
	return &CartService{
		remote: remote,
		mirror: mirror,
		cache:  cache,
		mode:   ModeRemote,
		now:    time.Now,
	}
}

// Mode returns the current consistency mode.
func (s *CartService) Mode() ConsistencyMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// setMode records a consistency mode transition, logging the event once per
// change.
func (s *CartService) setMode(mode ConsistencyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != mode {
		log.Printf("Cart consistency mode changed: %s -> %s", s.mode, mode)
		s.mode = mode
	}
}

// GetCart returns the owner's cart: cache first, then the remote service,
// then the local mirror.
func (s *CartService) GetCart(ctx context.Context, ownerID string) (models.Cart, error) {
	if cached, ok := s.cache.Get(ownerID); ok {
		return *cached, nil
	}

	remoteCart, err := s.remote.GetCart(ctx, ownerID)
	if err == nil {
		s.setMode(ModeRemote)
		s.cache.Set(ownerID, *remoteCart)
		return *remoteCart, nil
	}

	log.Printf("Cart service not available, serving cart for %s from local mirror: %v", ownerID, err)
	s.setMode(ModeDegraded)

	items, mirrorErr := s.mirror.GetItems(ownerID)
	if mirrorErr != nil {
		return models.Cart{}, NewCheckoutError(ErrPersistence, "could not load cart", mirrorErr)
	}
	cart := models.NewCart(items)
	s.cache.Set(ownerID, cart)
	return cart, nil
}

// AddToCart adds the product in the given size and color. An existing line
// with the same (product, size, color) identity is merged by incrementing
// its quantity; otherwise a new line is appended with the product's current
// price frozen in. The cache is invalidated whether the write lands
// remotely or locally.
func (s *CartService) AddToCart(ctx context.Context, ownerID string, product *models.Product, size, color string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, NewCheckoutError(ErrValidation, "quantity must be at least 1", nil)
	}

	defer s.cache.Invalidate(ownerID)

	remoteCart, err := s.remote.AddItem(ctx, ownerID, clients.AddItemRequest{
		ProductID:     product.ID,
		Quantity:      quantity,
		SelectedSize:  size,
		SelectedColor: color,
	})
	if err == nil {
		s.setMode(ModeRemote)
		for i := range remoteCart.Items {
			if remoteCart.Items[i].SameLine(product.ID, size, color) {
				return &remoteCart.Items[i], nil
			}
		}
		return nil, fmt.Errorf("cart service did not return the added item for product %s", product.ID)
	}

	log.Printf("Cart service not available, adding product %s to local mirror: %v", product.ID, err)
	s.setMode(ModeDegraded)

	items, mirrorErr := s.mirror.GetItems(ownerID)
	if mirrorErr != nil {
		return nil, NewCheckoutError(ErrPersistence, "could not load cart", mirrorErr)
	}

	var line *models.CartItem
	for i := range items {
		if items[i].SameLine(product.ID, size, color) {
			items[i].Quantity += quantity
			items[i].Recalculate()
			line = &items[i]
			break
		}
	}
	if line == nil {
		items = append(items, models.CartItem{
			ID:        uuid.New().String(),
			OwnerID:   ownerID,
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Size:      size,
			Color:     color,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price * float64(quantity),
			AddedAt:   s.now(),
		})
		line = &items[len(items)-1]
	}

	if err := s.mirror.SaveItems(ownerID, items); err != nil {
		return nil, NewCheckoutError(ErrPersistence, "could not save cart", err)
	}
	return line, nil
}

// UpdateQuantity sets a new quantity for a cart line. A non-positive
// quantity removes the line instead.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID, itemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ownerID, itemID)
	}

	// The remote contract needs the line's size and color, so resolve the
	// line from the current cart first.
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return err
	}
	var current *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			current = &cart.Items[i]
			break
		}
	}
	if current == nil {
		return NewCheckoutError(ErrValidation, "item not found in cart", nil)
	}

	defer s.cache.Invalidate(ownerID)

	_, err = s.remote.UpdateItem(ctx, ownerID, itemID, clients.UpdateItemRequest{
		Quantity:      quantity,
		SelectedSize:  current.Size,
		SelectedColor: current.Color,
	})
	if err == nil {
		s.setMode(ModeRemote)
		return nil
	}

	log.Printf("Cart service not available, updating item %s in local mirror: %v", itemID, err)
	s.setMode(ModeDegraded)

	items, mirrorErr := s.mirror.GetItems(ownerID)
	if mirrorErr != nil {
		return NewCheckoutError(ErrPersistence, "could not load cart", mirrorErr)
	}
	updated := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			items[i].Recalculate()
			updated = true
			break
		}
	}
	if !updated {
		return NewCheckoutError(ErrValidation, "item not found in cart", nil)
	}
	if err := s.mirror.SaveItems(ownerID, items); err != nil {
		return NewCheckoutError(ErrPersistence, "could not save cart", err)
	}
	return nil
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, ownerID, itemID string) error {
	defer s.cache.Invalidate(ownerID)

	_, err := s.remote.RemoveItem(ctx, ownerID, itemID)
	if err == nil {
		s.setMode(ModeRemote)
		return nil
	}

	log.Printf("Cart service not available, removing item %s from local mirror: %v", itemID, err)
	s.setMode(ModeDegraded)

	items, mirrorErr := s.mirror.GetItems(ownerID)
	if mirrorErr != nil {
		return NewCheckoutError(ErrPersistence, "could not load cart", mirrorErr)
	}
	remaining := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			remaining = append(remaining, item)
		}
	}
	if err := s.mirror.SaveItems(ownerID, remaining); err != nil {
		return NewCheckoutError(ErrPersistence, "could not save cart", err)
	}
	return nil
}

// ClearCart empties the owner's cart.
func (s *CartService) ClearCart(ctx context.Context, ownerID string) error {
	defer s.cache.Invalidate(ownerID)

	err := s.remote.Clear(ctx, ownerID)
	if err == nil {
		s.setMode(ModeRemote)
		return nil
	}

	log.Printf("Cart service not available, clearing local mirror for %s: %v", ownerID, err)
	s.setMode(ModeDegraded)

	if err := s.mirror.Clear(ownerID); err != nil {
		return NewCheckoutError(ErrPersistence, "could not clear cart", err)
	}
	return nil
}

// ApplyCoupon forwards a coupon code to the remote cart service. Coupons
// are priced remotely, so there is no local fallback for this operation.
func (s *CartService) ApplyCoupon(ctx context.Context, ownerID, code string) (models.Cart, error) {
	defer s.cache.Invalidate(ownerID)

	cart, err := s.remote.ApplyCoupon(ctx, ownerID, code)
	if err != nil {
		s.setMode(ModeDegraded)
		return models.Cart{}, NewCheckoutError(ErrNetwork, "could not apply coupon", err)
	}
	s.setMode(ModeRemote)
	return *cart, nil
}
