package repositories

import (
	"sync"

	"bluewud/internal/models"
)

// MockCartMirrorRepository is an in-memory implementation of CartMirrorRepository.
type MockCartMirrorRepository struct {
	carts map[string][]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartMirrorRepository creates a new instance of MockCartMirrorRepository.
func NewMockCartMirrorRepository() *MockCartMirrorRepository {
	return &MockCartMirrorRepository{
		carts: make(map[string][]models.CartItem),
	}
}

// GetItems returns the mirrored cart lines for the given owner.
func (r *MockCartMirrorRepository) GetItems(ownerID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, len(r.carts[ownerID]))
	copy(items, r.carts[ownerID])
	return items, nil
}

// SaveItems replaces the mirrored cart lines for the given owner.
func (r *MockCartMirrorRepository) SaveItems(ownerID string, items []models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]models.CartItem, len(items))
	copy(stored, items)
	for i := range stored {
		stored[i].OwnerID = ownerID
	}
	r.carts[ownerID] = stored
	return nil
}

// Clear removes all mirrored cart lines for the given owner.
func (r *MockCartMirrorRepository) Clear(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	return nil
}
