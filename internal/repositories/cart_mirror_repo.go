package repositories

import (
	"bluewud/internal/models"
)

// CartMirrorRepository defines the interface for the local persistent cart
// mirror. It holds the fallback copy of a cart served while the remote cart
// service is unreachable. The whole line set for an owner is replaced on
// every write, mirroring how the cart was persisted as one document.
type CartMirrorRepository interface {
	GetItems(ownerID string) ([]models.CartItem, error)
	SaveItems(ownerID string, items []models.CartItem) error
	Clear(ownerID string) error
}
