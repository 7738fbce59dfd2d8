package repositories

import (
	"fmt"

	"bluewud/internal/models"

	"gorm.io/gorm"
)

// GORMCartMirrorRepository is a GORM implementation of CartMirrorRepository.
type GORMCartMirrorRepository struct {
	db *gorm.DB
}

// NewGORMCartMirrorRepository creates a new instance of GORMCartMirrorRepository.
func NewGORMCartMirrorRepository(db *gorm.DB) *GORMCartMirrorRepository {
	return &GORMCartMirrorRepository{
		db: db,
	}
}

// GetItems retrieves the mirrored cart lines for the given owner.
func (r *GORMCartMirrorRepository) GetItems(ownerID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Order("added_at asc").Find(&items, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get mirrored cart for owner %s: %w", ownerID, err)
	}
	return items, nil
}

// SaveItems replaces the mirrored cart lines for the given owner in one
// transaction, so a failed write never leaves a half-replaced cart.
func (r *GORMCartMirrorRepository) SaveItems(ownerID string, items []models.CartItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CartItem{}, "owner_id = ?", ownerID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OwnerID = ownerID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save mirrored cart for owner %s: %w", ownerID, err)
	}
	return nil
}

// Clear removes all mirrored cart lines for the given owner.
func (r *GORMCartMirrorRepository) Clear(ownerID string) error {
	if err := r.db.Delete(&models.CartItem{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to clear mirrored cart for owner %s: %w", ownerID, err)
	}
	return nil
}
