package repositories

import (
	"fmt"

	"bluewud/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Get retrieves a guest session by its ID.
func (r *GORMSessionRepository) Get(id string) (*models.GuestSession, error) {
	var session models.GuestSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("guest session %s not found", id)
		}
		return nil, fmt.Errorf("failed to get guest session %s: %w", id, err)
	}
	return &session, nil
}

// Save creates or updates a guest session.
func (r *GORMSessionRepository) Save(session *models.GuestSession) error {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(session).Error; err != nil {
		return fmt.Errorf("failed to save guest session %s: %w", session.ID, err)
	}
	return nil
}

// Delete removes a guest session by its ID.
func (r *GORMSessionRepository) Delete(id string) error {
	if err := r.db.Delete(&models.GuestSession{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete guest session %s: %w", id, err)
	}
	return nil
}
