package repositories

import (
	"bluewud/internal/models"
)

// SessionRepository defines the interface for guest session persistence.
type SessionRepository interface {
	Get(id string) (*models.GuestSession, error)
	Save(session *models.GuestSession) error
	Delete(id string) error
}
