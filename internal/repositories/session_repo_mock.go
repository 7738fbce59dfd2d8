package repositories

import (
	"fmt"
	"sync"

	"bluewud/internal/models"
)

// MockSessionRepository is an in-memory implementation of SessionRepository.
type MockSessionRepository struct {
	sessions map[string]models.GuestSession
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]models.GuestSession),
	}
}

// Get returns a guest session by its ID.
func (r *MockSessionRepository) Get(id string) (*models.GuestSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("guest session %s not found", id)
	}
	return &session, nil
}

// Save creates or updates a guest session.
func (r *MockSessionRepository) Save(session *models.GuestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = *session
	return nil
}

// Delete removes a guest session by its ID.
func (r *MockSessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
