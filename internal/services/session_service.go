package services

import (
	"log"
	"time"

	"bluewud/internal/models"
	"bluewud/internal/repositories"

	"github.com/google/uuid"
)

// SessionService issues and persists anonymous guest sessions. A session is
// valid for 30 days; once expired it is silently discarded and replaced, so
// callers cannot tell a fresh walk-in guest from one whose session lapsed.
// Storage unavailability degrades to "no session" rather than an error.
type SessionService struct {
	repo repositories.SessionRepository
	now  func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo repositories.SessionRepository) *SessionService {
	return &SessionService{
		repo: repo,
		now:  time.Now,
	}
}

// GetOrCreateSession returns the session for the given ID if it is still
// valid, otherwise mints and persists a new one. Repeated calls with a
// valid ID are idempotent and return the identical session.
func (s *SessionService) GetOrCreateSession(id string) *models.GuestSession {
	if existing := s.GetSession(id); existing != nil {
		return existing
	}

	session := &models.GuestSession{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(models.SessionDuration),
		Orders:    []string{},
	}
	if err := s.repo.Save(session); err != nil {
		// The shopper still gets a working session for this request; it
		// just will not survive a restart.
		log.Printf("Failed to persist guest session %s: %v", session.ID, err)
	}
	return session
}

// GetSession returns the session for the given ID, or nil when it is
// absent, expired, or storage is unavailable. Expired records are removed
// on the way out.
func (s *SessionService) GetSession(id string) *models.GuestSession {
	if id == "" {
		return nil
	}
	session, err := s.repo.Get(id)
	if err != nil {
		return nil
	}
	if session.Expired(s.now()) {
		if err := s.repo.Delete(id); err != nil {
			log.Printf("Failed to discard expired guest session %s: %v", id, err)
		}
		return nil
	}
	return session
}

// UpdateEmail attaches the email supplied at checkout to the session.
func (s *SessionService) UpdateEmail(id, email string) *models.GuestSession {
	session := s.GetOrCreateSession(id)
	session.Email = email
	if err := s.repo.Save(session); err != nil {
		log.Printf("Failed to save email on guest session %s: %v", session.ID, err)
	}
	return session
}

// AddOrder appends an order ID to the session's order list. Adding an ID
// that is already present is a no-op.
func (s *SessionService) AddOrder(id, orderID string) {
	session := s.GetOrCreateSession(id)
	for _, existing := range session.Orders {
		if existing == orderID {
			return
		}
	}
	session.Orders = append(session.Orders, orderID)
	if err := s.repo.Save(session); err != nil {
		log.Printf("Failed to record order %s on guest session %s: %v", orderID, session.ID, err)
	}
}

// ClearSession destroys the session. Called when the guest registers or
// logs in, so their history moves to the account.
func (s *SessionService) ClearSession(id string) {
	if id == "" {
		return
	}
	if err := s.repo.Delete(id); err != nil {
		log.Printf("Failed to clear guest session %s: %v", id, err)
	}
}
