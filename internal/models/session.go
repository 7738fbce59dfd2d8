package models

import "time"

// SessionDuration is how long a guest session stays valid.
const SessionDuration = 30 * 24 * time.Hour

// GuestSession is an anonymous correlation identity for an unauthenticated
// shopper. It ties carts and orders together until the shopper registers.
type GuestSession struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255)" validate:"omitempty,email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Orders    []string  `json:"orders" gorm:"serializer:json"` // order IDs placed under this session
}

// Expired reports whether the session has passed its expiry time.
func (s *GuestSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
