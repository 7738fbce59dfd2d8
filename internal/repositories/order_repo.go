package repositories

import (
	"bluewud/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByGuestSessionID(sessionID string) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	CountForYear(year int) (int64, error)
}
