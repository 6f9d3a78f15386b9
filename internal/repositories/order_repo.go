package repositories

import (
	"quickkart/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Transaction runs fn against a repository bound to a single database
// transaction; every write inside either commits as a whole or rolls back
// when fn returns an error. Lookups made inside a transaction take a row
// lock where the backing store supports it, so concurrent state changes
// to the same order serialize.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByIDForUser(id, userID string) (*models.Order, error)
	GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	Transaction(fn func(OrderRepository) error) error
}
