package repositories

import (
	"quickkart/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(categoryID string) ([]models.Product, error)
	Search(query string, limit int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
}
