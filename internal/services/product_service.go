package services

import (
	"errors"
	"fmt"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"
	"quickkart/internal/repositories"
)

// searchResultLimit caps search responses for performance.
const searchResultLimit = 10

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// GetProducts retrieves products, optionally filtered by category name.
// An unknown category yields an empty list rather than an error.
func (s *ProductService) GetProducts(categoryName string) ([]models.Product, error) {
	if categoryName == "" {
		return s.repo.GetAll("")
	}
	category, err := s.categoryRepo.GetByName(categoryName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []models.Product{}, nil
		}
		return nil, err
	}
	return s.repo.GetAll(category.ID)
}

// SearchProducts finds products matching the query in name or
// description. Queries shorter than two characters are rejected.
func (s *ProductService) SearchProducts(query string) ([]models.Product, error) {
	if len(query) < 2 {
		return nil, fmt.Errorf("search query must be at least 2 characters: %w", apperrors.ErrInvalidInput)
	}
	return s.repo.Search(query, searchResultLimit)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetCategories retrieves all categories.
func (s *ProductService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
