package repositories

import (
	"errors"
	"fmt"

	"quickkart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PincodeRepository defines the interface for serviceable-pincode lookups.
type PincodeRepository interface {
	GetAll() ([]models.Pincode, error)
	Exists(pincode string) (bool, error)
	Create(pincode *models.Pincode) error
}

// GORMPincodeRepository is a GORM implementation of PincodeRepository.
type GORMPincodeRepository struct {
	db *gorm.DB
}

// NewGORMPincodeRepository creates a new instance of GORMPincodeRepository.
func NewGORMPincodeRepository(db *gorm.DB) *GORMPincodeRepository {
	return &GORMPincodeRepository{db: db}
}

// GetAll retrieves all serviceable pincodes.
func (r *GORMPincodeRepository) GetAll() ([]models.Pincode, error) {
	var pincodes []models.Pincode
	if err := r.db.Find(&pincodes).Error; err != nil {
		return nil, fmt.Errorf("failed to get pincodes: %w", err)
	}
	return pincodes, nil
}

// Exists reports whether the given pincode is serviceable.
func (r *GORMPincodeRepository) Exists(pincode string) (bool, error) {
	var p models.Pincode
	err := r.db.First(&p, "pincode = ?", pincode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check pincode %s: %w", pincode, err)
	}
	return true, nil
}

// Create adds a new serviceable pincode.
func (r *GORMPincodeRepository) Create(pincode *models.Pincode) error {
	if pincode.ID == "" {
		pincode.ID = uuid.New().String()
	}
	if err := r.db.Create(pincode).Error; err != nil {
		return fmt.Errorf("failed to create pincode: %w", err)
	}
	return nil
}
