package services

import (
	"fmt"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"
	"quickkart/internal/repositories"
)

// PincodeService answers delivery-area serviceability questions.
type PincodeService struct {
	repo repositories.PincodeRepository
}

// NewPincodeService creates a new PincodeService.
func NewPincodeService(repo repositories.PincodeRepository) *PincodeService {
	return &PincodeService{repo: repo}
}

// GetPincodes lists every serviceable pincode.
func (s *PincodeService) GetPincodes() ([]models.Pincode, error) {
	return s.repo.GetAll()
}

// CheckPincode reports whether the given pincode is serviceable. A pincode
// absent from the store is a not-found, not an internal error.
func (s *PincodeService) CheckPincode(pincode string) error {
	if pincode == "" {
		return fmt.Errorf("pincode is required: %w", apperrors.ErrInvalidInput)
	}
	serviceable, err := s.repo.Exists(pincode)
	if err != nil {
		return err
	}
	if !serviceable {
		return fmt.Errorf("pincode %s is not serviceable: %w", pincode, apperrors.ErrNotFound)
	}
	return nil
}
