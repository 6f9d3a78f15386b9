package services

import (
	"quickkart/internal/models"
	"quickkart/internal/repositories"
)

// ContactService stores messages from the public contact form.
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// SubmitMessage stores a contact message.
func (s *ContactService) SubmitMessage(message *models.ContactMessage) error {
	return s.repo.Create(message)
}
