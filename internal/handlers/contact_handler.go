package handlers

import (
	"quickkart/internal/models"
	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmitMessage)
}

// HandleSubmitMessage stores a contact form submission.
func (h *ContactHandler) HandleSubmitMessage(c *fiber.Ctx) error {
	var message models.ContactMessage
	if err := c.BodyParser(&message); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	if err := h.validate.Struct(message); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid data provided", validationDetails(err))
	}

	if err := h.service.SubmitMessage(&message); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusCreated, response.CodeResourceCreated,
		"Thank you for your message. We'll get back to you soon!", message)
}
