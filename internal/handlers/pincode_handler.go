package handlers

import (
	"errors"

	"quickkart/internal/apperrors"
	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PincodeHandler handles delivery-area serviceability requests.
type PincodeHandler struct {
	service *services.PincodeService
}

// NewPincodeHandler creates a new PincodeHandler.
func NewPincodeHandler(service *services.PincodeService) *PincodeHandler {
	return &PincodeHandler{service: service}
}

// RegisterRoutes registers the pincode routes with the Fiber app.
func (h *PincodeHandler) RegisterRoutes(router fiber.Router) {
	pincodeRoutes := router.Group("/pincodes")
	pincodeRoutes.Get("/", h.HandleGetPincodes)
	pincodeRoutes.Get("/check", h.HandleCheckPincode)
}

// HandleGetPincodes lists all serviceable pincodes.
func (h *PincodeHandler) HandleGetPincodes(c *fiber.Ctx) error {
	pincodes, err := h.service.GetPincodes()
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved,
		"Serviceable pincodes retrieved successfully", pincodes)
}

// HandleCheckPincode reports whether the ?pincode= query parameter names
// a serviceable area.
func (h *PincodeHandler) HandleCheckPincode(c *fiber.Ctx) error {
	pincode := c.Query("pincode")
	if err := h.service.CheckPincode(pincode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(response.Envelope{
				Success: false,
				Message: "Pincode is not serviceable",
				Code:    response.CodeNotFound,
				Data:    fiber.Map{"serviceable": false},
			})
		}
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return response.Error(c, fiber.StatusBadRequest, response.CodeMissingField,
				"Pincode is required", nil)
		}
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved,
		"Pincode is serviceable", fiber.Map{"serviceable": true})
}
