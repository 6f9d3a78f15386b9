package handlers

import (
	"errors"
	"fmt"
	"log"

	"quickkart/internal/apperrors"
	"quickkart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps a service error onto the uniform envelope.
// Unclassified errors become a generic 500; their text stays in the logs
// and never reaches the client.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat, err.Error(), nil)
	case errors.Is(err, apperrors.ErrNotFound):
		return response.Error(c, fiber.StatusNotFound, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, apperrors.ErrConflict):
		return response.Error(c, fiber.StatusConflict, response.CodeConflict, err.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidSignature):
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidSignature, "Invalid payment signature", nil)
	case errors.Is(err, apperrors.ErrGatewayUnavailable):
		return response.Error(c, fiber.StatusBadGateway, response.CodeGatewayError, "Payment gateway unavailable, please try again", nil)
	default:
		log.Printf("Unhandled service error on %s %s: %v", c.Method(), c.Path(), err)
		return response.Error(c, fiber.StatusInternalServerError, response.CodeInternalError, "Something went wrong", nil)
	}
}

// validationDetails flattens validator errors into a field-to-message map
// for the envelope's errors field.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, e := range vErrs {
			details[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return details
}

// currentUser pulls the authenticated user's id and admin flag out of the
// request context set by the auth middleware.
func currentUser(c *fiber.Ctx) (string, bool) {
	userID, _ := c.Locals("user_id").(string)
	isAdmin, _ := c.Locals("is_admin").(bool)
	return userID, isAdmin
}
