package handlers

import (
	"errors"
	"log"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"
	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	// Admin accounts are never self-service.
	user.IsAdmin = false

	if err := h.validate.Struct(user); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return response.Error(c, fiber.StatusConflict, response.CodeConflict,
				err.Error(), nil)
		}
		log.Printf("Error registering user: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, response.CodeInternalError,
			"Could not register user", nil)
	}

	// For security, do not return the password hash
	user.Password = ""
	return response.Success(c, fiber.StatusCreated, response.CodeResourceCreated,
		"User registered successfully", user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, response.CodeInvalidCredentials,
			"Authentication failed", nil)
	}

	return response.Success(c, fiber.StatusOK, response.CodeOperationComplete,
		"Login successful", fiber.Map{"token": token})
}
