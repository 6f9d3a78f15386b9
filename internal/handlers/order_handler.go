package handlers

import (
	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All order
// routes require authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/orders", authRequired)
	orderRoutes.Post("/place", h.HandlePlaceOrder)
	orderRoutes.Post("/verify-payment", h.HandleVerifyPayment)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandlePlaceOrder creates a new order from the submitted cart. For
// ONLINE orders the response carries the gateway fields the client needs
// to complete checkout.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	userID, _ := currentUser(c)
	placed, err := h.service.PlaceOrder(c.Context(), userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Order placed successfully!"
	if placed.RazorpayOrderID != "" {
		message = "Order created successfully. Please complete payment."
	}
	return response.Success(c, fiber.StatusCreated, response.CodeResourceCreated, message, placed)
}

// VerifyPaymentRequest is the payment proof Razorpay hands the client on
// checkout completion.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// HandleVerifyPayment verifies a payment signature and moves the order to
// PROCESSING.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	order, err := h.service.VerifyPayment(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return respondServiceError(c, err)
	}

	return response.Success(c, fiber.StatusOK, response.CodeOperationComplete,
		"Payment verified successfully", order)
}

// HandleGetOrders lists the caller's orders, or every order for admins.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, isAdmin := currentUser(c)
	orders, err := h.service.GetOrders(userID, isAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", orders)
}

// HandleGetOrderByID retrieves a single order, scoped to the caller
// unless they are an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, isAdmin := currentUser(c)
	order, err := h.service.GetOrder(c.Params("id"), userID, isAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", order)
}

// HandleCancelOrder cancels the caller's order, refunding a captured
// online payment best-effort.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	order, refund, err := h.service.CancelOrder(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	data := fiber.Map{"order": order}
	if refund != nil {
		data["refund_details"] = refund
	}
	return response.Success(c, fiber.StatusOK, response.CodeOperationComplete,
		"Order cancelled successfully", data)
}
