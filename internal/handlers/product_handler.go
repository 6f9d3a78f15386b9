package handlers

import (
	"quickkart/internal/models"
	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads
// are public; catalog mutations need an admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", authRequired, adminRequired, h.HandleCreateProduct)
	productRoutes.Put("/:id", authRequired, adminRequired, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, adminRequired, h.HandleDeleteProduct)

	router.Get("/categories", h.HandleGetCategories)
}

// HandleGetProducts lists products, optionally filtered by category name
// via the ?category= query parameter.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.Query("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", products)
}

// HandleSearchProducts searches products by name or description.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("q"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", product)
}

// HandleGetCategories lists all categories.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeDataRetrieved, "", categories)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	if err := h.validate.Struct(product); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusCreated, response.CodeResourceCreated,
		"Product created successfully", product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Invalid request body", nil)
	}
	product.ID = c.Params("id")
	if err := h.validate.Struct(product); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeInvalidFormat,
			"Validation failed", validationDetails(err))
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeOperationComplete,
		"Product updated successfully", product)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, fiber.StatusOK, response.CodeOperationComplete,
		"Product deleted successfully", nil)
}
