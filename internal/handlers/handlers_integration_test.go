package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quickkart/internal/handlers"
	"quickkart/internal/middleware"
	"quickkart/internal/models"
	"quickkart/internal/repositories"
	"quickkart/internal/services"
)

// stubGateway is a deterministic payment gateway for integration tests:
// it accepts exactly the signature "good-sig" and always refunds.
type stubGateway struct {
	failCreate bool
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (string, error) {
	if g.failCreate {
		return "", fmt.Errorf("gateway unreachable")
	}
	return "order_rzp_test", nil
}

func (g *stubGateway) VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) error {
	if signature != "good-sig" {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func (g *stubGateway) Refund(_ context.Context, razorpayPaymentID string, amountMinor int64) (string, error) {
	return "rfnd_test", nil
}

func (g *stubGateway) KeyID() string {
	return "rzp_test_key"
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *stubGateway
}

// setupEnv builds a Fiber app against in-memory SQLite with all
// handlers and services wired, mirroring the production wiring. The
// database is named after the test so GORM's pooled connections share
// one store (cache=shared) while tests stay isolated from each other.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Pincode{}, &models.ContactMessage{},
	)
	if err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	pincodeRepo := repositories.NewGORMPincodeRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	gateway := &stubGateway{}

	productService := services.NewProductService(productRepo, categoryRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, gateway, nil) // nil event publisher
	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	pincodeService := services.NewPincodeService(pincodeRepo)
	contactService := services.NewContactService(contactRepo)

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, authRequired, adminRequired)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1, authRequired)
	handlers.NewPincodeHandler(pincodeService).RegisterRoutes(apiV1)
	handlers.NewContactHandler(contactService).RegisterRoutes(apiV1)

	// Seed catalog and serviceable area
	require.NoError(t, productRepo.Create(&models.Product{
		ID: "prod-7", Name: "Full Cream Milk", Description: "1L full cream milk",
		Price: decimal.RequireFromString("50.00"), Stock: 100,
	}))
	require.NoError(t, pincodeRepo.Create(&models.Pincode{Pincode: "110001"}))

	return &testEnv{app: app, db: db, gateway: gateway}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	if resp.Body != nil {
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		resp.Body.Close()
	}
	return resp, envelope
}

// dataMap returns the envelope's data field as an object, failing the
// test instead of panicking when it is absent or a different shape.
func dataMap(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", envelope)
	return data
}

func dataList(t *testing.T, envelope map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := envelope["data"].([]interface{})
	require.True(t, ok, "response data is not a list: %v", envelope)
	return data
}

func stringField(t *testing.T, m map[string]interface{}, key string) string {
	t.Helper()
	value, ok := m[key].(string)
	require.True(t, ok, "field %s is not a string: %v", key, m[key])
	return value
}

// decimalField parses a money field, which the API serializes as a
// quoted decimal string.
func decimalField(t *testing.T, m map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(stringField(t, m, key))
	require.NoError(t, err, "field %s is not a decimal", key)
	return value
}

// registerAndLogin creates a user and returns a bearer token for them.
func (e *testEnv) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()
	resp, _ := e.request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := e.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return stringField(t, dataMap(t, envelope), "token")
}

func TestAPI_OrderLifecycle(t *testing.T) {
	env := setupEnv(t)
	token := env.registerAndLogin(t, "customer", "customer@example.com")

	t.Run("UnauthenticatedOrdersRejected", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/orders/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, envelope["success"])
	})

	var codOrderID string
	t.Run("PlaceCODOrder", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/place", token, fiber.Map{
			"orderItem":        []fiber.Map{{"product_id": "prod-7", "quantity": 2}},
			"payment_method":   "COD",
			"shipping_address": "12 Market Street",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, true, envelope["success"])
		assert.Equal(t, "CRE_RESOURCE_CREATED", envelope["code"])

		data := dataMap(t, envelope)
		order, ok := data["order"].(map[string]interface{})
		require.True(t, ok, "order missing from response: %v", data)
		assert.Equal(t, "PENDING", order["status"])
		assert.True(t, decimalField(t, order, "total_price").Equal(decimal.RequireFromString("100.00")))

		items, ok := order["items"].([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		item, ok := items[0].(map[string]interface{})
		require.True(t, ok)
		assert.True(t, decimalField(t, item, "price").Equal(decimal.RequireFromString("50.00")))

		assert.Nil(t, data["razorpay_order_id"])
		codOrderID = stringField(t, order, "id")
	})

	t.Run("PlaceOrderUnknownProduct", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/place", token, fiber.Map{
			"orderItem":      []fiber.Map{{"product_id": "prod-missing", "quantity": 1}},
			"payment_method": "COD",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "RES_NOT_FOUND", envelope["code"])
	})

	t.Run("PlaceOrderInvalidBody", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/api/v1/orders/place", token, fiber.Map{
			"orderItem":      []fiber.Map{},
			"payment_method": "COD",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("GatewayFailureRollsBack", func(t *testing.T) {
		env.gateway.failCreate = true
		defer func() { env.gateway.failCreate = false }()

		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/place", token, fiber.Map{
			"orderItem":      []fiber.Map{{"product_id": "prod-7", "quantity": 1}},
			"payment_method": "ONLINE",
		})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "PAY_GATEWAY_ERROR", envelope["code"])

		var count int64
		env.db.Model(&models.Order{}).Where("razorpay_order_id = ?", "order_rzp_test").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("PlaceOnlineOrderAndVerify", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/place", token, fiber.Map{
			"orderItem":      []fiber.Map{{"product_id": "prod-7", "quantity": 2}},
			"payment_method": "ONLINE",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := dataMap(t, envelope)
		assert.Equal(t, "order_rzp_test", data["razorpay_order_id"])
		assert.Equal(t, float64(10000), data["razorpay_amount"])
		assert.Equal(t, "rzp_test_key", data["razorpay_key"])
		assert.Equal(t, "INR", data["currency"])

		// Incomplete payment proof fails validation.
		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id": "order_rzp_test",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VAL_INVALID_FORMAT", envelope["code"])

		// Tampered signature is rejected and changes nothing.
		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id":   "order_rzp_test",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "tampered",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "PAY_INVALID_SIGNATURE", envelope["code"])

		// Valid signature transitions the order to PROCESSING.
		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id":   "order_rzp_test",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "good-sig",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		order := dataMap(t, envelope)
		assert.Equal(t, "PROCESSING", order["status"])
		assert.Equal(t, "pay_1", order["payment_id"])

		// Replay is a safe no-op.
		resp, _ = env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id":   "order_rzp_test",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "good-sig",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// A different payment id for the paid order conflicts.
		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id":   "order_rzp_test",
			"razorpay_payment_id": "pay_2",
			"razorpay_signature":  "good-sig",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "RES_CONFLICT", envelope["code"])
	})

	t.Run("VerifyPaymentUnknownOrder", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/verify-payment", token, fiber.Map{
			"razorpay_order_id":   "order_rzp_unknown",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "good-sig",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "RES_NOT_FOUND", envelope["code"])
	})

	t.Run("CancelOrder", func(t *testing.T) {
		require.NotEmpty(t, codOrderID)
		resp, envelope := env.request(t, http.MethodPost, "/api/v1/orders/"+codOrderID+"/cancel", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := dataMap(t, envelope)
		order, ok := data["order"].(map[string]interface{})
		require.True(t, ok, "order missing from response: %v", data)
		assert.Equal(t, "CANCELLED", order["status"])
		assert.Nil(t, data["refund_details"], "COD order has nothing to refund")

		// Cancelling again conflicts.
		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/"+codOrderID+"/cancel", token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "RES_CONFLICT", envelope["code"])
	})

	t.Run("CancelPaidOrderIncludesRefund", func(t *testing.T) {
		// The ONLINE order from the earlier subtest is PROCESSING now.
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/orders/", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var paidOrderID string
		for _, raw := range dataList(t, envelope) {
			order, ok := raw.(map[string]interface{})
			require.True(t, ok)
			if order["status"] == "PROCESSING" {
				paidOrderID = stringField(t, order, "id")
			}
		}
		require.NotEmpty(t, paidOrderID)

		resp, envelope = env.request(t, http.MethodPost, "/api/v1/orders/"+paidOrderID+"/cancel", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := dataMap(t, envelope)
		refund, ok := data["refund_details"].(map[string]interface{})
		require.True(t, ok, "refund details missing from response: %v", data)
		assert.Equal(t, "rfnd_test", refund["refund_id"])
		assert.Equal(t, "processed", refund["status"])
	})

	t.Run("OrderScoping", func(t *testing.T) {
		otherToken := env.registerAndLogin(t, "someoneelse", "someoneelse@example.com")

		// Another user cannot see or cancel this user's order.
		resp, _ := env.request(t, http.MethodGet, "/api/v1/orders/"+codOrderID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = env.request(t, http.MethodPost, "/api/v1/orders/"+codOrderID+"/cancel", otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, envelope := env.request(t, http.MethodGet, "/api/v1/orders/", otherToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, envelope["data"])
	})
}

func TestAPI_Catalog(t *testing.T) {
	env := setupEnv(t)

	t.Run("ListProducts", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/products/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, dataList(t, envelope), 1)
	})

	t.Run("SearchProducts", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/products/search?q=milk", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, dataList(t, envelope), 1)

		resp, envelope = env.request(t, http.MethodGet, "/api/v1/products/search?q=m", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VAL_INVALID_FORMAT", envelope["code"])
	})

	t.Run("ProductDetail", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/api/v1/products/prod-7", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = env.request(t, http.MethodGet, "/api/v1/products/prod-missing", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("CatalogMutationNeedsAdmin", func(t *testing.T) {
		token := env.registerAndLogin(t, "plainuser", "plainuser@example.com")
		resp, _ := env.request(t, http.MethodPost, "/api/v1/products/", token, fiber.Map{
			"name": "Butter", "price": "65.00", "stock": 10,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAPI_Pincodes(t *testing.T) {
	env := setupEnv(t)

	t.Run("Serviceable", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/pincodes/check?pincode=110001", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, dataMap(t, envelope)["serviceable"])
	})

	t.Run("NotServiceable", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/pincodes/check?pincode=999999", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, false, dataMap(t, envelope)["serviceable"])
	})

	t.Run("MissingPincode", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/pincodes/check", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VAL_MISSING_FIELD", envelope["code"])
	})

	t.Run("List", func(t *testing.T) {
		resp, envelope := env.request(t, http.MethodGet, "/api/v1/pincodes/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, dataList(t, envelope), 1)
	})
}

func TestAPI_Contact(t *testing.T) {
	env := setupEnv(t)

	resp, envelope := env.request(t, http.MethodPost, "/api/v1/contact", "", fiber.Map{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "When do you restock milk?",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "CRE_RESOURCE_CREATED", envelope["code"])

	resp, _ = env.request(t, http.MethodPost, "/api/v1/contact", "", fiber.Map{
		"name":  "Asha",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
