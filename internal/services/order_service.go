package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"
	"quickkart/internal/repositories"
	"quickkart/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

// CurrencyINR is the only currency the gateway is charged in.
const CurrencyINR = "INR"

// PaymentGateway is the capability interface over the external payment
// provider. The production implementation is pkg/razorpay; tests
// substitute a double.
type PaymentGateway interface {
	// CreateOrder requests a remote payment order for the amount in
	// minor currency units and returns its id.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	// VerifySignature checks payment-completion proof. It fails closed:
	// a non-nil error means the proof is invalid, full stop.
	VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) error
	// Refund refunds the amount in minor units against a captured payment.
	Refund(ctx context.Context, razorpayPaymentID string, amountMinor int64) (string, error)
	// KeyID returns the public key the frontend checkout needs.
	KeyID() string
}

// EventPublisher publishes order lifecycle events for downstream
// notification consumers.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderItemRequest is one requested cart line. Only product id and
// quantity are client-supplied; prices come from the catalog.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderRequest is the input to PlaceOrder.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"orderItem" validate:"required,min=1,dive"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=COD ONLINE"`
	ShippingAddress string             `json:"shipping_address"`
}

// PlacedOrder is the result of PlaceOrder. The Razorpay fields are set
// only for ONLINE orders so the client can complete checkout.
type PlacedOrder struct {
	Order           *models.Order `json:"order"`
	RazorpayOrderID string        `json:"razorpay_order_id,omitempty"`
	RazorpayAmount  int64         `json:"razorpay_amount,omitempty"`
	RazorpayKey     string        `json:"razorpay_key,omitempty"`
	Currency        string        `json:"currency,omitempty"`
}

// RefundDetails reports a refund issued during cancellation.
type RefundDetails struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// OrderService owns the order workflow: place (COD or ONLINE), verify
// payment, cancel with best-effort refund, and scoped reads. Every state
// change runs inside one repository transaction.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	gateway     PaymentGateway
	events      EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, gateway PaymentGateway, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		events:      events,
	}
}

// toMinorUnits converts a rupee amount to paise for the gateway boundary.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PlaceOrder assembles, prices and persists a new order for the user.
// Unit prices are read from the catalog at this moment and snapshotted
// onto the items; client-supplied amounts are never trusted. For ONLINE
// orders a remote payment order is created inside the same transaction,
// so a gateway failure rolls back the order and its items entirely.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlacedOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", apperrors.ErrInvalidInput)
	}
	if req.PaymentMethod != models.PaymentMethodCOD && req.PaymentMethod != models.PaymentMethodOnline {
		return nil, fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, apperrors.ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", apperrors.ErrInvalidInput)
		}
	}

	result := &PlacedOrder{}
	err := s.orderRepo.Transaction(func(tx repositories.OrderRepository) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			product, err := s.productRepo.GetByID(line.ProductID)
			if err != nil {
				return fmt.Errorf("resolve product %s: %w", line.ProductID, err)
			}
			item := models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price, // snapshot, frozen from here on
			}
			items = append(items, item)
			total = total.Add(item.Cost())
		}

		order := &models.Order{
			UserID:          userID,
			Items:           items,
			TotalPrice:      total,
			Status:          models.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
		}
		if err := tx.Create(order); err != nil {
			return err
		}

		if req.PaymentMethod == models.PaymentMethodOnline {
			amount := toMinorUnits(total)
			remoteOrderID, err := s.gateway.CreateOrder(ctx, amount, CurrencyINR, "order_"+order.ID)
			if err != nil {
				// Rolls back the order and items just created.
				return fmt.Errorf("%w: %v", apperrors.ErrGatewayUnavailable, err)
			}
			order.RazorpayOrderID = remoteOrderID
			if err := tx.Update(order); err != nil {
				return err
			}
			result.RazorpayOrderID = remoteOrderID
			result.RazorpayAmount = amount
			result.RazorpayKey = s.gateway.KeyID()
			result.Currency = CurrencyINR
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.RoutingKeyOrderCreated, result.Order)
	return result, nil
}

// VerifyPayment checks the payment proof the client received from the
// gateway and, when valid, transitions the order to PROCESSING. The
// signature is verified before any lookup or mutation; a failed check
// leaves the store untouched no matter how often it is retried.
// Replaying the same valid proof is a no-op success; a different payment
// id for an already-paid order is rejected.
func (s *OrderService) VerifyPayment(razorpayOrderID, razorpayPaymentID, signature string) (*models.Order, error) {
	if err := s.gateway.VerifySignature(razorpayOrderID, razorpayPaymentID, signature); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSignature, err)
	}

	var verified *models.Order
	alreadyPaid := false
	err := s.orderRepo.Transaction(func(tx repositories.OrderRepository) error {
		order, err := tx.GetByRazorpayOrderID(razorpayOrderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case models.OrderStatusProcessing:
			if order.PaymentID == razorpayPaymentID {
				// Replay of an already-applied verification.
				verified = order
				alreadyPaid = true
				return nil
			}
			return fmt.Errorf("order %s already paid with a different payment: %w", order.ID, apperrors.ErrConflict)
		case models.OrderStatusCancelled, models.OrderStatusDelivered:
			return fmt.Errorf("order %s is %s: %w", order.ID, order.Status, apperrors.ErrConflict)
		}

		order.PaymentID = razorpayPaymentID
		order.Status = models.OrderStatusProcessing
		if err := tx.Update(order); err != nil {
			return err
		}
		verified = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyPaid {
		s.publishEvent(rabbitmq.RoutingKeyOrderPaid, verified)
	}
	return verified, nil
}

// CancelOrder cancels the user's order. Only PENDING and PROCESSING
// orders are cancellable. When an online payment was captured, a full
// refund is attempted first; a refund failure is logged and the
// cancellation still goes through. Missed refunds are reconciled manually.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID string) (*models.Order, *RefundDetails, error) {
	var cancelled *models.Order
	var refund *RefundDetails
	err := s.orderRepo.Transaction(func(tx repositories.OrderRepository) error {
		order, err := tx.GetByIDForUser(orderID, userID)
		if err != nil {
			return err
		}
		if !order.Cancellable() {
			return fmt.Errorf("order %s is %s: %w", order.ID, order.Status, apperrors.ErrConflict)
		}

		if order.PaymentID != "" && order.RazorpayOrderID != "" {
			refundID, err := s.gateway.Refund(ctx, order.PaymentID, toMinorUnits(order.TotalPrice))
			if err != nil {
				log.Printf("Refund for order %s (payment %s) failed, cancelling anyway: %v", order.ID, order.PaymentID, err)
			} else {
				refund = &RefundDetails{RefundID: refundID, Status: "processed"}
			}
		}

		order.Status = models.OrderStatusCancelled
		if err := tx.Update(order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(rabbitmq.RoutingKeyOrderCancelled, cancelled)
	return cancelled, refund, nil
}

// GetOrders lists orders: all of them for admins, the user's own
// otherwise.
func (s *OrderService) GetOrders(userID string, isAdmin bool) ([]models.Order, error) {
	if isAdmin {
		return s.orderRepo.GetAll()
	}
	return s.orderRepo.GetByUser(userID)
}

// GetOrder retrieves a single order. Non-admin lookups are scoped to the
// owner and report not-found for anyone else's order.
func (s *OrderService) GetOrder(orderID, userID string, isAdmin bool) (*models.Order, error) {
	if isAdmin {
		return s.orderRepo.GetByID(orderID)
	}
	return s.orderRepo.GetByIDForUser(orderID, userID)
}

// publishEvent emits an order lifecycle event. Publishing is best effort:
// a broker failure is logged and never surfaces to the caller.
func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"status":         order.Status,
		"payment_method": order.PaymentMethod(),
		"total_price":    order.TotalPrice,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.events.Publish(rabbitmq.OrderExchange, routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
