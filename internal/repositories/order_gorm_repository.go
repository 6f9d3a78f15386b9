package repositories

import (
	"errors"
	"fmt"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db   *gorm.DB
	inTx bool
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// query returns the base query for single-order lookups. Inside a
// transaction it adds a row lock so concurrent verify/cancel operations on
// the same order serialize. SQLite has no FOR UPDATE; its transactions
// already serialize writers.
func (r *GORMOrderRepository) query() *gorm.DB {
	q := r.db.Preload("Items")
	if r.inTx && r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByUser retrieves all orders placed by the given user, newest first.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves an order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.query().First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByIDForUser retrieves an order by ID, scoped to its owner. An order
// belonging to another user reports not-found rather than leaking its
// existence.
func (r *GORMOrderRepository) GetByIDForUser(id, userID string) (*models.Order, error) {
	var order models.Order
	err := r.query().First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s for user %s: %w", id, userID, err)
	}
	return &order, nil
}

// GetByRazorpayOrderID retrieves the order holding the given remote
// payment order reference.
func (r *GORMOrderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.query().First(&order, "razorpay_order_id = ?", razorpayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order for razorpay order %s: %w", razorpayOrderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by razorpay order %s: %w", razorpayOrderID, err)
	}
	return &order, nil
}

// Create persists a new order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update persists changes to an existing order. Items are immutable after
// creation and are deliberately not touched.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit(clause.Associations).Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", order.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Transaction runs fn against a repository bound to one database
// transaction. fn returning an error rolls back every write made through
// the bound repository.
func (r *GORMOrderRepository) Transaction(fn func(OrderRepository) error) error {
	if r.inTx {
		// Already transactional; GORM savepoints are not needed here.
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GORMOrderRepository{db: tx, inTx: true})
	})
}
