package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"quickkart/internal/apperrors"
	"quickkart/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Transaction simulates rollback by snapshotting the order map and
// restoring it when the callback fails; the mutex is held for the whole
// transaction so concurrent transactions serialize like row locks would.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getAllLocked(), nil
}

func (r *MockOrderRepository) getAllLocked() []models.Order {
	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList
}

// GetByUser returns all orders placed by the given user.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.getAllLocked() {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getByIDLocked(id)
}

func (r *MockOrderRepository) getByIDLocked(id string) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	return &order, nil
}

// GetByIDForUser returns an order by ID scoped to its owner.
func (r *MockOrderRepository) GetByIDForUser(id, userID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	return &order, nil
}

// GetByRazorpayOrderID returns the order holding the given remote order id.
func (r *MockOrderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.RazorpayOrderID == razorpayOrderID {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order for razorpay order %s: %w", razorpayOrderID, apperrors.ErrNotFound)
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(order)
}

func (r *MockOrderRepository) createLocked(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// Update replaces an existing order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateLocked(order)
}

func (r *MockOrderRepository) updateLocked(order *models.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order %s: %w", order.ID, apperrors.ErrNotFound)
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// Transaction runs fn with the repository locked; a failing fn restores
// the pre-transaction snapshot.
func (r *MockOrderRepository) Transaction(fn func(OrderRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]models.Order, len(r.orders))
	for k, v := range r.orders {
		snapshot[k] = v
	}

	if err := fn(&mockOrderTx{repo: r}); err != nil {
		r.orders = snapshot
		return err
	}
	return nil
}

// mockOrderTx gives the transaction callback lock-free access to the
// already-locked repository.
type mockOrderTx struct {
	repo *MockOrderRepository
}

func (t *mockOrderTx) GetAll() ([]models.Order, error) {
	return t.repo.getAllLocked(), nil
}

func (t *mockOrderTx) GetByUser(userID string) ([]models.Order, error) {
	var orderList []models.Order
	for _, order := range t.repo.getAllLocked() {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

func (t *mockOrderTx) GetByID(id string) (*models.Order, error) {
	return t.repo.getByIDLocked(id)
}

func (t *mockOrderTx) GetByIDForUser(id, userID string) (*models.Order, error) {
	order, ok := t.repo.orders[id]
	if !ok || order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	return &order, nil
}

func (t *mockOrderTx) GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error) {
	for _, order := range t.repo.orders {
		if order.RazorpayOrderID == razorpayOrderID {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order for razorpay order %s: %w", razorpayOrderID, apperrors.ErrNotFound)
}

func (t *mockOrderTx) Create(order *models.Order) error {
	return t.repo.createLocked(order)
}

func (t *mockOrderTx) Update(order *models.Order) error {
	return t.repo.updateLocked(order)
}

func (t *mockOrderTx) Transaction(fn func(OrderRepository) error) error {
	return fn(t)
}
