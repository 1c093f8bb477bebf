package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/veloura/storefront/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
//
// PlaceOrder runs the whole inventory-safe placement as one atomic unit: for
// each requested line, in submission order, it reads the product inside the
// transaction, verifies stock, conditionally decrements it, and snapshots the
// unit price; it then persists the order with its items and the accumulated
// total. Any failure rolls everything back: no partial orders, no partial
// decrements.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// ListFilter narrows list queries by status and pagination.
type ListFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

// ErrOrderNotFound is returned when the requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ProductNotFoundError is returned when a requested line references a product
// that does not exist. Nothing is committed.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError is returned when a product has fewer units on hand
// than requested at read time. Nothing is committed.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available, %d requested", e.ProductID, e.Available, e.Requested)
}

// ConcurrentModificationError is returned when the conditional decrement
// matched no rows: a racing transaction consumed the stock between the in-tx
// read and the write. The caller may safely retry the whole order.
type ConcurrentModificationError struct {
	ProductID string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("stock for product %s was modified concurrently", e.ProductID)
}
