package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/ports"
)

// Repository provides an in-memory store useful for local development and
// tests. Placement follows the same per-line semantics as the postgres
// adapter: lines are processed in submission order against staged stock, and
// nothing is applied unless every line succeeds.
type Repository struct {
	mu       sync.RWMutex
	orders   map[string]domain.Order
	products map[string]domain.Product
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		orders:   make(map[string]domain.Order),
		products: make(map[string]domain.Product),
	}
}

// AddProduct inserts or replaces a product. Existing orders keep their
// snapshotted prices regardless of what this writes.
func (r *Repository) AddProduct(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// ProductStock reports the units on hand for a product.
func (r *Repository) ProductStock(id string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

// PlaceOrder atomically checks stock, decrements it, and stores the order.
// The exclusive lock stands in for the database transaction: decrements are
// staged per line and committed only after the last line passes, so a
// mid-order failure leaves every product at its pre-request stock.
func (r *Repository) PlaceOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[string]int)
	var totalCents int64
	items := make([]domain.OrderItem, len(order.Items))

	for i, line := range order.Items {
		product, ok := r.products[line.ProductID]
		if !ok {
			return nil, &ports.ProductNotFoundError{ProductID: line.ProductID}
		}

		available, seen := staged[line.ProductID]
		if !seen {
			available = product.Stock
		}

		if available < line.Quantity {
			return nil, &ports.InsufficientStockError{
				ProductID: line.ProductID,
				Available: available,
				Requested: line.Quantity,
			}
		}

		staged[line.ProductID] = available - line.Quantity

		lineTotal, err := domain.LineTotal(product.PriceCents, line.Quantity)
		if err != nil {
			return nil, err
		}
		totalCents, err = domain.AddAmounts(totalCents, lineTotal)
		if err != nil {
			return nil, err
		}

		items[i] = domain.OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
		}
	}

	for id, stock := range staged {
		product := r.products[id]
		product.Stock = stock
		r.products[id] = product
	}

	placed := order
	placed.Items = items
	placed.TotalCents = totalCents
	r.orders[placed.ID] = placed

	result := placed
	result.Items = append([]domain.OrderItem(nil), placed.Items...)
	return &result, nil
}

// GetByID fetches a single order by identifier.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	result := order
	result.Items = append([]domain.OrderItem(nil), order.Items...)
	return &result, nil
}

// List returns orders respecting the provided filter. Pagination is 1-based.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Order{}, nil
	}

	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}

	slice := make([]domain.Order, end-start)
	copy(slice, result[start:end])

	return slice, nil
}

// UpdateStatus sets the status and updatedAt timestamp for an order.
func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrOrderNotFound
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order
	return nil
}
