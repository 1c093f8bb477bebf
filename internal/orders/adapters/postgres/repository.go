package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PlaceOrder creates an order and decrements inventory in one transaction.
//
// Lines are processed in the client's submission order. Each line reads the
// product's current price and stock inside the transaction, then performs a
// conditional decrement: the UPDATE only matches while stock >= quantity, so
// the write itself re-checks the invariant against whatever other
// transactions have committed in the meantime. Zero rows affected after a
// passing read means a racing order consumed the stock; the whole transaction
// rolls back. Row locks taken by the UPDATE make this safe at read-committed
// isolation.
func (r *Repository) PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var totalCents int64
	items := make([]domain.OrderItem, len(order.Items))

	for i, line := range order.Items {
		var priceCents int64
		var stock int

		err := tx.QueryRow(ctx,
			`SELECT price_cents, stock FROM products WHERE id = $1`,
			line.ProductID,
		).Scan(&priceCents, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &ports.ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, fmt.Errorf("select product %s: %w", line.ProductID, err)
		}

		if stock < line.Quantity {
			return nil, &ports.InsufficientStockError{
				ProductID: line.ProductID,
				Available: stock,
				Requested: line.Quantity,
			}
		}

		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
			line.ProductID, line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %s: %w", line.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, &ports.ConcurrentModificationError{ProductID: line.ProductID}
		}

		lineTotal, err := domain.LineTotal(priceCents, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line total for product %s: %w", line.ProductID, err)
		}
		totalCents, err = domain.AddAmounts(totalCents, lineTotal)
		if err != nil {
			return nil, fmt.Errorf("accumulate order total: %w", err)
		}

		items[i] = domain.OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			PriceCents: priceCents,
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, customer_name, customer_email, street, city, state, zip_code, country, total_cents, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.Address.Street,
		order.Address.City,
		order.Address.State,
		order.Address.ZipCode,
		order.Address.Country,
		totalCents,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_cents, position)
			VALUES ($1, $2, $3, $4, $5)
		`,
			order.ID, item.ProductID, item.Quantity, item.PriceCents, i,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	placed := order
	placed.Items = items
	placed.TotalCents = totalCents
	return &placed, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, COALESCE(user_id, ''), customer_name, customer_email, street, city, state, zip_code, country, total_cents, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.Address.Street,
		&order.Address.City,
		&order.Address.State,
		&order.Address.ZipCode,
		&order.Address.Country,
		&order.TotalCents,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, quantity, price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, COALESCE(user_id, ''), customer_name, customer_email, street, city, state, zip_code, country, total_cents, status, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.CustomerName,
			&order.CustomerEmail,
			&order.Address.Street,
			&order.Address.City,
			&order.Address.State,
			&order.Address.ZipCode,
			&order.Address.Country,
			&order.TotalCents,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrOrderNotFound
	}

	return nil
}
