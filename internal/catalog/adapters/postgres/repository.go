package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

const uniqueViolationCode = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `p.id, p.slug, p.name, p.description, p.price_cents, p.stock, p.images, p.notes, p.is_featured, p.is_new, COALESCE(p.collection_id, ''), p.created_at, p.updated_at`

func (r *Repository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN collections c ON c.id = p.collection_id
		WHERE ($1::text IS NULL OR c.slug = $1)
		  AND ($2::bool IS NULL OR p.is_featured = $2)
		  AND ($3::bool IS NULL OR p.is_new = $3)
		  AND ($4::text IS NULL OR p.name ILIKE '%' || $4 || '%' OR p.description ILIKE '%' || $4 || '%')
		ORDER BY p.created_at DESC
	`

	var collectionSlug *string
	if filter.CollectionSlug != "" {
		collectionSlug = &filter.CollectionSlug
	}
	var search *string
	if filter.Search != "" {
		search = &filter.Search
	}

	rows, err := r.pool.Query(ctx, query, collectionSlug, filter.Featured, filter.New, search)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.slug = $1
	`

	row := r.pool.QueryRow(ctx, query, slug)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (r *Repository) Create(ctx context.Context, product domain.Product) error {
	var notes []byte
	if product.Notes != nil {
		var err error
		notes, err = json.Marshal(product.Notes)
		if err != nil {
			return fmt.Errorf("marshal fragrance notes: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, slug, name, description, price_cents, stock, images, notes, is_featured, is_new, collection_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13)
	`,
		product.ID,
		product.Slug,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.Images,
		notes,
		product.IsFeatured,
		product.IsNew,
		product.CollectionID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ports.ErrSlugTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var notes []byte

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.Stock,
		&product.Images,
		&notes,
		&product.IsFeatured,
		&product.IsNew,
		&product.CollectionID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if len(notes) > 0 {
		product.Notes = &domain.FragranceNotes{}
		if err := json.Unmarshal(notes, product.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal fragrance notes: %w", err)
		}
	}

	return &product, nil
}

// CollectionRepository reads merchandising collections.
type CollectionRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

func (r *CollectionRepository) List(ctx context.Context) ([]domain.Collection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), COALESCE(image, ''), created_at, updated_at
		FROM collections
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

func (r *CollectionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	var c domain.Collection
	err := r.pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), COALESCE(image, ''), created_at, updated_at
		FROM collections
		WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("select collection: %w", err)
	}

	return &c, nil
}
