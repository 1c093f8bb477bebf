package ports

import (
	"context"
	"errors"

	"github.com/veloura/storefront/internal/catalog/domain"
)

var (
	// ErrProductNotFound is returned when the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrCollectionNotFound is returned when the requested collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrSlugTaken is returned when creating a product whose slug already exists.
	ErrSlugTaken = errors.New("slug already in use")
)

// ProductFilter narrows product listings. Nil fields are ignored.
type ProductFilter struct {
	CollectionSlug string
	Featured       *bool
	New            *bool
	Search         string
}

// ProductRepository exposes catalog reads plus the admin create operation.
// Stock mutation is deliberately absent: inventory only changes through the
// order placement transaction.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) error
}

// CollectionRepository exposes collection reads.
type CollectionRepository interface {
	List(ctx context.Context) ([]domain.Collection, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Collection, error)
}
