package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

const maxPriceCents = 100_000_000

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,100}$`)

// Service bundles catalog use cases for the API.
type Service struct {
	products    ports.ProductRepository
	collections ports.CollectionRepository
}

// NewService wires required dependencies.
func NewService(products ports.ProductRepository, collections ports.CollectionRepository) *Service {
	return &Service{
		products:    products,
		collections: collections,
	}
}

// ListProducts returns products matching the filter.
func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// GetProduct retrieves a single product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

// ListCollections returns every collection.
func (s *Service) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.collections.List(ctx)
}

// GetCollection retrieves a single collection by slug.
func (s *Service) GetCollection(ctx context.Context, slug string) (*domain.Collection, error) {
	return s.collections.GetBySlug(ctx, slug)
}

// CreateProductInput captures the admin payload for adding a product.
type CreateProductInput struct {
	Name         string                 `json:"name"`
	Slug         string                 `json:"slug"`
	Description  string                 `json:"description"`
	PriceCents   int64                  `json:"priceCents"`
	Stock        int                    `json:"stock"`
	Images       []string               `json:"images"`
	Notes        *domain.FragranceNotes `json:"notes,omitempty"`
	IsFeatured   bool                   `json:"isFeatured"`
	IsNew        bool                   `json:"isNew"`
	CollectionID string                 `json:"collectionId,omitempty"`
}

// Validate checks the admin payload against catalog constraints.
func (in CreateProductInput) Validate() error {
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Name)); n < 1 || n > 200 {
		return domain.NewValidationError("name", "must be between 1 and 200 characters")
	}
	if !slugPattern.MatchString(in.Slug) {
		return domain.NewValidationError("slug", "must be 1 to 100 lowercase letters, digits, or hyphens")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Description)); n < 10 || n > 2000 {
		return domain.NewValidationError("description", "must be between 10 and 2000 characters")
	}
	if in.PriceCents <= 0 || in.PriceCents > maxPriceCents {
		return domain.NewValidationError("priceCents", fmt.Sprintf("must be between 1 and %d minor units", maxPriceCents))
	}
	if in.Stock < 0 || in.Stock > 100_000 {
		return domain.NewValidationError("stock", "must be between 0 and 100000")
	}
	if len(in.Images) > 10 {
		return domain.NewValidationError("images", "cannot contain more than 10 entries")
	}
	return nil
}

// CreateProduct adds a product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:           uuid.NewString(),
		Slug:         input.Slug,
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		PriceCents:   input.PriceCents,
		Stock:        input.Stock,
		Images:       input.Images,
		Notes:        input.Notes,
		IsFeatured:   input.IsFeatured,
		IsNew:        input.IsNew,
		CollectionID: input.CollectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return &product, nil
}
