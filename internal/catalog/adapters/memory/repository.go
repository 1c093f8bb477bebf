package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

// Repository is an in-memory product store used in tests.
type Repository struct {
	mu          sync.RWMutex
	products    map[string]domain.Product
	collections map[string]domain.Collection
}

func NewRepository() *Repository {
	return &Repository{
		products:    make(map[string]domain.Product),
		collections: make(map[string]domain.Collection),
	}
}

// AddCollection seeds a collection.
func (r *Repository) AddCollection(c domain.Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[c.ID] = c
}

func (r *Repository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var collectionID string
	if filter.CollectionSlug != "" {
		for _, c := range r.collections {
			if c.Slug == filter.CollectionSlug {
				collectionID = c.ID
				break
			}
		}
		if collectionID == "" {
			return nil, nil
		}
	}

	var products []domain.Product
	for _, p := range r.products {
		if collectionID != "" && p.CollectionID != collectionID {
			continue
		}
		if filter.Featured != nil && p.IsFeatured != *filter.Featured {
			continue
		}
		if filter.New != nil && p.IsNew != *filter.New {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, ports.ErrProductNotFound
}

func (r *Repository) Create(ctx context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Slug == product.Slug {
			return ports.ErrSlugTaken
		}
	}
	r.products[product.ID] = product
	return nil
}

// CollectionRepository is an in-memory collection store used in tests.
type CollectionRepository struct {
	mu          sync.RWMutex
	collections map[string]domain.Collection
}

func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{collections: make(map[string]domain.Collection)}
}

func (r *CollectionRepository) Add(c domain.Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[c.ID] = c
}

func (r *CollectionRepository) List(ctx context.Context) ([]domain.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collections := make([]domain.Collection, 0, len(r.collections))
	for _, c := range r.collections {
		collections = append(collections, c)
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Name < collections[j].Name
	})
	return collections, nil
}

func (r *CollectionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.collections {
		if c.Slug == slug {
			collection := c
			return &collection, nil
		}
	}
	return nil, ports.ErrCollectionNotFound
}
