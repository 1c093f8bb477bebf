package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/veloura/storefront/internal/catalog/adapters/memory"
	"github.com/veloura/storefront/internal/catalog/app"
	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

func validInput() app.CreateProductInput {
	return app.CreateProductInput{
		Name:        "Midnight Oud",
		Slug:        "midnight-oud",
		Description: "A deep, smoky oud anchored by amber and leather.",
		PriceCents:  18500,
		Stock:       40,
		Images:      []string{"https://cdn.example.com/midnight-oud.jpg"},
		Notes: &domain.FragranceNotes{
			Top:   []string{"saffron"},
			Heart: []string{"oud"},
			Base:  []string{"amber"},
		},
	}
}

func newService() (*app.Service, *memory.Repository) {
	products := memory.NewRepository()
	return app.NewService(products, memory.NewCollectionRepository()), products
}

func TestCreateProduct(t *testing.T) {
	t.Run("creates product with generated id", func(t *testing.T) {
		service, _ := newService()

		product, err := service.CreateProduct(context.Background(), validInput())

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if product.ID == "" {
			t.Error("expected generated product id")
		}
		if product.Slug != "midnight-oud" {
			t.Errorf("expected slug midnight-oud, got %s", product.Slug)
		}
		if product.PriceCents != 18500 {
			t.Errorf("expected price 18500, got %d", product.PriceCents)
		}
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		service, _ := newService()

		if _, err := service.CreateProduct(context.Background(), validInput()); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		_, err := service.CreateProduct(context.Background(), validInput())

		if !errors.Is(err, ports.ErrSlugTaken) {
			t.Fatalf("expected ErrSlugTaken, got: %v", err)
		}
	})
}

func TestCreateProductInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *app.CreateProductInput)
		wantField string
	}{
		{
			name:      "empty name",
			mutate:    func(in *app.CreateProductInput) { in.Name = "  " },
			wantField: "name",
		},
		{
			name:      "name too long",
			mutate:    func(in *app.CreateProductInput) { in.Name = strings.Repeat("a", 201) },
			wantField: "name",
		},
		{
			name:      "uppercase slug",
			mutate:    func(in *app.CreateProductInput) { in.Slug = "Midnight-Oud" },
			wantField: "slug",
		},
		{
			name:      "short description",
			mutate:    func(in *app.CreateProductInput) { in.Description = "too short" },
			wantField: "description",
		},
		{
			name:      "zero price",
			mutate:    func(in *app.CreateProductInput) { in.PriceCents = 0 },
			wantField: "priceCents",
		},
		{
			name:      "negative stock",
			mutate:    func(in *app.CreateProductInput) { in.Stock = -1 },
			wantField: "stock",
		},
		{
			name:      "too many images",
			mutate:    func(in *app.CreateProductInput) { in.Images = make([]string, 11) },
			wantField: "images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()

			var validation *domain.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if validation.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, validation.Field)
			}
		})
	}
}

func TestListProducts(t *testing.T) {
	t.Run("filters by featured flag", func(t *testing.T) {
		service, products := newService()
		now := time.Now().UTC()

		seed := []domain.Product{
			{ID: "p1", Slug: "midnight-oud", Name: "Midnight Oud", IsFeatured: true, CreatedAt: now},
			{ID: "p2", Slug: "amber-rose", Name: "Amber Rose", CreatedAt: now.Add(time.Second)},
		}
		for _, p := range seed {
			if err := products.Create(context.Background(), p); err != nil {
				t.Fatalf("seed product: %v", err)
			}
		}

		featured := true
		got, err := service.ListProducts(context.Background(), ports.ProductFilter{Featured: &featured})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(got) != 1 || got[0].Slug != "midnight-oud" {
			t.Errorf("expected only the featured product, got %+v", got)
		}
	})

	t.Run("searches name and description", func(t *testing.T) {
		service, products := newService()

		seed := []domain.Product{
			{ID: "p1", Slug: "midnight-oud", Name: "Midnight Oud", Description: "smoky oud"},
			{ID: "p2", Slug: "amber-rose", Name: "Amber Rose", Description: "a warm rose"},
		}
		for _, p := range seed {
			if err := products.Create(context.Background(), p); err != nil {
				t.Fatalf("seed product: %v", err)
			}
		}

		got, err := service.ListProducts(context.Background(), ports.ProductFilter{Search: "rose"})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(got) != 1 || got[0].Slug != "amber-rose" {
			t.Errorf("expected the rose product, got %+v", got)
		}
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("returns not found for unknown slug", func(t *testing.T) {
		service, _ := newService()

		_, err := service.GetProduct(context.Background(), "ghost")

		if !errors.Is(err, ports.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got: %v", err)
		}
	})
}
