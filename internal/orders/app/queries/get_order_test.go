package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/veloura/storefront/internal/orders/app/queries"
	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/ports"
)

type mockRepository struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Order, error)
}

func (m *mockRepository) PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ports.ErrOrderNotFound
}

func (m *mockRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return nil
}

func TestGetOrder(t *testing.T) {
	t.Run("returns order from repository", func(t *testing.T) {
		want := &domain.Order{ID: "order-1", Status: domain.StatusPending}
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
				if id != "order-1" {
					t.Errorf("expected lookup for order-1, got %s", id)
				}
				return want, nil
			},
		}
		handler := queries.NewGetOrderQueryHandler(repo)

		got, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "order-1"})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.ID != want.ID {
			t.Errorf("expected order %s, got %s", want.ID, got.ID)
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		handler := queries.NewGetOrderQueryHandler(&mockRepository{})

		_, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "missing"})

		if !errors.Is(err, ports.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got: %v", err)
		}
	})

	t.Run("rejects blank order id", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
				t.Fatal("repository must not be called for blank id")
				return nil, nil
			},
		}
		handler := queries.NewGetOrderQueryHandler(repo)

		_, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "   "})

		var validation *domain.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected ValidationError, got: %v", err)
		}
		if validation.Field != "orderId" {
			t.Errorf("expected orderId field, got %s", validation.Field)
		}
	})
}
