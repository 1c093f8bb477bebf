package app

import (
	"context"
	"log/slog"

	"github.com/veloura/storefront/internal/orders/app/commands"
	"github.com/veloura/storefront/internal/orders/app/queries"
	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/metrics"
	"github.com/veloura/storefront/internal/orders/ports"
)

// Service bundles use cases for handling orders via the API.
type Service struct {
	repo              ports.OrderRepository
	events            ports.EventBus
	idemStore         ports.IdempotencyStore
	logger            *slog.Logger
	placeOrderHandler commands.CommandHandler
	getOrderHandler   *queries.GetOrderQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewPlaceOrderCommandHandler(repo, events)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		repo:              repo,
		events:            events,
		idemStore:         idem,
		logger:            logger,
		placeOrderHandler: observableHandler,
		getOrderHandler:   queries.NewGetOrderQueryHandler(repo),
	}
}

// OrderLineInput captures a single requested line in an order payload.
type OrderLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderInput captures the payload for creating an order.
type PlaceOrderInput struct {
	Items         []OrderLineInput `json:"items"`
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	Address       domain.Address   `json:"address"`
	UserID        string           `json:"userId,omitempty"`
}

// PlaceOrder orchestrates validation, the inventory-safe transaction, and
// event emission.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	items := make([]commands.OrderLineRequest, len(input.Items))
	for i, line := range input.Items {
		items[i] = commands.OrderLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	cmd := commands.PlaceOrderCommand{
		Items:         items,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Address:       input.Address,
		UserID:        input.UserID,
	}
	return s.placeOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// UpdateOrderStatus applies an administrative status transition after checking
// the lifecycle rules. Status transitions are the only post-creation mutation.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, domain.NewValidationError("status", "unknown order status")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	if err := s.events.PublishOrderStatusChanged(ctx, id, string(next)); err != nil {
		// The transition committed; the event is best effort.
		s.logger.WarnContext(ctx, "failed to publish status change event", "order_id", id, "error", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
