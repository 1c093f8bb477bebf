package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/veloura/storefront/internal/database"
	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/metrics"
	"github.com/veloura/storefront/internal/orders/ports"
	"github.com/veloura/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableRepository struct {
	repo         ports.OrderRepository
	dbMetrics    *database.Metrics
	orderMetrics *metrics.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, dbMetrics *database.Metrics, orderMetrics *metrics.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:         repo,
		dbMetrics:    dbMetrics,
		orderMetrics: orderMetrics,
	}
}

func (r *ObservableRepository) PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.PlaceOrder")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int("order.line_count", len(order.Items)),
		attribute.String("operation", "place_order"),
	)

	start := time.Now()
	placed, err := r.repo.PlaceOrder(ctx, order)
	duration := time.Since(start).Seconds()

	r.dbMetrics.RecordQuery(ctx, "place_order", duration)

	if err != nil {
		r.recordConflict(ctx, err)
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.total_cents", placed.TotalCents),
	)
	telemetry.SetSpanSuccess(span)
	return placed, nil
}

func (r *ObservableRepository) recordConflict(ctx context.Context, err error) {
	var insufficient *ports.InsufficientStockError
	if errors.As(err, &insufficient) {
		r.orderMetrics.RecordStockConflict(ctx, insufficient.ProductID, "insufficient_stock")
		return
	}

	var concurrent *ports.ConcurrentModificationError
	if errors.As(err, &concurrent) {
		r.orderMetrics.RecordStockConflict(ctx, concurrent.ProductID, "concurrent_modification")
	}
}

func (r *ObservableRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "get_by_id"),
	)

	start := time.Now()
	order, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.dbMetrics.RecordQuery(ctx, "get_order_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.List")
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("operation", "list"),
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	}
	if filter.Status != nil {
		attrs = append(attrs, attribute.String("status", string(*filter.Status)))
	}
	telemetry.AddSpanAttributes(span, attrs...)

	start := time.Now()
	orders, err := r.repo.List(ctx, filter)
	duration := time.Since(start).Seconds()

	r.dbMetrics.RecordQuery(ctx, "list_orders", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (r *ObservableRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
		attribute.String("operation", "update_status"),
	)

	start := time.Now()
	err := r.repo.UpdateStatus(ctx, id, status)
	duration := time.Since(start).Seconds()

	r.dbMetrics.RecordQuery(ctx, "update_order_status", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
