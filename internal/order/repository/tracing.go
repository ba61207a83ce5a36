package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

var tracer = otel.Tracer("order-repository")

// TracingOrderRepository wraps GormOrderRepository with tracing
type TracingOrderRepository struct {
	*GormOrderRepository
}

// NewTracingOrderRepository creates a new repository with tracing
func NewTracingOrderRepository(db *gorm.DB) *TracingOrderRepository {
	return &TracingOrderRepository{
		GormOrderRepository: NewGormOrderRepository(db),
	}
}

// Create with tracing
func (r *TracingOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := tracer.Start(ctx, "repository.CreateOrder",
		trace.WithAttributes(
			attribute.String("order.table_id", order.TableID),
			attribute.Int("order.items", len(order.Items)),
			attribute.Int64("order.total_cents", order.TotalCents),
		),
	)
	defer span.End()

	if err := r.GormOrderRepository.Create(ctx, order); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	return nil
}

// FindByID with tracing
func (r *TracingOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "repository.FindOrder",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer span.End()

	order, err := r.GormOrderRepository.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	return order, nil
}

// UpdateStatusIf with tracing
func (r *TracingOrderRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.UpdateOrderStatus",
		trace.WithAttributes(
			attribute.String("order.id", id),
			attribute.String("order.status.from", string(from)),
			attribute.String("order.status.to", string(to)),
		),
	)
	defer span.End()

	changed, err := r.GormOrderRepository.UpdateStatusIf(ctx, id, from, to)
	if err != nil {
		recordError(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("order.status.changed", changed))
	return changed, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	if !apperr.IsClientError(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}
