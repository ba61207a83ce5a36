package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

var tracer = otel.Tracer("table-repository")

// TracingTableRepository wraps GormTableRepository with tracing
type TracingTableRepository struct {
	*GormTableRepository
}

// NewTracingTableRepository creates a new repository with tracing
func NewTracingTableRepository(db *gorm.DB) *TracingTableRepository {
	return &TracingTableRepository{
		GormTableRepository: NewGormTableRepository(db),
	}
}

// FindByID with tracing
func (r *TracingTableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	ctx, span := tracer.Start(ctx, "repository.FindTable",
		trace.WithAttributes(attribute.String("table.id", id)),
	)
	defer span.End()

	table, err := r.GormTableRepository.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("table.status", string(table.Status)))
	return table, nil
}

// LockByID with tracing
func (r *TracingTableRepository) LockByID(ctx context.Context, id string) (*domain.Table, error) {
	ctx, span := tracer.Start(ctx, "repository.LockTable",
		trace.WithAttributes(attribute.String("table.id", id)),
	)
	defer span.End()

	table, err := r.GormTableRepository.LockByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return table, nil
}

// UpdateStatusIf with tracing
func (r *TracingTableRepository) UpdateStatusIf(ctx context.Context, id string, status domain.Status, from ...domain.Status) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.UpdateTableStatus",
		trace.WithAttributes(
			attribute.String("table.id", id),
			attribute.String("table.status", string(status)),
		),
	)
	defer span.End()

	changed, err := r.GormTableRepository.UpdateStatusIf(ctx, id, status, from...)
	if err != nil {
		recordError(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("table.changed", changed))
	return changed, nil
}

// SetState with tracing
func (r *TracingTableRepository) SetState(ctx context.Context, id string, status domain.Status, mergedInto *string) error {
	attrs := []attribute.KeyValue{
		attribute.String("table.id", id),
		attribute.String("table.status", string(status)),
	}
	if mergedInto != nil {
		attrs = append(attrs, attribute.String("table.merged_into", *mergedInto))
	}
	ctx, span := tracer.Start(ctx, "repository.SetTableState", trace.WithAttributes(attrs...))
	defer span.End()

	if err := r.GormTableRepository.SetState(ctx, id, status, mergedInto); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	if !apperr.IsClientError(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}
