package repository

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/qr-order/internal/storetest"
	"github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
)

func TestTracingTableRepositorySpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := context.Background()
	repo := NewTracingTableRepository(storetest.NewDB(t))
	tbl := &domain.Table{Name: "T1"}
	if err := repo.Create(ctx, tbl); err != nil {
		t.Fatalf("create table: %v", err)
	}

	if _, err := repo.FindByID(ctx, tbl.ID); err != nil {
		t.Fatalf("find: %v", err)
	}
	if changed, err := repo.UpdateStatusIf(ctx, tbl.ID, domain.StatusOccupied, domain.StatusEmpty); err != nil || !changed {
		t.Fatalf("update status = %v, %v", changed, err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("find missing err = %v, want ErrNotFound", err)
	}

	spans := recorder.Ended()
	want := []string{"repository.FindTable", "repository.UpdateTableStatus", "repository.FindTable"}
	if len(spans) != len(want) {
		t.Fatalf("spans = %d, want %d", len(spans), len(want))
	}
	for i, name := range want {
		if spans[i].Name() != name {
			t.Errorf("span %d = %s, want %s", i, spans[i].Name(), name)
		}
	}

	// a missing table is the caller's problem, not a failed span
	last := spans[2]
	if len(last.Events()) == 0 {
		t.Error("missing table error not recorded on span")
	}
	if last.Status().Code == codes.Error {
		t.Error("not found marked the span as failed")
	}
}
