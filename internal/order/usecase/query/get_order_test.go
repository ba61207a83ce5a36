package query

import (
	"context"
	"errors"
	"testing"
	"time"

	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	inventoryrepo "github.com/tair/qr-order/internal/inventory/repository"
	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/internal/order/repository"
	"github.com/tair/qr-order/internal/storetest"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	tablerepo "github.com/tair/qr-order/internal/table/repository"
	"github.com/tair/qr-order/pkg/apperr"
)

func TestListOrders(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := repository.NewGormOrderRepository(db)
	products := inventoryrepo.NewGormProductRepository(db)
	tables := tablerepo.NewGormTableRepository(db)

	tbl := &tabledomain.Table{Name: "T1"}
	if err := tables.Create(ctx, tbl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	cat := &inventorydomain.Category{Name: "Coffee"}
	if err := products.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	p := &inventorydomain.Product{Name: "Espresso", PriceCents: 4500, Quantity: 10, Orderable: true, CategoryID: cat.ID}
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	statuses := []domain.Status{domain.StatusPending, domain.StatusReady, domain.StatusPending}
	var ids []string
	for i, s := range statuses {
		o := &domain.Order{
			TableID:    tbl.ID,
			Status:     s,
			TotalCents: 4500,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Items:      []domain.OrderItem{{Line: 1, ProductID: p.ID, Quantity: 1, PriceCents: 4500}},
		}
		if err := orders.Create(ctx, o); err != nil {
			t.Fatalf("create order: %v", err)
		}
		ids = append(ids, o.ID)
	}

	h := NewListOrdersHandler(orders)

	all, err := h.Handle(ctx, ListOrdersQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] {
		t.Fatalf("orders not newest first: %+v", all)
	}
	if all[0].Table == nil || len(all[0].Items) != 1 || all[0].Items[0].Product == nil {
		t.Errorf("details not loaded: %+v", all[0])
	}

	pending, err := h.Handle(ctx, ListOrdersQuery{Status: "pending"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2", len(pending))
	}

	limited, _ := h.Handle(ctx, ListOrdersQuery{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}

	if _, err := h.Handle(ctx, ListOrdersQuery{Status: "eaten"}); !errors.Is(err, apperr.ErrInvalidPayload) {
		t.Errorf("err = %v, want ErrInvalidPayload", err)
	}

	if _, err := NewGetOrderHandler(orders).Handle(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
