package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	inventoryrepo "github.com/tair/qr-order/internal/inventory/repository"
	inventoryquery "github.com/tair/qr-order/internal/inventory/usecase/query"
	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/internal/notifier/notifiertest"
	"github.com/tair/qr-order/internal/order/domain"
	orderrepo "github.com/tair/qr-order/internal/order/repository"
	"github.com/tair/qr-order/internal/storetest"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	tablerepo "github.com/tair/qr-order/internal/table/repository"
	tablecommand "github.com/tair/qr-order/internal/table/usecase/command"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
)

// memoryMenu keeps the last rendered menu in process
type memoryMenu struct {
	mu          sync.Mutex
	menu        []inventorydomain.MenuCategory
	invalidated int
}

func (m *memoryMenu) Get(context.Context) ([]inventorydomain.MenuCategory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.menu, m.menu != nil
}

func (m *memoryMenu) Set(_ context.Context, menu []inventorydomain.MenuCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu = menu
}

func (m *memoryMenu) Invalidate(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu = nil
	m.invalidated++
}

type env struct {
	db       *gorm.DB
	products *inventoryrepo.GormProductRepository
	orders   *orderrepo.GormOrderRepository
	tables   *tablerepo.GormTableRepository
	manager  *tablecommand.Manager
	tx       *database.Transactor
	recorder *notifiertest.Recorder
	menu     *memoryMenu

	create     *CreateOrderHandler
	transition *TransitionStatusHandler

	t1, t2                  string
	espresso, latte, hidden *inventorydomain.Product
}

func newEnv(t *testing.T, policy QuantityPolicy) *env {
	t.Helper()
	ctx := context.Background()
	db := storetest.NewDB(t)

	e := &env{
		db:       db,
		products: inventoryrepo.NewGormProductRepository(db),
		orders:   orderrepo.NewGormOrderRepository(db),
		tables:   tablerepo.NewGormTableRepository(db),
		tx:       database.NewTransactor(db, 0),
		recorder: &notifiertest.Recorder{},
		menu:     &memoryMenu{},
	}
	e.manager = tablecommand.NewManager(e.tables, e.orders, e.tx, e.recorder)
	e.create = NewCreateOrderHandler(e.orders, e.products, e.products, e.menu, e.tables, e.manager, e.tx, e.recorder, policy)
	e.transition = NewTransitionStatusHandler(e.orders, e.manager, e.tx, e.recorder)

	for _, name := range []string{"T1", "T2"} {
		tbl := &tabledomain.Table{Name: name}
		if err := e.tables.Create(ctx, tbl); err != nil {
			t.Fatalf("create table: %v", err)
		}
		if name == "T1" {
			e.t1 = tbl.ID
		} else {
			e.t2 = tbl.ID
		}
	}

	cat := &inventorydomain.Category{Name: "Coffee"}
	if err := e.products.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	e.espresso = &inventorydomain.Product{Name: "Espresso", PriceCents: 4500, Quantity: 50, MinStock: 10, Orderable: true, CategoryID: cat.ID}
	e.latte = &inventorydomain.Product{Name: "Latte", PriceCents: 5500, Quantity: 30, MinStock: 8, Orderable: true, CategoryID: cat.ID}
	e.hidden = &inventorydomain.Product{Name: "Seasonal", PriceCents: 6000, Quantity: 10, Orderable: false, CategoryID: cat.ID}
	for _, p := range []*inventorydomain.Product{e.espresso, e.latte, e.hidden} {
		if err := e.products.Create(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}
	return e
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p.Quantity
}

func (e *env) tableStatus(t *testing.T, id string) tabledomain.Status {
	t.Helper()
	tbl, err := e.tables.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find table: %v", err)
	}
	return tbl.Status
}

func (e *env) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&domain.Order{}).Count(&n).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return n
}

func TestCreateOrder(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()

	order, err := e.create.Handle(ctx, CreateOrderCommand{
		TableID: e.t1,
		Items:   []ItemRequest{{ProductID: e.espresso.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if order.TotalCents != 9000 {
		t.Errorf("total = %d, want 9000", order.TotalCents)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].PriceCents != 4500 || order.Items[0].Product == nil {
		t.Errorf("items = %+v", order.Items)
	}
	if got := e.tableStatus(t, e.t1); got != tabledomain.StatusOccupied {
		t.Errorf("table status = %s, want OCCUPIED", got)
	}
	if got := e.quantity(t, e.espresso.ID); got != 48 {
		t.Errorf("espresso quantity = %d, want 48", got)
	}

	events := e.recorder.OfType(notifier.EventNewOrder)
	if len(events) != 1 {
		t.Fatalf("new-order events = %d, want 1", len(events))
	}
	if events[0].Channel != notifier.StaffChannel || events[0].Event.OrderID != order.ID || events[0].Event.Message == "" {
		t.Errorf("new-order event = %+v", events[0])
	}
}

func TestCreateOrderRejections(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()

	tests := []struct {
		name    string
		cmd     CreateOrderCommand
		wantErr error
	}{
		{"empty items", CreateOrderCommand{TableID: e.t1}, apperr.ErrInvalidPayload},
		{"missing table id", CreateOrderCommand{Items: []ItemRequest{{ProductID: e.espresso.ID, Quantity: 1}}}, apperr.ErrInvalidPayload},
		{"missing product id", CreateOrderCommand{TableID: e.t1, Items: []ItemRequest{{Quantity: 1}}}, apperr.ErrInvalidPayload},
		{"unknown table", CreateOrderCommand{TableID: "nope", Items: []ItemRequest{{ProductID: e.espresso.ID, Quantity: 1}}}, apperr.ErrInvalidTable},
		{"unknown product", CreateOrderCommand{TableID: e.t1, Items: []ItemRequest{{ProductID: "nope", Quantity: 1}}}, apperr.ErrProductUnavailable},
		{"hidden product", CreateOrderCommand{TableID: e.t1, Items: []ItemRequest{{ProductID: e.hidden.ID, Quantity: 1}}}, apperr.ErrProductUnavailable},
		{"more than stock", CreateOrderCommand{TableID: e.t1, Items: []ItemRequest{{ProductID: e.latte.ID, Quantity: 31}}}, apperr.ErrInsufficientStock},
		{"same product split over lines", CreateOrderCommand{TableID: e.t1, Items: []ItemRequest{
			{ProductID: e.latte.ID, Quantity: 20},
			{ProductID: e.latte.ID, Quantity: 11},
		}}, apperr.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.create.Handle(ctx, tt.cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n := e.orderCount(t); n != 0 {
		t.Errorf("orders = %d after rejections, want 0", n)
	}
	if got := e.tableStatus(t, e.t1); got != tabledomain.StatusEmpty {
		t.Errorf("table status = %s, want EMPTY", got)
	}
	if got := e.quantity(t, e.latte.ID); got != 30 {
		t.Errorf("latte quantity = %d, want 30", got)
	}
	if len(e.recorder.Events()) != 0 {
		t.Errorf("events published for rejected orders: %+v", e.recorder.Events())
	}
}

func TestQuantityPolicy(t *testing.T) {
	tests := []struct {
		policy  QuantityPolicy
		qty     int
		wantQty int
		wantErr error
	}{
		{QuantityClamp, 0, 1, nil},
		{QuantityClamp, -4, 1, nil},
		{QuantityClamp, 3, 3, nil},
		{QuantityStrict, 0, 0, apperr.ErrInvalidPayload},
		{QuantityStrict, -1, 0, apperr.ErrInvalidPayload},
		{QuantityStrict, 2, 2, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.policy, tt.qty), func(t *testing.T) {
			e := newEnv(t, tt.policy)
			order, err := e.create.Handle(context.Background(), CreateOrderCommand{
				TableID: e.t1,
				Items:   []ItemRequest{{ProductID: e.espresso.ID, Quantity: tt.qty}},
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if order.Items[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", order.Items[0].Quantity, tt.wantQty)
			}
		})
	}

	if _, err := ParseQuantityPolicy("lenient"); err == nil {
		t.Error("ParseQuantityPolicy accepted an unknown policy")
	}
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()
	if _, err := e.products.SetQuantity(ctx, e.espresso.ID, 1); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, table := range []string{e.t1, e.t2} {
		wg.Add(1)
		go func(i int, table string) {
			defer wg.Done()
			_, errs[i] = e.create.Handle(ctx, CreateOrderCommand{
				TableID: table,
				Items:   []ItemRequest{{ProductID: e.espresso.ID, Quantity: 1}},
			})
		}(i, table)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var short *inventorydomain.InsufficientStockError
		if !errors.As(err, &short) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if short.ProductName != "Espresso" || short.Available != 0 {
			t.Errorf("shortage = %+v, want Espresso with 0 available", short)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}
	if got := e.quantity(t, e.espresso.ID); got != 0 {
		t.Errorf("espresso quantity = %d, want 0", got)
	}
	if n := e.orderCount(t); n != 1 {
		t.Errorf("orders = %d, want 1", n)
	}
}

// staleProducts reports more stock than there is, so the ledger is the one that refuses
type staleProducts struct {
	inventorydomain.ProductRepository
}

func (s staleProducts) FindByIDs(ctx context.Context, ids []string) ([]inventorydomain.Product, error) {
	products, err := s.ProductRepository.FindByIDs(ctx, ids)
	for i := range products {
		products[i].Quantity += 100
	}
	return products, err
}

func TestCreateOrderRollsBackOnLedgerShortage(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()
	h := NewCreateOrderHandler(e.orders, staleProducts{e.products}, e.products, e.menu, e.tables, e.manager, e.tx, e.recorder, QuantityClamp)

	_, err := h.Handle(ctx, CreateOrderCommand{
		TableID: e.t1,
		Items: []ItemRequest{
			{ProductID: e.espresso.ID, Quantity: 5},
			{ProductID: e.latte.ID, Quantity: 31},
		},
	})
	var short *inventorydomain.InsufficientStockError
	if !errors.As(err, &short) || short.ProductName != "Latte" || short.Available != 30 {
		t.Fatalf("err = %v, want Latte shortage with 30 available", err)
	}

	if n := e.orderCount(t); n != 0 {
		t.Errorf("orders = %d, want 0", n)
	}
	var items int64
	e.db.Model(&domain.OrderItem{}).Count(&items)
	if items != 0 {
		t.Errorf("order items = %d, want 0", items)
	}
	if got := e.quantity(t, e.espresso.ID); got != 50 {
		t.Errorf("espresso quantity = %d, want 50", got)
	}
	if got := e.tableStatus(t, e.t1); got != tabledomain.StatusEmpty {
		t.Errorf("table status = %s, want EMPTY", got)
	}
}

func TestOrderTotalIgnoresLaterPriceChange(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()

	order, err := e.create.Handle(ctx, CreateOrderCommand{
		TableID: e.t1,
		Items: []ItemRequest{
			{ProductID: e.espresso.ID, Quantity: 1},
			{ProductID: e.latte.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if order.TotalCents != order.ItemsTotal() || order.TotalCents != 4500+2*5500 {
		t.Fatalf("total = %d, items total = %d", order.TotalCents, order.ItemsTotal())
	}

	changed := *e.latte
	changed.PriceCents = 9900
	if err := e.products.Update(ctx, &changed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := e.orders.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.TotalCents != 15500 || reloaded.ItemsTotal() != 15500 {
		t.Errorf("total after price change = %d (items %d), want 15500", reloaded.TotalCents, reloaded.ItemsTotal())
	}
	if reloaded.Items[1].PriceCents != 5500 {
		t.Errorf("latte line price = %d, want 5500", reloaded.Items[1].PriceCents)
	}
}

func TestCreateOrderAnnouncesLowStock(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()

	if _, err := e.create.Handle(ctx, CreateOrderCommand{
		TableID: e.t1,
		Items:   []ItemRequest{{ProductID: e.latte.ID, Quantity: 22}},
	}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	alerts := e.recorder.OfType(notifier.EventStaffBroadcast)
	if len(alerts) != 1 {
		t.Fatalf("stock alerts = %d, want 1", len(alerts))
	}
	data, ok := alerts[0].Event.Data.(map[string]interface{})
	if !ok || data["kind"] != "stock-alert" {
		t.Errorf("alert data = %#v", alerts[0].Event.Data)
	}
}

func TestCommandFromCart(t *testing.T) {
	cart := domain.NewCart("t1")
	cart.Add("espresso", "Espresso", 2)
	cart.Add("latte", "Latte", 1)

	cmd := CommandFromCart(cart)
	if cmd.TableID != "t1" || len(cmd.Items) != 2 || cmd.Items[0].Quantity != 2 {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestCreateOrderRefreshesMenu(t *testing.T) {
	e := newEnv(t, QuantityClamp)
	ctx := context.Background()
	if _, err := e.products.SetQuantity(ctx, e.espresso.ID, 1); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	menu := inventoryquery.NewGetMenuHandler(e.products, e.menu)

	onMenu := func() (int, bool) {
		t.Helper()
		categories, err := menu.Handle(ctx)
		if err != nil {
			t.Fatalf("load menu: %v", err)
		}
		for _, c := range categories {
			for _, p := range c.Products {
				if p.ID == e.espresso.ID {
					return p.Quantity, true
				}
			}
		}
		return 0, false
	}

	if qty, ok := onMenu(); !ok || qty != 1 {
		t.Fatalf("espresso on menu = %v with quantity %d, want listed with 1", ok, qty)
	}

	if _, err := e.create.Handle(ctx, CreateOrderCommand{
		TableID: e.t1,
		Items:   []ItemRequest{{ProductID: e.espresso.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if qty, ok := onMenu(); ok {
		t.Errorf("sold-out espresso still on menu with quantity %d", qty)
	}
	if e.menu.invalidated != 1 {
		t.Errorf("menu invalidations = %d, want 1", e.menu.invalidated)
	}
}
