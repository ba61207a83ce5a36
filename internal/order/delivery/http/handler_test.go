package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/inventory/cache"
	inventorydomain "github.com/tair/qr-order/internal/inventory/domain"
	inventoryrepo "github.com/tair/qr-order/internal/inventory/repository"
	"github.com/tair/qr-order/internal/notifier/notifiertest"
	"github.com/tair/qr-order/internal/order/repository"
	"github.com/tair/qr-order/internal/order/usecase/command"
	"github.com/tair/qr-order/internal/order/usecase/query"
	"github.com/tair/qr-order/internal/storetest"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	tablerepo "github.com/tair/qr-order/internal/table/repository"
	tablecommand "github.com/tair/qr-order/internal/table/usecase/command"
	"github.com/tair/qr-order/pkg/database"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fixture struct {
	router   *mux.Router
	tableID  string
	espresso string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := storetest.NewDB(t)

	products := inventoryrepo.NewGormProductRepository(db)
	orders := repository.NewGormOrderRepository(db)
	tables := tablerepo.NewGormTableRepository(db)
	tx := database.NewTransactor(db, 0)
	recorder := &notifiertest.Recorder{}
	manager := tablecommand.NewManager(tables, orders, tx, recorder)

	h := NewOrderHandler(
		command.NewCreateOrderHandler(orders, products, products, cache.NopMenuCache{}, tables, manager, tx, recorder, command.QuantityClamp),
		command.NewTransitionStatusHandler(orders, manager, tx, recorder),
		query.NewGetOrderHandler(orders),
		query.NewListOrdersHandler(orders),
	)

	tbl := &tabledomain.Table{Name: "T1"}
	if err := tables.Create(ctx, tbl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	cat := &inventorydomain.Category{Name: "Coffee"}
	if err := products.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	p := &inventorydomain.Product{Name: "Espresso", PriceCents: 4500, Quantity: 3, Orderable: true, CategoryID: cat.ID}
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}

	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api").Subrouter(), router.PathPrefix("/api/admin").Subrouter())
	return fixture{router: router, tableID: tbl.ID, espresso: p.ID}
}

func (f fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`"2"`, 2},
		{`" 4 "`, 4},
		{`"two"`, 0},
		{`1.5`, 1},
		{`2.0`, 2},
		{`"2.5"`, 2},
		{`-1.5`, -1},
		{`1e12`, 0},
		{`"NaN"`, 0},
		{`true`, 0},
		{`null`, 0},
		{``, 0},
		{`-1`, -1},
	}
	for _, tt := range tests {
		if got := parseQuantity(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("parseQuantity(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCreateAndFetchOrder(t *testing.T) {
	f := newFixture(t)

	body := `{"table_id":"` + f.tableID + `","items":[{"product_id":"` + f.espresso + `","quantity":"2"}]}`
	rec, env := f.do(t, http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID         string `json:"id"`
		TotalCents int64  `json:"total_cents"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if created.TotalCents != 9000 || created.Status != "PENDING" {
		t.Errorf("order = %+v, want total 9000 PENDING", created)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/orders/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodPatch, "/api/admin/orders/"+created.ID+"/status", `{"status":"READY"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("skip transition status = %d, want 409", rec.Code)
	}
	rec, _ = f.do(t, http.MethodPatch, "/api/admin/orders/"+created.ID+"/status", `{"status":"confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("confirm status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"no items", `{"table_id":"` + f.tableID + `","items":[]}`, http.StatusBadRequest},
		{"unknown table", `{"table_id":"nope","items":[{"product_id":"` + f.espresso + `","quantity":1}]}`, http.StatusNotFound},
		{"unknown product", `{"table_id":"` + f.tableID + `","items":[{"product_id":"nope","quantity":1}]}`, http.StatusBadRequest},
		{"too many", `{"table_id":"` + f.tableID + `","items":[{"product_id":"` + f.espresso + `","quantity":5}]}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := f.do(t, http.MethodPost, "/api/orders", tt.body)
			if rec.Code != tt.want || env.Success {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestInsufficientStockNamesProduct(t *testing.T) {
	f := newFixture(t)

	body := `{"table_id":"` + f.tableID + `","items":[{"product_id":"` + f.espresso + `","quantity":4}]}`
	rec, env := f.do(t, http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var details struct {
		ProductName string `json:"product_name"`
		Available   int    `json:"available"`
	}
	if err := json.Unmarshal(env.Data, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.ProductName != "Espresso" || details.Available != 3 {
		t.Errorf("details = %+v, want Espresso with 3 available", details)
	}
}

func TestListOrdersAndStatuses(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/admin/orders?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
	rec, _ = f.do(t, http.MethodGet, "/api/admin/orders?status=pending", "")
	if rec.Code != http.StatusOK {
		t.Errorf("list status = %d, want 200", rec.Code)
	}

	rec, env := f.do(t, http.MethodGet, "/api/order-statuses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("statuses status = %d", rec.Code)
	}
	var statuses []json.RawMessage
	if err := json.Unmarshal(env.Data, &statuses); err != nil {
		t.Fatalf("decode statuses: %v", err)
	}
	if len(statuses) != 6 {
		t.Errorf("statuses = %d, want 6", len(statuses))
	}
}

func TestCreateOrderTruncatesFractionalQuantity(t *testing.T) {
	f := newFixture(t)

	body := `{"table_id":"` + f.tableID + `","items":[{"product_id":"` + f.espresso + `","quantity":"2.5"}]}`
	rec, env := f.do(t, http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created struct {
		TotalCents int64 `json:"total_cents"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if created.TotalCents != 9000 {
		t.Errorf("total = %d, want 9000 for two units", created.TotalCents)
	}
}
