package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/internal/inventory/repository"
	"github.com/tair/qr-order/internal/inventory/usecase/command"
	"github.com/tair/qr-order/internal/inventory/usecase/query"
	"github.com/tair/qr-order/internal/storetest"
	"github.com/tair/qr-order/pkg/auth"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T, role string) *mux.Router {
	t.Helper()
	repo := repository.NewGormProductRepository(storetest.NewDB(t))
	menuCache := cache.NopMenuCache{}

	h := NewInventoryHandler(
		command.NewCreateCategoryHandler(repo, menuCache),
		command.NewCreateProductHandler(repo, menuCache),
		command.NewUpdateProductHandler(repo, menuCache),
		command.NewSetStockHandler(repo, menuCache),
		command.NewAddStockHandler(repo, menuCache),
		query.NewGetMenuHandler(repo, menuCache),
		query.NewListProductsHandler(repo),
		query.NewStockAlertsHandler(repo),
		query.NewCheckAvailabilityHandler(repo),
	)

	router := mux.NewRouter()
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.ContextWithClaims(r.Context(), &auth.Claims{UserID: "u1", Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	h.RegisterRoutes(router.PathPrefix("/api").Subrouter(), admin)
	return router
}

func do(t *testing.T, router *mux.Router, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

// createProduct goes through the API and returns the new product id
func createProduct(t *testing.T, router *mux.Router, categoryID, name string, qty, minStock int) string {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"name":        name,
		"price_cents": 4500,
		"quantity":    qty,
		"min_stock":   minStock,
		"category_id": categoryID,
	})
	rec, env := do(t, router, http.MethodPost, "/api/admin/products", string(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var p domain.Product
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	return p.ID
}

func createCategory(t *testing.T, router *mux.Router, name string) string {
	t.Helper()
	rec, env := do(t, router, http.MethodPost, "/api/admin/categories", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var c domain.Category
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	return c.ID
}

func TestMenuHidesOutOfStock(t *testing.T) {
	router := newRouter(t, auth.RoleOwner)
	coffee := createCategory(t, router, "Coffee")
	createProduct(t, router, coffee, "Latte", 5, 1)
	createProduct(t, router, coffee, "Espresso", 0, 1)

	rec, env := do(t, router, http.MethodGet, "/api/menu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var menu []domain.MenuCategory
	if err := json.Unmarshal(env.Data, &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(menu) != 1 || len(menu[0].Products) != 1 || menu[0].Products[0].Name != "Latte" {
		t.Errorf("menu = %+v, want Coffee with only Latte", menu)
	}
}

func TestStockEndpoints(t *testing.T) {
	router := newRouter(t, auth.RoleOwner)
	coffee := createCategory(t, router, "Coffee")
	id := createProduct(t, router, coffee, "Espresso", 10, 3)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		wantQt int
	}{
		{"set", http.MethodPatch, "/api/admin/products/" + id + "/stock", `{"quantity":2}`, http.StatusOK, 2},
		{"set negative", http.MethodPatch, "/api/admin/products/" + id + "/stock", `{"quantity":-1}`, http.StatusBadRequest, 0},
		{"set missing quantity", http.MethodPatch, "/api/admin/products/" + id + "/stock", `{}`, http.StatusBadRequest, 0},
		{"add", http.MethodPost, "/api/admin/products/" + id + "/stock/add", `{"amount":5}`, http.StatusOK, 7},
		{"add zero", http.MethodPost, "/api/admin/products/" + id + "/stock/add", `{"amount":0}`, http.StatusBadRequest, 0},
		{"unknown product", http.MethodPatch, "/api/admin/products/nope/stock", `{"quantity":1}`, http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}
			var view struct {
				Quantity int `json:"quantity"`
			}
			if err := json.Unmarshal(env.Data, &view); err != nil {
				t.Fatalf("decode stock: %v", err)
			}
			if view.Quantity != tt.wantQt {
				t.Errorf("quantity = %d, want %d", view.Quantity, tt.wantQt)
			}
		})
	}
}

func TestStockAlertsAndAvailability(t *testing.T) {
	router := newRouter(t, auth.RoleOwner)
	desserts := createCategory(t, router, "Desserts")
	low := createProduct(t, router, desserts, "Cheesecake", 2, 3)
	createProduct(t, router, desserts, "Tiramisu", 20, 3)

	rec, env := do(t, router, http.MethodGet, "/api/admin/products/stock-alerts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("alerts status = %d", rec.Code)
	}
	var alerts []query.StockAlert
	if err := json.Unmarshal(env.Data, &alerts); err != nil {
		t.Fatalf("decode alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ProductID != low || alerts[0].Status != domain.StockLow {
		t.Errorf("alerts = %+v, want only Cheesecake low", alerts)
	}

	rec, env = do(t, router, http.MethodGet, "/api/admin/products/"+low+"/availability?quantity=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("availability status = %d", rec.Code)
	}
	var availability domain.Availability
	if err := json.Unmarshal(env.Data, &availability); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if availability.Available || availability.Current != 2 {
		t.Errorf("availability = %+v, want unavailable with 2 on hand", availability)
	}

	rec, _ = do(t, router, http.MethodGet, "/api/admin/products/"+low+"/availability?quantity=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad quantity status = %d, want 400", rec.Code)
	}
}

func TestCatalogueWritesRequireOwner(t *testing.T) {
	router := newRouter(t, auth.RoleKitchen)

	rec, _ := do(t, router, http.MethodPost, "/api/admin/categories", `{"name":"Coffee"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("create category status = %d, want 403", rec.Code)
	}
	rec, _ = do(t, router, http.MethodGet, "/api/admin/products", "")
	if rec.Code != http.StatusOK {
		t.Errorf("list products status = %d, want 200", rec.Code)
	}
}
