package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/inventory/usecase/command"
	"github.com/tair/qr-order/internal/inventory/usecase/query"
	"github.com/tair/qr-order/pkg/auth"
	"github.com/tair/qr-order/pkg/response"
)

// InventoryHandler handles HTTP requests for the menu, catalogue and stock
type InventoryHandler struct {
	createCategory *command.CreateCategoryHandler
	createProduct  *command.CreateProductHandler
	updateProduct  *command.UpdateProductHandler
	setStock       *command.SetStockHandler
	addStock       *command.AddStockHandler
	getMenu        *query.GetMenuHandler
	listProducts   *query.ListProductsHandler
	stockAlerts    *query.StockAlertsHandler
	availability   *query.CheckAvailabilityHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	createCategory *command.CreateCategoryHandler,
	createProduct *command.CreateProductHandler,
	updateProduct *command.UpdateProductHandler,
	setStock *command.SetStockHandler,
	addStock *command.AddStockHandler,
	getMenu *query.GetMenuHandler,
	listProducts *query.ListProductsHandler,
	stockAlerts *query.StockAlertsHandler,
	availability *query.CheckAvailabilityHandler,
) *InventoryHandler {
	return &InventoryHandler{
		createCategory: createCategory,
		createProduct:  createProduct,
		updateProduct:  updateProduct,
		setStock:       setStock,
		addStock:       addStock,
		getMenu:        getMenu,
		listProducts:   listProducts,
		stockAlerts:    stockAlerts,
		availability:   availability,
	}
}

// GetMenu handles GET /api/menu
func (h *InventoryHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.getMenu.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", menu)
}

// ListProducts handles GET /api/admin/products
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProducts.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", products)
}

// CreateCategory handles POST /api/admin/categories
func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	category, err := h.createCategory.Handle(r.Context(), command.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Category created successfully", category)
}

// CreateProduct handles POST /api/admin/products
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		PriceCents int64  `json:"price_cents"`
		Quantity   int    `json:"quantity"`
		MinStock   int    `json:"min_stock"`
		CategoryID string `json:"category_id"`
		Orderable  *bool  `json:"orderable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	product, err := h.createProduct.Handle(r.Context(), command.CreateProductCommand{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
		MinStock:   req.MinStock,
		CategoryID: req.CategoryID,
		Orderable:  req.Orderable,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct handles PATCH /api/admin/products/{id}
func (h *InventoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       *string `json:"name"`
		PriceCents *int64  `json:"price_cents"`
		MinStock   *int    `json:"min_stock"`
		CategoryID *string `json:"category_id"`
		Orderable  *bool   `json:"orderable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	product, err := h.updateProduct.Handle(r.Context(), command.UpdateProductCommand{
		ID:         mux.Vars(r)["id"],
		Name:       req.Name,
		PriceCents: req.PriceCents,
		MinStock:   req.MinStock,
		CategoryID: req.CategoryID,
		Orderable:  req.Orderable,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Product updated successfully", product)
}

// SetStock handles PATCH /api/admin/products/{id}/stock
func (h *InventoryHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		response.BadRequest(w, "quantity is required")
		return
	}

	product, err := h.setStock.Handle(r.Context(), command.SetStockCommand{
		ProductID: mux.Vars(r)["id"],
		Quantity:  *req.Quantity,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Stock updated successfully", stockView(product.ID, product.Name, product.Quantity, product.MinStock, product.StockStatus()))
}

// AddStock handles POST /api/admin/products/{id}/stock/add
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	product, err := h.addStock.Handle(r.Context(), command.AddStockCommand{
		ProductID: mux.Vars(r)["id"],
		Amount:    req.Amount,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Stock added successfully", stockView(product.ID, product.Name, product.Quantity, product.MinStock, product.StockStatus()))
}

// StockAlerts handles GET /api/admin/products/stock-alerts
func (h *InventoryHandler) StockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.stockAlerts.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", alerts)
}

// CheckAvailability handles GET /api/admin/products/{id}/availability
func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid quantity")
			return
		}
		qty = n
	}

	availability, err := h.availability.Handle(r.Context(), query.CheckAvailabilityQuery{
		ProductID: mux.Vars(r)["id"],
		Quantity:  qty,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", availability)
}

func stockView(id, name string, quantity, minStock int, status string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"quantity":  quantity,
		"min_stock": minStock,
		"status":    status,
	}
}

// RegisterRoutes registers the public menu route and the staff catalogue routes.
// admin must already enforce staff authentication.
func (h *InventoryHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/menu", h.GetMenu).Methods("GET")

	admin.HandleFunc("/products", h.ListProducts).Methods("GET")
	admin.HandleFunc("/products", auth.RequireRoles(h.CreateProduct, auth.RoleOwner)).Methods("POST")
	admin.HandleFunc("/products/stock-alerts", h.StockAlerts).Methods("GET")
	admin.HandleFunc("/products/{id}", auth.RequireRoles(h.UpdateProduct, auth.RoleOwner)).Methods("PATCH")
	admin.HandleFunc("/products/{id}/stock", auth.RequireRoles(h.SetStock, auth.RoleOwner)).Methods("PATCH")
	admin.HandleFunc("/products/{id}/stock/add", auth.RequireRoles(h.AddStock, auth.RoleOwner)).Methods("POST")
	admin.HandleFunc("/products/{id}/availability", h.CheckAvailability).Methods("GET")
	admin.HandleFunc("/categories", auth.RequireRoles(h.CreateCategory, auth.RoleOwner)).Methods("POST")
}
