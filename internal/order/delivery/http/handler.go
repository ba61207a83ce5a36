package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/order/domain"
	"github.com/tair/qr-order/internal/order/usecase/command"
	"github.com/tair/qr-order/internal/order/usecase/query"
	"github.com/tair/qr-order/pkg/response"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	create     *command.CreateOrderHandler
	transition *command.TransitionStatusHandler
	getOrder   *query.GetOrderHandler
	listOrders *query.ListOrdersHandler
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	create *command.CreateOrderHandler,
	transition *command.TransitionStatusHandler,
	getOrder *query.GetOrderHandler,
	listOrders *query.ListOrdersHandler,
) *OrderHandler {
	return &OrderHandler{
		create:     create,
		transition: transition,
		getOrder:   getOrder,
		listOrders: listOrders,
	}
}

type orderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

type createOrderRequest struct {
	TableID string             `json:"table_id"`
	Items   []orderItemRequest `json:"items"`
}

// parseQuantity accepts a JSON number or a numeric string, dropping any
// fraction. Anything else is reported as 0 and left to the quantity policy.
func parseQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(math.Trunc(f))
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	cmd := command.CreateOrderCommand{TableID: req.TableID}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  parseQuantity(item.Quantity),
		})
	}

	order, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Order created successfully", order)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.getOrder.Handle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", order)
}

// ListOrders handles GET /api/admin/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := query.ListOrdersQuery{
		Status:  r.URL.Query().Get("status"),
		TableID: r.URL.Query().Get("table_id"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		q.Limit = limit
	}

	orders, err := h.listOrders.Handle(r.Context(), q)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", orders)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.transition.Handle(r.Context(), command.TransitionStatusCommand{
		OrderID: mux.Vars(r)["id"],
		Status:  req.Status,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Order status updated", order)
}

// ListStatuses handles GET /api/order-statuses
func (h *OrderHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	response.OK(w, http.StatusOK, "", domain.Statuses())
}

// RegisterRoutes registers customer order routes on public and the staff order
// board on admin. admin must already enforce staff authentication.
func (h *OrderHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	public.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	public.HandleFunc("/order-statuses", h.ListStatuses).Methods("GET")

	admin.HandleFunc("/orders", h.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", h.UpdateStatus).Methods("PATCH")
}
