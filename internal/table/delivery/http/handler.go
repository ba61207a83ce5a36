package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/table/usecase/command"
	"github.com/tair/qr-order/internal/table/usecase/query"
	"github.com/tair/qr-order/pkg/auth"
	"github.com/tair/qr-order/pkg/response"
)

// TableHandler handles HTTP requests for tables
type TableHandler struct {
	manager  *command.Manager
	getTable *query.GetTableHandler
	list     *query.ListTablesHandler
}

// NewTableHandler creates a new table handler
func NewTableHandler(manager *command.Manager, getTable *query.GetTableHandler, list *query.ListTablesHandler) *TableHandler {
	return &TableHandler{manager: manager, getTable: getTable, list: list}
}

// GetTable handles GET /api/tables/{id}
func (h *TableHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.getTable.Handle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", table)
}

// ListTables handles GET /api/admin/tables
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.list.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", tables)
}

// MergeTables handles POST /api/admin/tables/merge
func (h *TableHandler) MergeTables(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MainTableID string   `json:"main_table_id"`
		TableIDs    []string `json:"table_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	tables, err := h.manager.Merge(r.Context(), command.MergeCommand{
		MainTableID:    req.MainTableID,
		MemberTableIDs: req.TableIDs,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Tables merged successfully", tables)
}

// SplitTables handles POST /api/admin/tables/split
func (h *TableHandler) SplitTables(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableIDs []string `json:"table_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	tables, err := h.manager.Split(r.Context(), command.SplitCommand{TableIDs: req.TableIDs})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Tables split successfully", tables)
}

// RegisterRoutes registers table routes. admin must already enforce staff authentication.
func (h *TableHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/tables/{id}", h.GetTable).Methods("GET")

	admin.HandleFunc("/tables", h.ListTables).Methods("GET")
	admin.HandleFunc("/tables/merge", auth.RequireRoles(h.MergeTables, auth.RoleOwner)).Methods("POST")
	admin.HandleFunc("/tables/split", auth.RequireRoles(h.SplitTables, auth.RoleOwner)).Methods("POST")
}
