package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/qr-order/internal/notifier"
	tabledomain "github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/auth"
	"github.com/tair/qr-order/pkg/logger"
	"github.com/tair/qr-order/pkg/response"
)

const defaultHeartbeat = 25 * time.Second

// TableFinder resolves the table a customer stream belongs to
type TableFinder interface {
	FindByID(ctx context.Context, id string) (*tabledomain.Table, error)
}

// EventHandler serves live updates as server-sent events
type EventHandler struct {
	hub       *notifier.Hub
	tables    TableFinder
	heartbeat time.Duration
}

// NewEventHandler creates a new event stream handler
func NewEventHandler(hub *notifier.Hub, tables TableFinder) *EventHandler {
	return &EventHandler{hub: hub, tables: tables, heartbeat: defaultHeartbeat}
}

// TableEvents handles GET /api/events/tables/{id}
func (h *EventHandler) TableEvents(w http.ResponseWriter, r *http.Request) {
	table, err := h.tables.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, r, err)
		return
	}
	h.stream(w, r, notifier.TableChannel(table.ID))
}

// StaffEvents handles GET /api/admin/events
func (h *EventHandler) StaffEvents(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, notifier.StaffChannel)
}

// Broadcast handles POST /api/admin/broadcast
func (h *EventHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		response.BadRequest(w, "message is required")
		return
	}

	data := map[string]interface{}{"kind": "announcement"}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		data["from"] = claims.UserID
	}
	delivered := h.hub.Publish(r.Context(), notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventStaffBroadcast,
		Message: req.Message,
		Data:    data,
	})

	logger.Info(r.Context()).
		Int("delivered", delivered).
		Msg("Staff broadcast sent")
	response.OK(w, http.StatusOK, "Broadcast sent", map[string]int{"delivered": delivered})
}

func (h *EventHandler) stream(w http.ResponseWriter, r *http.Request, channel string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.JSON(w, http.StatusInternalServerError, response.Response{Success: false, Error: "Streaming unsupported"})
		return
	}

	sub := h.hub.Subscribe(channel)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: 3000\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				logger.Debug(r.Context()).
					Err(err).
					Str("channel", channel).
					Msg("Event stream closed")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event notifier.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, payload)
	return err
}

// RegisterRoutes registers the customer table stream on public and the staff
// stream and broadcast on admin. admin must already enforce staff authentication.
func (h *EventHandler) RegisterRoutes(public, admin *mux.Router) {
	public.HandleFunc("/events/tables/{id}", h.TableEvents).Methods("GET")

	admin.HandleFunc("/events", h.StaffEvents).Methods("GET")
	admin.HandleFunc("/broadcast", auth.RequireRoles(h.Broadcast, auth.RoleOwner)).Methods("POST")
}
