package http

// TableEvents godoc
// @Summary Table event stream
// @Description Server-sent events for one table: order-status-update. A comment line is sent every 25 seconds.
// @Tags Events
// @Produce text/event-stream
// @Param id path string true "Table ID"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/events/tables/{id} [get]
func (h *EventHandler) TableEventsDoc() {}

// StaffEvents godoc
// @Summary Staff event stream
// @Description Server-sent events for staff: new-order, order-updated and staff-broadcast. The token may be passed as ?token= (Staff)
// @Tags Events
// @Security BearerAuth
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/admin/events [get]
func (h *EventHandler) StaffEventsDoc() {}

// Broadcast godoc
// @Summary Broadcast to staff
// @Description Push a message to every connected staff client (Owner only)
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{message=string} true "Message"
// @Success 200 {object} object{success=bool,message=string,data=object{delivered=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/admin/broadcast [post]
func (h *EventHandler) BroadcastDoc() {}
