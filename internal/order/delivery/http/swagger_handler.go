package http

// CreateOrder godoc
// @Summary Place an order
// @Description Create an order for a table. Stock is reserved atomically; a short product is named with its available quantity.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body object{table_id=string,items=[]object{product_id=string,quantity=int}} true "Order data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string,data=object{product_id=string,product_name=string,available=int}}
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrderDoc() {}

// GetOrder godoc
// @Summary Get order
// @Description Order with its line items, for the customer status page
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/orders/{id} [get]
func (h *OrderHandler) GetOrderDoc() {}

// ListStatuses godoc
// @Summary List order statuses
// @Description Label, customer message, color hint, allowed next states and terminal flag per status
// @Tags Orders
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/order-statuses [get]
func (h *OrderHandler) ListStatusesDoc() {}

// ListOrders godoc
// @Summary List orders
// @Description Recent orders, newest first (Staff)
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param table_id query string false "Table filter"
// @Param limit query int false "At most 200"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/admin/orders [get]
func (h *OrderHandler) ListOrdersDoc() {}

// UpdateStatus godoc
// @Summary Update order status
// @Description Move an order along the status table. Serving or cancelling the last active order frees the table (Staff)
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body object{status=string} true "Next status"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatusDoc() {}
