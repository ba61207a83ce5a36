package http

// GetMenu godoc
// @Summary Get the menu
// @Description Categories by name with their orderable, in-stock products
// @Tags Menu
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/menu [get]
func (h *InventoryHandler) GetMenuDoc() {}

// ListProducts godoc
// @Summary List all products
// @Description Full catalogue including hidden and out-of-stock products (Staff)
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/admin/products [get]
func (h *InventoryHandler) ListProductsDoc() {}

// CreateProduct godoc
// @Summary Create product
// @Description Create a new product (Owner only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,price_cents=int,quantity=int,min_stock=int,category_id=string,orderable=bool} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/admin/products [post]
func (h *InventoryHandler) CreateProductDoc() {}

// UpdateProduct godoc
// @Summary Update product
// @Description Partial update of name, price, minimum stock, category or visibility (Owner only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{name=string,price_cents=int,min_stock=int,category_id=string,orderable=bool} true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/admin/products/{id} [patch]
func (h *InventoryHandler) UpdateProductDoc() {}

// SetStock godoc
// @Summary Set stock
// @Description Override the on-hand quantity (Owner only)
// @Tags Stock
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/admin/products/{id}/stock [patch]
func (h *InventoryHandler) SetStockDoc() {}

// AddStock godoc
// @Summary Restock
// @Description Add a positive amount to the on-hand quantity (Owner only)
// @Tags Stock
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{amount=int} true "Amount to add"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/admin/products/{id}/stock/add [post]
func (h *InventoryHandler) AddStockDoc() {}

// StockAlerts godoc
// @Summary Stock alerts
// @Description Products at or below their minimum stock (Staff)
// @Tags Stock
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/admin/products/stock-alerts [get]
func (h *InventoryHandler) StockAlertsDoc() {}

// CheckAvailability godoc
// @Summary Check product availability
// @Description Check if a product is available in the requested quantity (Staff)
// @Tags Stock
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity query int false "Requested quantity (default: 1)"
// @Success 200 {object} object{success=bool,data=object{product_id=string,name=string,requested=int,current=int,available=bool,status=string}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/admin/products/{id}/availability [get]
func (h *InventoryHandler) CheckAvailabilityDoc() {}

// CreateCategory godoc
// @Summary Create category
// @Description Create a menu category (Owner only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string} true "Category name"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/admin/categories [post]
func (h *InventoryHandler) CreateCategoryDoc() {}
