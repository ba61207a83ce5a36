package http

// GetTable godoc
// @Summary Get table
// @Description Table behind a scanned QR code
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/tables/{id} [get]
func (h *TableHandler) GetTableDoc() {}

// ListTables godoc
// @Summary List tables
// @Description Every table with its occupancy and merge target (Staff)
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/admin/tables [get]
func (h *TableHandler) ListTablesDoc() {}

// MergeTables godoc
// @Summary Merge tables
// @Description Group tables under a main table (Owner only)
// @Tags Tables
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{main_table_id=string,table_ids=[]string} true "Main table and members"
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/admin/tables/merge [post]
func (h *TableHandler) MergeTablesDoc() {}

// SplitTables godoc
// @Summary Split tables
// @Description Reset the listed tables to EMPTY (Owner only)
// @Tags Tables
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{table_ids=[]string} true "Tables to reset"
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/admin/tables/split [post]
func (h *TableHandler) SplitTablesDoc() {}
