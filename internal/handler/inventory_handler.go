package handler

import (
	"net/http"
	"strconv"

	"marine-backend/internal/middleware"
	"marine-backend/internal/model"
	"marine-backend/internal/printing"
	"marine-backend/internal/repository"
	"marine-backend/internal/service"
	"marine-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	supplierService  service.SupplierService
	renderer         *printing.Renderer
}

func NewInventoryHandler(
	inventoryService service.InventoryService,
	supplierService service.SupplierService,
	renderer *printing.Renderer,
) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		supplierService:  supplierService,
		renderer:         renderer,
	}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.POST("", middleware.RequirePermission(model.PermInventory), h.CreateProduct)
		products.GET("", middleware.RequirePermission(model.PermInventory), h.ListProducts)
		products.GET("/:id", middleware.RequirePermission(model.PermInventory), h.GetProduct)
		products.PUT("/:id", middleware.RequirePermission(model.PermInventory), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteProduct)
	}

	supply := router.Group("/api/supply")
	{
		supply.POST("", middleware.RequirePermission(model.PermInventory), h.ReceiveSupply)
		supply.GET("", middleware.RequirePermission(model.PermInventory), h.ListSupplyInvoices)
		supply.GET("/:id", middleware.RequirePermission(model.PermInventory), h.GetSupplyInvoice)
		supply.GET("/:id/print", middleware.RequirePermission(model.PermInventory), h.PrintSupplyInvoice)
	}

	suppliers := router.Group("/api/suppliers")
	{
		suppliers.POST("", middleware.RequirePermission(model.PermInventory), h.CreateSupplier)
		suppliers.GET("", middleware.RequirePermission(model.PermInventory), h.ListSuppliers)
		suppliers.GET("/:id", middleware.RequirePermission(model.PermInventory), h.GetSupplier)
		suppliers.PUT("/:id", middleware.RequirePermission(model.PermInventory), h.UpdateSupplier)
		suppliers.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteSupplier)
	}
}

// --- Products ---

// CreateProduct adds a product to the catalog
// @Summary      Create product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// ListProducts returns the paginated catalog
// @Summary      List products
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        search    query     string  false  "Match product name or code"
// @Param        category  query     string  false  "Filter by category"
// @Param        stock     query     string  false  "Stock filter (Low, Out)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.ProductListFilter{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		StockFilter: c.Query("stock"),
		Page:        page,
		Limit:       limit,
	}

	products, total, err := h.inventoryService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// GetProduct returns a single product by ID
// @Summary      Get product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// UpdateProduct edits a catalog product
// @Summary      Update product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product from the catalog
// @Summary      Delete product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// --- Supply intake ---

// ReceiveSupply records a supplier shipment
// @Summary      Receive supply
// @Description  Increments stock and overwrites product pricing from the shipment in one transaction
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SupplyIntakeRequest  true  "Supply Intake Payload"
// @Success      201      {object}  response.Response{data=service.SupplyInvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/supply [post]
func (h *InventoryHandler) ReceiveSupply(c *gin.Context) {
	var req service.SupplyIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.inventoryService.ReceiveSupply(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListSupplyInvoices returns the paginated supply archive
// @Summary      List supply invoices
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Match invoice number or supplier name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/supply [get]
func (h *InventoryHandler) ListSupplyInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	invoices, total, err := h.inventoryService.ListSupplyInvoices(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// GetSupplyInvoice returns one supply invoice by ID
// @Summary      Get supply invoice
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supply Invoice ID"
// @Success      200  {object}  response.Response{data=service.SupplyInvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/supply/{id} [get]
func (h *InventoryHandler) GetSupplyInvoice(c *gin.Context) {
	invoice, err := h.inventoryService.GetSupplyInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// PrintSupplyInvoice renders a supply invoice as printable A4 HTML
// @Summary      Print supply invoice
// @Tags         inventory
// @Security     BearerAuth
// @Produce      html
// @Param        id   path      string  true  "Supply Invoice ID"
// @Success      200  {string}  string  "HTML document"
// @Failure      404  {object}  response.Response
// @Router       /api/supply/{id}/print [get]
func (h *InventoryHandler) PrintSupplyInvoice(c *gin.Context) {
	invoice, err := h.inventoryService.GetSupplyInvoiceModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	doc, err := h.renderer.RenderSupplyInvoice(invoice, currentUserName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// --- Suppliers ---

// CreateSupplier adds a supplier
// @Summary      Create supplier
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierRequest  true  "Create Supplier Payload"
// @Success      201      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/suppliers [post]
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// ListSuppliers returns the paginated supplier list
// @Summary      List suppliers
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Match supplier name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/suppliers [get]
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	suppliers, total, err := h.supplierService.ListSuppliers(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"total":     total,
		"page":      page,
		"limit":     limit,
	}))
}

// GetSupplier returns one supplier by ID
// @Summary      Get supplier
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=service.SupplierResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/suppliers/{id} [get]
func (h *InventoryHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// UpdateSupplier edits a supplier
// @Summary      Update supplier
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Supplier ID"
// @Param        payload  body      service.UpdateSupplierRequest  true  "Update Supplier Payload"
// @Success      200      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/suppliers/{id} [put]
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// DeleteSupplier removes a supplier
// @Summary      Delete supplier
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/suppliers/{id} [delete]
func (h *InventoryHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
