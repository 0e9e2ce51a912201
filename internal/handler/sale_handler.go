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
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService service.SaleService
	renderer    *printing.Renderer
}

func NewSaleHandler(saleService service.SaleService, renderer *printing.Renderer) *SaleHandler {
	return &SaleHandler{saleService: saleService, renderer: renderer}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	{
		sales.POST("", middleware.RequirePermission(model.PermSales), h.CreateSale)
		sales.GET("", middleware.RequirePermission(model.PermSales), h.ListSales)
		sales.GET("/:id", middleware.RequirePermission(model.PermSales), h.GetSale)
		sales.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteSale)
		sales.GET("/:id/print", middleware.RequirePermission(model.PermSales), h.PrintSale)
	}

	// Debt settlement lives under accounting, not sales
	debts := router.Group("/api/debts")
	{
		debts.POST("/pay", middleware.RequirePermission(model.PermAccounting), h.PayDebt)
	}
}

// CreateSale posts a new invoice to the sales ledger
// @Summary      Create sale
// @Description  Creates a sales invoice and decrements stock in one transaction
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSaleRequest  true  "Create Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// ListSales returns a paginated, filterable ledger listing
// @Summary      List sales
// @Description  Retrieves a paginated list of ledger invoices
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        search          query     string  false  "Match invoice number or customer name"
// @Param        invoice_type    query     string  false  "Filter by invoice type (Sale, Maintenance)"
// @Param        payment_method  query     string  false  "Filter by payment method"
// @Param        customer_id     query     string  false  "Filter by customer"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Items per page (default 20)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      500             {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.SaleListFilter{
		Search:        c.Query("search"),
		InvoiceType:   c.Query("invoice_type"),
		PaymentMethod: c.Query("payment_method"),
		Page:          page,
		Limit:         limit,
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		parsed, err := uuid.Parse(customerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid customer_id"))
			return
		}
		filter.CustomerID = &parsed
	}

	sales, total, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// GetSale returns a single invoice by ID
// @Summary      Get sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.SaleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// DeleteSale removes an invoice row from the ledger
// @Summary      Delete sale
// @Description  Removes the ledger row only; stock and balances are not compensated
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.saleService.DeleteSale(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// PrintSale renders the invoice as a printable A4 HTML document
// @Summary      Print sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      html
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {string}  string  "HTML document"
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id}/print [get]
func (h *SaleHandler) PrintSale(c *gin.Context) {
	sale, err := h.saleService.GetSaleModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	doc, err := h.renderer.RenderInvoice(sale, currentUserName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// PayDebt confirms a customer debt payment
// @Summary      Pay debt
// @Description  Moves the customer balance up and appends a payment receipt to the ledger
// @Tags         accounting
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DebtPaymentRequest  true  "Debt Payment Payload"
// @Success      201      {object}  response.Response{data=service.DebtPaymentResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/debts/pay [post]
func (h *SaleHandler) PayDebt(c *gin.Context) {
	var req service.DebtPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.saleService.PayDebt(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}
