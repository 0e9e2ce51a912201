package handler

import (
	"net/http"
	"time"

	"marine-backend/internal/middleware"
	"marine-backend/internal/model"
	"marine-backend/internal/printing"
	"marine-backend/internal/service"
	"marine-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	renderer      *printing.Renderer
}

func NewReportHandler(reportService service.ReportService, renderer *printing.Renderer) *ReportHandler {
	return &ReportHandler{reportService: reportService, renderer: renderer}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/daily", middleware.RequirePermission(model.PermReports), h.Daily)
		reports.GET("/daily/print", middleware.RequirePermission(model.PermReports), h.PrintDaily)
		reports.GET("/inventory", middleware.RequirePermission(model.PermReports), h.Inventory)
		reports.GET("/inventory/print", middleware.RequirePermission(model.PermReports), h.PrintInventory)
		reports.GET("/debts", middleware.RequirePermission(model.PermReports), h.Debts)
		reports.GET("/maintenance", middleware.RequirePermission(model.PermReports), h.Maintenance)
	}

	dashboard := router.Group("/api/dashboard")
	{
		dashboard.GET("", middleware.RequirePermission(model.PermDashboard), h.Dashboard)
	}
}

// Daily returns one calendar day's ledger summary
// @Summary      Daily report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Report day (2006-01-02, default today)"
// @Success      200   {object}  response.Response{data=service.DailyReport}
// @Failure      400   {object}  response.Response
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	day, ok := h.reportDay(c)
	if !ok {
		return
	}

	report, err := h.reportService.Daily(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// PrintDaily renders the daily report as printable A4 HTML
// @Summary      Print daily report
// @Tags         reports
// @Security     BearerAuth
// @Produce      html
// @Param        date  query     string  false  "Report day (2006-01-02, default today)"
// @Success      200   {string}  string  "HTML document"
// @Failure      400   {object}  response.Response
// @Router       /api/reports/daily/print [get]
func (h *ReportHandler) PrintDaily(c *gin.Context) {
	day, ok := h.reportDay(c)
	if !ok {
		return
	}

	report, err := h.reportService.Daily(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	doc, err := h.renderer.RenderDailyReport(report, currentUserName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// Inventory returns the stock position report
// @Summary      Inventory report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.InventoryReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	report, err := h.reportService.Inventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// PrintInventory renders the inventory report as printable A4 HTML
// @Summary      Print inventory report
// @Tags         reports
// @Security     BearerAuth
// @Produce      html
// @Success      200  {string}  string  "HTML document"
// @Failure      500  {object}  response.Response
// @Router       /api/reports/inventory/print [get]
func (h *ReportHandler) PrintInventory(c *gin.Context) {
	report, err := h.reportService.Inventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	doc, err := h.renderer.RenderInventoryReport(report, currentUserName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// Debts returns the receivables report
// @Summary      Debt report
// @Description  Lists every customer carrying outstanding debt with the grand total owed
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DebtReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/debts [get]
func (h *ReportHandler) Debts(c *gin.Context) {
	report, err := h.reportService.Debts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Maintenance returns the workshop's financial exposure
// @Summary      Maintenance report
// @Description  Open/finished job counts and the total still uncollected on unpaid jobs
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.MaintenanceReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/maintenance [get]
func (h *ReportHandler) Maintenance(c *gin.Context) {
	report, err := h.reportService.Maintenance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Dashboard returns the landing-page summary cards
// @Summary      Dashboard stats
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardStats}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

func (h *ReportHandler) reportDay(c *gin.Context) (time.Time, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date, expected 2006-01-02"))
		return time.Time{}, false
	}
	return day, true
}
