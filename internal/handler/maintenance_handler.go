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

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	renderer           *printing.Renderer
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService, renderer *printing.Renderer) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService, renderer: renderer}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/api/maintenance")
	{
		jobs.POST("", middleware.RequirePermission(model.PermMaintenance), h.CreateJob)
		jobs.GET("", middleware.RequirePermission(model.PermMaintenance), h.ListJobs)
		jobs.GET("/board", middleware.RequirePermission(model.PermMaintenance), h.Board)
		jobs.GET("/:id", middleware.RequirePermission(model.PermMaintenance), h.GetJob)
		jobs.PUT("/:id", middleware.RequirePermission(model.PermMaintenance), h.UpdateJob)
		jobs.PUT("/:id/status", middleware.RequirePermission(model.PermMaintenance), h.ChangeStatus)
		jobs.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteJob)
		jobs.GET("/:id/invoice", middleware.RequirePermission(model.PermMaintenance), h.PrintInvoice)
	}
}

// CreateJob opens a new workshop job
// @Summary      Create maintenance job
// @Tags         maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateJobRequest  true  "Create Job Payload"
// @Success      201      {object}  response.Response{data=service.JobResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/maintenance [post]
func (h *MaintenanceHandler) CreateJob(c *gin.Context) {
	var req service.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.maintenanceService.CreateJob(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// ListJobs returns a paginated job listing
// @Summary      List maintenance jobs
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Match job number, customer or device"
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/maintenance [get]
func (h *MaintenanceHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.MaintenanceListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	jobs, total, err := h.maintenanceService.ListJobs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// Board returns the workshop kanban grouped by status
// @Summary      Workshop board
// @Description  Returns every job grouped into status columns in workflow order
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Match job number, customer or device"
// @Success      200     {object}  response.Response{data=[]service.JobBoardColumn}
// @Failure      500     {object}  response.Response
// @Router       /api/maintenance/board [get]
func (h *MaintenanceHandler) Board(c *gin.Context) {
	board, err := h.maintenanceService.Board(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, board))
}

// GetJob returns a single job by ID
// @Summary      Get maintenance job
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/maintenance/{id} [get]
func (h *MaintenanceHandler) GetJob(c *gin.Context) {
	job, err := h.maintenanceService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// UpdateJob edits a job and recomputes its financials
// @Summary      Update maintenance job
// @Tags         maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Job ID"
// @Param        payload  body      service.UpdateJobRequest  true  "Update Job Payload"
// @Success      200      {object}  response.Response{data=service.JobResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/maintenance/{id} [put]
func (h *MaintenanceHandler) UpdateJob(c *gin.Context) {
	var req service.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.maintenanceService.UpdateJob(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// ChangeStatus moves a job to another board column
// @Summary      Change job status
// @Tags         maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Job ID"
// @Param        payload  body      object  true  "Status payload: {\"status\": \"Finished\"}"
// @Success      200      {object}  response.Response{data=service.JobResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/maintenance/{id}/status [put]
func (h *MaintenanceHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.maintenanceService.ChangeStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// DeleteJob removes a job and its part lines
// @Summary      Delete maintenance job
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/maintenance/{id} [delete]
func (h *MaintenanceHandler) DeleteJob(c *gin.Context) {
	if err := h.maintenanceService.DeleteJob(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// PrintInvoice materializes the job as an invoice and renders it for print.
// Nothing is written; the projection exists only in the response.
// @Summary      Print job invoice
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      html
// @Param        id   path      string  true  "Job ID"
// @Success      200  {string}  string  "HTML document"
// @Failure      404  {object}  response.Response
// @Router       /api/maintenance/{id}/invoice [get]
func (h *MaintenanceHandler) PrintInvoice(c *gin.Context) {
	sale, err := h.maintenanceService.MaterializeInvoice(c.Request.Context(), c.Param("id"))
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
