package handler

import (
	"net/http"

	"marine-backend/internal/middleware"
	"marine-backend/internal/model"
	"marine-backend/internal/service"
	"marine-backend/pkg/pagination"
	"marine-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/api/messages")
	{
		messages.GET("", middleware.RequirePermission(model.PermMessages), h.ListMessages)
		messages.GET("/unread-count", middleware.RequirePermission(model.PermMessages), h.UnreadCount)
		messages.GET("/:id", middleware.RequirePermission(model.PermMessages), h.GetMessage)
		messages.PUT("/:id/read", middleware.RequirePermission(model.PermMessages), h.MarkRead)
	}
}

// ListMessages returns a paginated inbox listing
// @Summary      List messages
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        inbox  query     string  false  "Filter by inbox address"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	params := pagination.Parse(c)

	messages, total, err := h.messageService.ListMessages(c.Request.Context(), c.Query("inbox"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// UnreadCount returns the number of unread messages across inboxes
// @Summary      Unread message count
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"unread": count}))
}

// GetMessage returns one message by ID
// @Summary      Get message
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=service.MessageResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	message, err := h.messageService.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, message))
}

// MarkRead marks a message as read
// @Summary      Mark message read
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageService.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"read": true}))
}
