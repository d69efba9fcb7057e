package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalisa/internal/domain/message"
	"catalisa/internal/infrastructure/http/v1/dto"
)

// MessageHandler handles messaging endpoints.
type MessageHandler struct {
	*BaseHandler
	messages *message.Service
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(base *BaseHandler, messages *message.Service) *MessageHandler {
	return &MessageHandler{
		BaseHandler: base,
		messages:    messages,
	}
}

// Send handles POST /messages
func (h *MessageHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	senderID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg, err := h.messages.Send(ctx, senderID, req.RecipientID, req.OrderID, req.Subject, req.Content)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Inbox handles GET /messages/inbox
func (h *MessageHandler) Inbox(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	items, err := h.messages.Inbox(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// Sent handles GET /messages/sent
func (h *MessageHandler) Sent(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	items, err := h.messages.Sent(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// MarkRead handles PUT /messages/:id/read - recipient only.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := h.RequireUser(c)
	if !ok {
		return
	}

	messageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.messages.MarkRead(ctx, user, messageID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "message marked as read")
}

// UnreadCount handles GET /messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	count, err := h.messages.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"unreadCount": count})
}

// Delete handles DELETE /messages/:id - sender or recipient.
func (h *MessageHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := h.RequireUser(c)
	if !ok {
		return
	}

	messageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.messages.Delete(ctx, user, messageID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers message routes.
func (h *MessageHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/messages", h.Send)
	protected.GET("/messages/inbox", h.Inbox)
	protected.GET("/messages/sent", h.Sent)
	protected.GET("/messages/unread-count", h.UnreadCount)
	protected.PUT("/messages/:id/read", h.MarkRead)
	protected.DELETE("/messages/:id", h.Delete)
}
