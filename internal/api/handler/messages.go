package handler

import (
	"errors"
	"net/http"

	"groupchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	ErrUserIDRequired    = errors.New("user_id is required")
	ErrMessageNotCreated = errors.New("Failed to create message")
	ErrMessageNotFound   = errors.New("Message not found")
)

// CreateMessage posts a message as ?user_id=.
func (h *Handler) CreateMessage(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		abortWithError(c, http.StatusBadRequest, ErrUserIDRequired)
		return
	}
	var req models.SendMessageRequest
	if err := bindRequest(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	msg, ok := h.Chat.SendMessage(c.Request.Context(), userID, req.Content, req.RoomID)
	if !ok {
		abortWithError(c, http.StatusBadRequest, ErrMessageNotCreated)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) GetMessagesByRoom(c *gin.Context) {
	limit, err := limitParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, h.Chat.GetMessagesByRoom(c.Param("room_id"), limit))
}

func (h *Handler) GetRecentMessages(c *gin.Context) {
	limit, err := limitParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, h.Chat.GetRecentMessages(limit))
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	if !h.Chat.DeleteMessage(c.Param("id")) {
		abortWithError(c, http.StatusNotFound, ErrMessageNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
