package handler

import (
	"errors"
	"net/http"

	"groupchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

var ErrUserNotFound = errors.New("User not found")

// CreateUser registers a user with no realtime connection.
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := bindRequest(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	user := h.Chat.CreateUser(c.Request.Context(), req.Name, "")
	c.JSON(http.StatusCreated, models.Summarize(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, models.SummarizeAll(h.Chat.ListActiveUsers()))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.Chat.GetUser(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, models.Summarize(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if !h.Chat.DeleteUser(c.Request.Context(), c.Param("id")) {
		abortWithError(c, http.StatusNotFound, ErrUserNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
