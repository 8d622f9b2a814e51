package handler

import (
	"errors"
	"net/http"

	"groupchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	ErrRoomNotFound  = errors.New("Room not found")
	ErrJoinRejected  = errors.New("Room or user not found, or room inactive")
	ErrNotAMember    = errors.New("User is not a member of the room")
	ErrRoomPermanent = errors.New("Room not found or cannot be deactivated")
)

func (h *Handler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := bindRequest(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, h.Chat.CreateRoom(req.Name))
}

func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.Chat.ListRooms())
}

func (h *Handler) GetRoom(c *gin.Context) {
	room, ok := h.Chat.GetRoom(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, ErrRoomNotFound)
		return
	}
	c.JSON(http.StatusOK, room)
}

// JoinRoom adds ?user_id= to the room.
func (h *Handler) JoinRoom(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		abortWithError(c, http.StatusBadRequest, ErrUserIDRequired)
		return
	}
	if !h.Chat.JoinRoom(c.Param("id"), userID) {
		abortWithError(c, http.StatusNotFound, ErrJoinRejected)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LeaveRoom(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		abortWithError(c, http.StatusBadRequest, ErrUserIDRequired)
		return
	}
	if !h.Chat.LeaveRoom(c.Param("id"), userID) {
		abortWithError(c, http.StatusNotFound, ErrNotAMember)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeactivateRoom soft-deletes a room. The default room is refused.
func (h *Handler) DeactivateRoom(c *gin.Context) {
	if !h.Chat.DeactivateRoom(c.Param("id")) {
		abortWithError(c, http.StatusNotFound, ErrRoomPermanent)
		return
	}
	c.Status(http.StatusNoContent)
}
