package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type NotificationsHandler struct {
	notificationsRepo *repository.NotificationsRepository
}

func NewNotificationsHandler(notificationsRepo *repository.NotificationsRepository) *NotificationsHandler {
	return &NotificationsHandler{notificationsRepo: notificationsRepo}
}

func (h *NotificationsHandler) ListUnread(c *gin.Context) {
	notifications, err := h.notificationsRepo.ListUnread(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(notifications))
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid notification ID"))
		return
	}
	if err := h.notificationsRepo.MarkRead(c.GetInt("userId"), id); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Notification not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "isRead": true}))
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationsRepo.MarkAllRead(c.GetInt("userId")); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"read": "all"}))
}
