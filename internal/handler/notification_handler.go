package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillnaav/skillnaav-api/internal/models"
	"github.com/skillnaav/skillnaav-api/pkg/response"
)

type notificationService interface {
	ListForStudent(ctx context.Context, studentID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationHandler serves in-app notifications.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler builds a new handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List a student's notifications
// @Tags Notifications
// @Produce json
// @Param studentId path string true "Student ID"
// @Param limit query int false "Maximum items (default 50)"
// @Success 200 {object} response.Envelope
// @Router /notifications/{studentId} [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.service.ListForStudent(c.Request.Context(), c.Param("studentId"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	unread := 0
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"unread": unread})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
