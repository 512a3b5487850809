package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/response"
)

type notificationFeed interface {
	ListForUser(ctx context.Context, userID string, role models.UserRole, unreadOnly bool, limit int) ([]models.Notification, error)
}

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	service notificationFeed
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service notificationFeed) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary List notifications for the caller
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param limit query int false "Max items"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	unread := c.Query("unread") == "true"
	items, err := h.service.ListForUser(c.Request.Context(), claims.UserID, claims.Role, unread, intQuery(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, "")
}
