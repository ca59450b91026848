// README: Notification inbox handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"campusnav/internal/modules/notification"
	"campusnav/internal/types"
)

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: svc}
}

type publishReq struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	DeviceToken string `json:"device_token"`
}

func (r publishReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.By(notBlank), validation.Length(1, 120)),
		validation.Field(&r.Message, validation.Required, validation.By(notBlank), validation.Length(1, 1000)),
	)
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	writeJSON(c, http.StatusOK, gin.H{
		"notifications": h.notifications.List(ctx),
		"unread":        h.notifications.UnreadCount(ctx),
	})
}

// Publish handles POST /api/notifications.
func (h *NotificationHandler) Publish(c *gin.Context) {
	var req publishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	n, ok := h.notifications.Publish(c.Request.Context(), req.Title, req.Message, req.DeviceToken)
	if !ok {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusCreated, n)
}

// MarkRead handles PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if !h.notifications.MarkRead(c.Request.Context(), types.ID(c.Param("id"))) {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllRead handles PUT /api/notifications/read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if !h.notifications.MarkAllRead(c.Request.Context()) {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/notifications/:id.
func (h *NotificationHandler) Delete(c *gin.Context) {
	if !h.notifications.Delete(c.Request.Context(), types.ID(c.Param("id"))) {
		writeStoreFailure(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnreadCount handles GET /api/notifications/unread_count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"unread": h.notifications.UnreadCount(c.Request.Context())})
}
