package handler

import (
	"net/http"
	"strconv"
	"time"

	"gamewatch/backend/internal/database"
	"gamewatch/backend/internal/models"
	"gamewatch/backend/internal/notify"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type NotificationResponse struct {
	ID        uint      `json:"id"`
	GameID    uint      `json:"game_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		GameID:    n.GameID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// endregion

// GetNotifications godoc
// @Summary      The viewer's notifications
// @Description  Lists the newest notifications for the authenticated user.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit       query int  false "Maximum entries" default(10)
// @Param        unread_only query bool false "Return only unread notifications"
// @Success      200 {array} NotificationResponse
// @Router       /notifications [get]
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))

	query := database.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	response := []NotificationResponse{}
	for _, n := range notifications {
		response = append(response, newNotificationResponse(n))
	}
	c.JSON(http.StatusOK, response)
}

// MarkNotificationRead godoc
// @Summary      Acknowledge a notification
// @Description  Sets is_read on one of the viewer's notifications. Acknowledging twice is a no-op.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} map[string]bool "{"read": true}"
// @Failure      404 {object} ErrorResponse "Notification not found"
// @Router       /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, _ := strconv.Atoi(c.Param("id"))

	read, err := notify.Default.MarkRead(c.Request.Context(), uint(id), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	if !read {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}
