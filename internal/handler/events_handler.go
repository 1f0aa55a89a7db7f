package handler

import (
	"io"

	"gamewatch/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// streamTopic subscribes the connection to a hub topic and relays events
// over SSE until the client disconnects.
func streamTopic(c *gin.Context, topic string) {
	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(topic, client)
	defer hub.GlobalHub.Unsubscribe(topic, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// StreamInterestEvents godoc
// @Summary      Interest change stream
// @Description  Server-sent events fired whenever the interest ledger changes; the most-interested panel re-fetches on each event.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {string} string "SSE stream"
// @Router       /events/interest [get]
func StreamInterestEvents(c *gin.Context) {
	streamTopic(c, hub.TopicInterest)
}

// StreamMyNotifications godoc
// @Summary      Notification stream
// @Description  Server-sent events fired when a new notification is created for the viewer.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {string} string "SSE stream"
// @Router       /users/me/notifications/stream [get]
func StreamMyNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")
	streamTopic(c, hub.NotificationTopic(userID.(uint)))
}
