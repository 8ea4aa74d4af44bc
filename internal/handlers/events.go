package handlers

import (
	"io"
	"time"

	"gdccrm/internal/events"
	"gdccrm/internal/logging"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// Events streams change notifications as Server-Sent Events until the
// client goes away. The stream ends with a "signout" event when the
// current user signs out elsewhere.
func (h *Handler) Events(c *gin.Context) {
	sc := session.From(c)
	ch := h.broker.Subscribe(c.Request.Context(), events.TopicEnquiry, events.TopicCustomer, events.TopicSession)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", "ok")
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if ev.Topic == events.TopicSession {
				if ev.Action == events.ActionSignedOut && sc.User != nil && ev.ID == sc.User.ID.String() {
					c.SSEvent("signout", ev)
					return false
				}
				return true
			}
			c.SSEvent(ev.Topic, ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})

	log.Debug().Str(logging.EVENT, "stream_closed").Msg("event stream ended")
}
