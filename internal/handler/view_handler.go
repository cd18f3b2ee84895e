package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/dto"
	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/response"
)

const defaultHeartbeat = 15 * time.Second

type viewStreamer interface {
	Stream() (<-chan models.ViewChange, func())
}

// ViewHandler serves the filtered views and their live updates.
type ViewHandler struct {
	commands  commandService
	streams   viewStreamer
	heartbeat time.Duration
}

// NewViewHandler constructs ViewHandler.
func NewViewHandler(commands commandService, streams viewStreamer, heartbeat time.Duration) *ViewHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &ViewHandler{commands: commands, streams: streams, heartbeat: heartbeat}
}

// Get returns both filtered views.
func (h *ViewHandler) Get(c *gin.Context) {
	views := h.commands.Views()
	response.JSON(c, http.StatusOK, dto.NewViewsResponse(views.Students, views.Lessons, views.Order))
}

// Reset godoc
// @Summary Show every student and/or lesson again
// @Tags Views
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /views/reset [post]
func (h *ViewHandler) Reset(c *gin.Context) {
	var req service.ListRequest
	if !bindJSON(c, &req, true) {
		return
	}
	if scope := c.Query("scope"); scope != "" {
		req.Scope = scope
	}
	dispatch(c, h.commands, req, http.StatusOK)
}

// Stream godoc
// @Summary Server-sent stream of view changes
// @Tags Views
// @Produce text/event-stream
// @Router /views/stream [get]
func (h *ViewHandler) Stream(c *gin.Context) {
	events, cancel := h.streams.Stream()
	defer cancel()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("views", h.event(models.ViewChange{Kind: models.ViewChangeReset, Reason: "connected"}))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case change, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("views", h.event(change))
			return true
		case now := <-ticker.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
			return true
		}
	})
}

func (h *ViewHandler) event(change models.ViewChange) dto.ViewEventResponse {
	views := h.commands.Views()
	return dto.ViewEventResponse{
		Kind:          change.Kind,
		Reason:        change.Reason,
		OccurredAt:    time.Now().UTC(),
		ViewsResponse: dto.NewViewsResponse(views.Students, views.Lessons, views.Order),
	}
}
