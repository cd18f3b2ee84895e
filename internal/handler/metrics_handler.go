package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/response"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	storage string
}

// NewMetricsHandler constructs a metrics handler. storage describes the
// active persistence backend.
func NewMetricsHandler(metrics *service.MetricsService, storage string) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, storage: storage}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness with a metrics summary
// @Tags Ops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.storage,
		"metrics": h.metrics.Snapshot(),
	})
}
