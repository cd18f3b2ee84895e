package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/service"
	appErrors "github.com/wpinrui/tp/pkg/errors"
	"github.com/wpinrui/tp/pkg/response"
)

type exportService interface {
	Generate(ctx context.Context, req service.ExportRequest) (*service.ExportResult, error)
	Open(relPath string) (*os.File, error)
}

// DataHandler exposes whole-dataset operations.
type DataHandler struct {
	commands commandService
	exports  exportService
}

// NewDataHandler constructs DataHandler.
func NewDataHandler(commands commandService, exports exportService) *DataHandler {
	return &DataHandler{commands: commands, exports: exports}
}

// Clear godoc
// @Summary Delete every student and lesson
// @Tags Data
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /clear [post]
func (h *DataHandler) Clear(c *gin.Context) {
	var req service.ClearRequest
	if !bindJSON(c, &req, true) {
		return
	}
	dispatch(c, h.commands, req, http.StatusOK)
}

// Export godoc
// @Summary Download a collection as CSV or PDF
// @Tags Data
// @Produce octet-stream
// @Param collection path string true "students or lessons"
// @Param format query string false "csv (default) or pdf"
// @Param all query bool false "ignore the current filter"
// @Success 200 {file} binary
// @Router /exports/{collection} [get]
func (h *DataHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	req := service.ExportRequest{
		Collection: service.ExportCollection(c.Param("collection")),
		Format:     service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV))),
		All:        c.Query("all") == "true",
	}
	result, err := h.exports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.Open(result.RelativePath)
	if err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrInternal, "export file unavailable"))
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrInternal, "export file unavailable"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), result.ContentType, file, nil)
}
