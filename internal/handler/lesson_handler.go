package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/dto"
	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/response"
)

// LessonHandler exposes lesson endpoints.
type LessonHandler struct {
	commands commandService
}

// NewLessonHandler constructs LessonHandler.
func NewLessonHandler(commands commandService) *LessonHandler {
	return &LessonHandler{commands: commands}
}

// List godoc
// @Summary List the lesson view
// @Tags Lessons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	views := h.commands.Views()
	lessons := dto.NewViewsResponse(nil, views.Lessons, views.Order).Lessons
	response.JSON(c, http.StatusOK, lessons, map[string]interface{}{"count": len(lessons)})
}

// Create godoc
// @Summary Add a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.AddLessonRequest
	if !bindJSON(c, &req, false) {
		return
	}
	dispatch(c, h.commands, req, http.StatusCreated)
}

// Update godoc
// @Summary Edit a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param name path string true "Lesson name"
// @Success 200 {object} response.Envelope
// @Router /lessons/{name} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.EditLessonRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.Target = c.Param("name")
	dispatch(c, h.commands, req, http.StatusOK)
}

// Delete removes a lesson and unenrols its students.
func (h *LessonHandler) Delete(c *gin.Context) {
	dispatch(c, h.commands, service.LessonRequest{Name: c.Param("name"), Delete: true}, http.StatusOK)
}

// View narrows the views to one lesson and its students.
func (h *LessonHandler) View(c *gin.Context) {
	dispatch(c, h.commands, service.LessonRequest{Name: c.Param("name")}, http.StatusOK)
}
