package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/dto"
	"github.com/wpinrui/tp/internal/service"
	"github.com/wpinrui/tp/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	commands commandService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(commands commandService) *StudentHandler {
	return &StudentHandler{commands: commands}
}

// List godoc
// @Summary List the student view
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	views := h.commands.Views()
	students := dto.NewViewsResponse(views.Students, nil, views.Order).Students
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}

// Create godoc
// @Summary Add a student
// @Tags Students
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.AddStudentRequest
	if !bindJSON(c, &req, false) {
		return
	}
	dispatch(c, h.commands, req, http.StatusCreated)
}

// Update godoc
// @Summary Edit a student
// @Tags Students
// @Accept json
// @Produce json
// @Param name path string true "Student name"
// @Success 200 {object} response.Envelope
// @Router /students/{name} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.EditStudentRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.Target = c.Param("name")
	dispatch(c, h.commands, req, http.StatusOK)
}

// Delete godoc
// @Summary Delete a student and its enrollments
// @Tags Students
// @Produce json
// @Param name path string true "Student name"
// @Success 200 {object} response.Envelope
// @Router /students/{name} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	dispatch(c, h.commands, service.StudentRequest{Name: c.Param("name"), Delete: true}, http.StatusOK)
}

// View godoc
// @Summary Narrow the views to one student and their lessons
// @Tags Students
// @Produce json
// @Param name path string true "Student name"
// @Success 200 {object} response.Envelope
// @Router /students/{name}/view [post]
func (h *StudentHandler) View(c *gin.Context) {
	dispatch(c, h.commands, service.StudentRequest{Name: c.Param("name")}, http.StatusOK)
}

// Paid marks a student as paid.
func (h *StudentHandler) Paid(c *gin.Context) {
	dispatch(c, h.commands, service.PaymentRequest{Name: c.Param("name"), Paid: true}, http.StatusOK)
}

// Unpaid marks a student as not paid.
func (h *StudentHandler) Unpaid(c *gin.Context) {
	dispatch(c, h.commands, service.PaymentRequest{Name: c.Param("name"), Paid: false}, http.StatusOK)
}

// AddProgress godoc
// @Summary Record a progress entry
// @Tags Students
// @Accept json
// @Produce json
// @Param name path string true "Student name"
// @Success 201 {object} response.Envelope
// @Router /students/{name}/progress [post]
func (h *StudentHandler) AddProgress(c *gin.Context) {
	var req service.ProgressRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.Name = c.Param("name")
	req.Delete = false
	dispatch(c, h.commands, req, http.StatusCreated)
}

// DeleteProgress removes the latest progress entry.
func (h *StudentHandler) DeleteProgress(c *gin.Context) {
	dispatch(c, h.commands, service.ProgressRequest{Name: c.Param("name"), Delete: true}, http.StatusOK)
}
