package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/service"
)

// EnrollmentHandler links and unlinks students and lessons.
type EnrollmentHandler struct {
	commands commandService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(commands commandService) *EnrollmentHandler {
	return &EnrollmentHandler{commands: commands}
}

// Enroll godoc
// @Summary Enrol a student in a lesson
// @Tags Enrollments
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollmentRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.Unenroll = false
	dispatch(c, h.commands, req, http.StatusCreated)
}

// Unenroll godoc
// @Summary Remove a student from a lesson
// @Tags Enrollments
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	var req service.EnrollmentRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.Unenroll = true
	dispatch(c, h.commands, req, http.StatusOK)
}
