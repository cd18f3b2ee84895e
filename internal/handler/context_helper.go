package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/dto"
	"github.com/wpinrui/tp/internal/service"
	appErrors "github.com/wpinrui/tp/pkg/errors"
	"github.com/wpinrui/tp/pkg/response"
)

type commandService interface {
	Dispatch(ctx context.Context, req service.CommandRequest) (service.CommandResult, error)
	Views() service.ViewSnapshot
}

// bindJSON decodes the request body into dest. An empty body leaves dest
// untouched when optional is set.
func bindJSON(c *gin.Context, dest interface{}, optional bool) bool {
	err := c.ShouldBindJSON(dest)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
	return false
}

// dispatch runs req and answers with the feedback and the refreshed views.
func dispatch(c *gin.Context, commands commandService, req service.CommandRequest, status int) {
	result, err := commands.Dispatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	views := commands.Views()
	response.JSON(c, status, dto.CommandResponse{
		Feedback:      result.Feedback,
		ViewsResponse: dto.NewViewsResponse(views.Students, views.Lessons, views.Order),
	})
}
