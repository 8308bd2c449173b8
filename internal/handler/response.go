package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

// ErrorBody is the JSON shape of every failure response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewErrorResponse builds a failure body with a human-readable message.
func NewErrorResponse(message string) ErrorBody {
	return ErrorBody{Message: message}
}

// RespondError maps err onto the HTTP error taxonomy and writes the JSON
// failure body.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		body := ErrorBody{Message: appErr.Message}
		if appErr.StatusCode() >= http.StatusInternalServerError && appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
		c.JSON(appErr.StatusCode(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Message: "Server error",
		Error:   err.Error(),
	})
}
