package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func UnprocessableEntity(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError maps a business error to its HTTP response. Unknown errors are
// reported as internal.
func FromError(c *gin.Context, err error) {
	kind, ok := KindOf(err)
	if !ok {
		Internal(c, "internal_error", "Something went wrong.")
		return
	}

	switch kind {
	case KindState:
		UnprocessableEntity(c, err.Error(), "Action not allowed in the booking's current state.")
	case KindNotFound:
		NotFound(c, err.Error(), "Resource not found.")
	case KindConflict:
		Conflict(c, err.Error(), "The booking was modified concurrently, please retry.")
	default:
		BadRequest(c, err.Error(), "Invalid request.")
	}
}
