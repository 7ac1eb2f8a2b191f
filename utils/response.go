package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboss/apierr"
)

// Response is the error envelope. Successful responses are written as the
// bare payload because the SPA reads resources directly.
type Response struct {
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &Response{Error: message, Code: "unauthorized"})
}

func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, &Response{Error: message, Code: "forbidden"})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{Error: message, Code: "bad_request"})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{Error: message, Code: "internal"})
}

// RespondError writes err using the status and code it carries.
func RespondError(c *gin.Context, err error) {
	c.JSON(apierr.Status(err), &Response{
		Error: err.Error(),
		Code:  apierr.Code(err),
	})
}

// RespondErrorWithRaw is RespondError plus the unparsed provider output.
func RespondErrorWithRaw(c *gin.Context, err error, raw string) {
	c.JSON(apierr.Status(err), &Response{
		Error: err.Error(),
		Code:  apierr.Code(err),
		Raw:   raw,
	})
}
