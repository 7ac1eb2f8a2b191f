package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboss/apierr"
	"taskboss/logger"
	"taskboss/utils"
)

// pathID parses the :id route parameter. It writes a 400 and returns
// false when the id is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// bindRawBody reads a JSON object body as raw fields for partial updates.
func bindRawBody(c *gin.Context) (map[string]json.RawMessage, bool) {
	raw := map[string]json.RawMessage{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.BadRequest(c, "request body must be a JSON object")
		return nil, false
	}
	return raw, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.BadRequest(c, bindErrorMessage(err))
		return false
	}
	return true
}

func bindErrorMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return "malformed JSON body"
	case errors.As(err, &typeErr):
		return "invalid value for " + typeErr.Field
	default:
		return utils.FormatValidationError(err)
	}
}

// respondError writes err and logs anything that is not a client error.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := apierr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
		utils.TrackError("http", apierr.Code(err))
		_ = c.Error(err)
		if apierr.Code(err) == "internal" {
			utils.InternalError(c, "internal server error")
			return
		}
	}
	utils.RespondError(c, err)
}
