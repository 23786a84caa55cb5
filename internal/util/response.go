package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business error codes carried next to the HTTP status.
const (
	CodeValidation = 40001
	CodeAuth       = 40002
	CodeNotFound   = 40401
	CodeConflict   = 40901
	CodeServerErr  = 50001
)

// Error writes a JSON error body. The detail field carries the
// human-readable message, as the original clients expect.
func Error(c *gin.Context, httpStatus int, code int, detail string) {
	c.JSON(httpStatus, gin.H{
		"code":   code,
		"detail": detail,
	})
}

// AuthError is the single response for every authentication failure: bad
// credentials, bad or expired token, vanished user. Not distinguishing the
// cases keeps credential probing uninformative.
func AuthError(c *gin.Context) {
	Error(c, http.StatusBadRequest, CodeAuth, "incorrect login data")
}

// ValidationError reports malformed input or a failed field constraint.
func ValidationError(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, CodeValidation, detail)
}

// ConflictError reports a uniqueness conflict, e.g. a taken username.
func ConflictError(c *gin.Context, detail string) {
	Error(c, http.StatusConflict, CodeConflict, detail)
}

// NotFoundError reports a record that is absent or not owned by the caller.
func NotFoundError(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, CodeNotFound, detail)
}

// ServerError reports an unexpected internal failure.
func ServerError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, CodeServerErr, detail)
}
