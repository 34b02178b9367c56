// Package httpapi maps business Results onto HTTP responses. Every failing
// operation surfaces exactly one (code, message) pair; the status is derived
// from the error code so the wire vocabulary stays transport-independent.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teammood/teammood/pkg/teammood/result"
)

// StatusOf maps a business error code to an HTTP status.
func StatusOf(e result.Error) int {
	switch e.Code {
	case result.ErrNotFound.Code:
		return http.StatusNotFound
	case result.ErrBadCredentials.Code:
		return http.StatusUnauthorized
	case result.ErrNotAnAdmin.Code, result.ErrUserNotInGroup.Code:
		return http.StatusForbidden
	case result.ErrUserAlreadyOnGroup.Code,
		result.ErrUserAlreadyVote.Code,
		result.ErrVotingAlreadyCreated.Code:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Fail writes the business error with its mapped status.
func Fail(c *gin.Context, e result.Error) {
	c.JSON(StatusOf(e), e)
}
