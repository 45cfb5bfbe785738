package http_common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/wannawatch/core/internal/model"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeNotAuthorized    = "NOT_AUTHORIZED"
	CodeSessionClosed    = "SESSION_CLOSED"
	CodeAlreadyClosed    = "ALREADY_CLOSED"
	CodeInvalidCandidate = "INVALID_CANDIDATE"
	CodeStorageFailure   = "STORAGE_FAILURE"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeInternal         = "INTERNAL"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Status maps a domain error to the HTTP status and error code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrResourceNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, model.ErrNotAuthorized):
		return http.StatusForbidden, CodeNotAuthorized
	case errors.Is(err, model.ErrSessionClosed):
		return http.StatusConflict, CodeSessionClosed
	case errors.Is(err, model.ErrAlreadyClosed):
		return http.StatusConflict, CodeAlreadyClosed
	case errors.Is(err, model.ErrInvalidCandidate):
		return http.StatusUnprocessableEntity, CodeInvalidCandidate
	case errors.Is(err, model.ErrStorageFailure):
		return http.StatusServiceUnavailable, CodeStorageFailure
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteError aborts the request with the mapped status. Storage and
// unknown errors are reported without their cause.
func WriteError(ctx *gin.Context, err error) {
	status, code := Status(err)
	msg := err.Error()
	switch code {
	case CodeStorageFailure:
		msg = "storage unavailable, retry later"
	case CodeInternal:
		msg = "internal error"
	}
	ctx.AbortWithStatusJSON(status, ErrorResponse{
		Message: msg,
		Code:    code,
	})
}

func BadRequest(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Message: msg,
		Code:    CodeBadRequest,
	})
}
