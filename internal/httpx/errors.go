// Package httpx holds the gin plumbing shared by every resource handler:
// error translation, request-scoped logging and path parsing.
package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cookingapp/internal/apperr"
	"cookingapp/internal/logger"
)

const CodeValidationFailed = "VALIDATION_FAILED"

type ErrorBody struct {
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type errorMapping struct {
	sentinel error
	status   int
}

var errorMappings = []errorMapping{
	{apperr.ErrNotFound, http.StatusNotFound},
	{apperr.ErrDuplicateKey, http.StatusBadRequest},
	{apperr.ErrBusiness, http.StatusBadRequest},
	{apperr.ErrConflict, http.StatusConflict},
	{apperr.ErrUnsupportedValue, http.StatusInternalServerError},
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError writes the classified error body and aborts the chain.
// Unclassified errors are logged and hidden behind a generic message.
func RespondError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())
	status := StatusOf(err)
	code := apperr.Code(err)

	if code == "INTERNAL" || code == "UNSUPPORTED_VALUE" {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("code", code), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Status:    status,
		Code:      code,
		Error:     apperr.Message(err),
		Timestamp: time.Now().UTC(),
	})
}

// BadRequest reports malformed input that never reached a service.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Status:    http.StatusBadRequest,
		Code:      CodeValidationFailed,
		Error:     msg,
		Timestamp: time.Now().UTC(),
	})
}
