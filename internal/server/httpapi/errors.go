package httpapi

import (
	"errors"
	"net/http"

	"github.com/akoselev/eshop/internal/common"
	"github.com/gin-gonic/gin"
)

// statusFromError maps service sentinels to HTTP status codes. Anything
// unrecognized is reported as a 500 without detail.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCredential),
		errors.Is(err, common.ErrorCorruptCredential):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
