// Package httpresp renders service errors as JSON responses.
package httpresp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
)

type ErrorResponse struct {
	Status  int    `json:"status"  example:"404"`
	Error   string `json:"error"   example:"not_found"`
	Message string `json:"message" example:"Auction not found"`
} // @name ErrorResponse

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func body(c *gin.Context, err error) (int, ErrorResponse) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request_failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	return status, ErrorResponse{
		Status:  status,
		Error:   apperrors.KindOf(err).Error(),
		Message: apperrors.Message(err),
	}
}

func Error(c *gin.Context, err error) {
	status, resp := body(c, err)
	_ = c.Error(err)
	c.JSON(status, resp)
}

// Abort stops the handler chain; used by middleware.
func Abort(c *gin.Context, err error) {
	status, resp := body(c, err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
} // @name MessageResponse
