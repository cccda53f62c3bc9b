package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifelens/internal/model"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp model.ErrorResponse

	switch {
	case errors.Is(err, model.ErrReportNotFound):
		statusCode = http.StatusNotFound
		errResp = model.ErrorResponse{Code: model.ErrCodeNotFound, Message: "Report not found"}
	case errors.Is(err, model.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = model.ErrorResponse{Code: model.ErrCodeValidation, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err), zap.String("path", c.Request.URL.Path))
		statusCode = http.StatusInternalServerError
		errResp = model.ErrorResponse{Code: model.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, errResp)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Code: model.ErrCodeBadRequest, Message: message})
}
