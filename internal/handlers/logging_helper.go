package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.jotly/internal/errs"
	response "io.winapps.jotly/internal/models/response"
)

const serverErrorMessage = "Server Error"

func requestContextFields(c *gin.Context) []interface{} {
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
	}
}

func logWithContext(logger *zap.SugaredLogger, c *gin.Context, level string, msg string, fields ...interface{}) {
	base := requestContextFields(c)
	all := append(base, fields...)
	switch level {
	case "debug":
		logger.Debugw(msg, all...)
	case "warn":
		logger.Warnw(msg, all...)
	case "error":
		logger.Errorw(msg, all...)
	default:
		logger.Infow(msg, all...)
	}
}

func (h *EntryHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	if h.logger == nil {
		return
	}
	logWithContext(h.logger, c, "error", msg, append(fields, "error", err)...)
}

func (h *EntryHandler) logInfo(c *gin.Context, msg string, fields ...interface{}) {
	if h.logger == nil {
		return
	}
	logWithContext(h.logger, c, "info", msg, fields...)
}

func (h *EntryHandler) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response.OK(data))
}

func (h *EntryHandler) okCount(c *gin.Context, data any, n int) {
	c.JSON(http.StatusOK, response.OKCount(data, n))
}

func (h *EntryHandler) created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, response.OK(data))
}

func (h *EntryHandler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Fail(msg))
}

// fail maps service errors onto the response envelope. Unexpected errors are
// logged and reported with a generic message.
func (h *EntryHandler) fail(c *gin.Context, err error, msg string, fields ...interface{}) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.Invalid(verr))
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Fail("Entry not found"))
	default:
		h.logError(c, err, msg, fields...)
		c.JSON(http.StatusInternalServerError, response.Fail(serverErrorMessage))
	}
}
