package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-hub/student-registry/internal/utils"
)

// BaseHandler carries the dependencies every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	h.logger.Info(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"),
	)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	h.logger.Error(msg,
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"),
	)
}

// ErrorResponse is the JSON error shape for the non-HTML endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
