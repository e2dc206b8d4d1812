package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/student-registry/internal/services"
	"github.com/campus-hub/student-registry/internal/utils"
)

type PagesHandler struct {
	BaseHandler
	service services.StudentService
}

func NewPagesHandler(service services.StudentService, logger utils.Logger) *PagesHandler {
	return &PagesHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Home handles GET /, the landing page with the recent mutation trail.
func (h *PagesHandler) Home(c *gin.Context) {
	activities, err := h.service.RecentActivity(c.Request.Context(), 10)
	if err != nil {
		// The landing page still renders without the trail.
		h.LogError(c, err, "Failed to load recent activity")
		activities = nil
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      "Student Registry",
		"Activities": activities,
	})
}

// NotFound is the catch-all for unknown routes.
func (h *PagesHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"Title": "404 Not Found",
	})
}
