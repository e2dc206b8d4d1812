package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-hub/student-registry/internal/notice"
	"github.com/campus-hub/student-registry/internal/services"
	"github.com/campus-hub/student-registry/internal/utils"
	"github.com/campus-hub/student-registry/internal/validator"
)

type HandlerManager struct {
	studentHandler *StudentHandler
	pagesHandler   *PagesHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	v *validator.Validator,
	notices *notice.Store,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		studentHandler: NewStudentHandler(serviceManager.Student(), serviceManager.Export(), v, notices, logger),
		pagesHandler:   NewPagesHandler(serviceManager.Student(), logger),
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/", hm.pagesHandler.Home)

	students := router.Group("/students")
	{
		students.GET("", hm.studentHandler.List)
		students.GET("/add", hm.studentHandler.ShowCreateForm)
		students.POST("/add", hm.studentHandler.Create)
		students.GET("/export", hm.studentHandler.Export)
		students.GET("/edit/:id", hm.studentHandler.ShowEditForm)
		students.POST("/edit/:id", hm.studentHandler.Update)
		students.POST("/delete/:id", hm.studentHandler.Delete)
		students.GET("/:id", hm.studentHandler.Show)
	}

	router.NoRoute(hm.pagesHandler.NotFound)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "student-registry",
		})
	})
}
