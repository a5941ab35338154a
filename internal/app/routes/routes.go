package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/controllers"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Lab        *controllers.LabController
	Student    *controllers.StudentController
	Assignment *controllers.AssignmentController
	Settings   *controllers.SettingsController
	Result     *controllers.ResultController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes. adminMiddleware guards
// the /api/v1/admin group; authentication itself lives outside this service.
func SetupRouter(router *gin.Engine, c Controllers, adminMiddleware ...gin.HandlerFunc) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	labs := v1.Group("/labs")
	{
		labs.GET("", c.Lab.GetAllLabs)
		labs.GET("/:id", c.Lab.GetLabByID)
	}

	students := v1.Group("/students")
	{
		students.POST("", c.Student.Register)
		students.GET("/lookup", c.Student.Lookup)
		students.PUT("/:id/choices", c.Student.UpdateChoices)
	}

	v1.GET("/settings", c.Settings.GetSettings)
	v1.GET("/results", c.Result.GetResult)

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.Use(adminMiddleware...)
	{
		adminLabs := admin.Group("/labs")
		{
			adminLabs.POST("", c.Lab.CreateLab)
			adminLabs.PUT("/:id", c.Lab.UpdateLab)
			adminLabs.DELETE("/:id", c.Lab.DeleteLab)
		}

		adminStudents := admin.Group("/students")
		{
			adminStudents.GET("", c.Student.GetAllStudents)
			adminStudents.DELETE("/:id", c.Student.DeleteStudent)
		}

		assignments := admin.Group("/assignments")
		{
			assignments.GET("", c.Assignment.GetAllAssignments)
			assignments.POST("", c.Assignment.UpsertAssignment)
			assignments.DELETE("/:id", c.Assignment.DeleteAssignment)
		}

		admin.POST("/auto-assign", c.Assignment.AutoAssign)
		admin.GET("/occupancy", c.Assignment.GetOccupancy)
		admin.DELETE("/reset", c.Assignment.Reset)
		admin.PUT("/settings", c.Settings.UpdateSettings)
	}
}
