package routes

import (
	"github.com/gin-gonic/gin"

	"fieldservice/internal/authz"
	"fieldservice/internal/handlers"
	"fieldservice/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	assignmentHandler *handlers.AssignmentHandler,
	workSessionHandler *handlers.WorkSessionHandler,
	unitHandler *handlers.UnitHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	anyKnown := middleware.RequireRoles(
		authz.RoleAdmin, authz.RoleSupervisor, authz.RoleTeknisi, authz.RoleSales,
	)

	// TASKS
	tasks := r.Group("/tasks", anyKnown)
	{
		tasks.GET("/", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.GET("/:id/assignment", assignmentHandler.GetByTask)
		tasks.POST("/",
			middleware.RequireRoles(authz.RoleSupervisor, authz.RoleSales, authz.RoleAdmin),
			taskHandler.Create)
		tasks.PUT("/:id",
			middleware.RequireRoles(authz.RoleSupervisor, authz.RoleSales, authz.RoleAdmin),
			taskHandler.Update)
		tasks.POST("/:id/close",
			middleware.RequireRoles(authz.RoleSupervisor, authz.RoleAdmin),
			taskHandler.Close)
	}

	// ASSIGNMENTS
	assignments := r.Group("/assignments", anyKnown)
	{
		assignments.GET("/:id", assignmentHandler.GetByID)
		assignments.PUT("/:id", assignmentHandler.Update)
		assignments.POST("/",
			middleware.RequireRoles(authz.RoleSupervisor, authz.RoleAdmin),
			assignmentHandler.Create)
		assignments.DELETE("/:id",
			middleware.RequireRoles(authz.RoleSupervisor, authz.RoleAdmin),
			assignmentHandler.Delete)
	}

	// WORK SESSIONS (role check for recording lives in the service)
	sessions := r.Group("/work-sessions", anyKnown)
	{
		sessions.POST("/", workSessionHandler.Create)
		sessions.GET("/open", workSessionHandler.Open)
	}

	// UNITS
	units := r.Group("/units", anyKnown)
	{
		units.GET("/:id", unitHandler.GetByID)
		units.GET("/:id/history", unitHandler.History)
		units.GET("/:id/history/report", unitHandler.HistoryReport)
	}

	return r
}
