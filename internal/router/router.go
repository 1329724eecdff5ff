package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fastygo/tasktimer/api/handler"
)

type Handlers struct {
	Task    *apiHandler.TaskHandler
	Session *apiHandler.SessionHandler
	Report  *apiHandler.ReportHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.GET("/api/v1/tasks/{id}", handlers.Task.GetTask)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)

	// Session transitions
	r.POST("/api/v1/tasks/{id}/start", handlers.Task.StartTask)
	r.POST("/api/v1/tasks/{id}/pause", handlers.Task.PauseTask)
	r.POST("/api/v1/tasks/{id}/complete", handlers.Task.CompleteTask)
	r.GET("/api/v1/session", handlers.Session.Current)

	r.GET("/api/v1/reports/daily", handlers.Report.Daily)

	return r
}
