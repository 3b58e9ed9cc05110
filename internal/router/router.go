package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/homeharmony/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Member    *apiHandler.MemberHandler
	Task      *apiHandler.TaskHandler
	Item      *apiHandler.ItemHandler
	Dashboard *apiHandler.DashboardHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	v1 := r.Group("/api/v1")

	v1.GET("/members", authMiddleware(handlers.Member.ListMembers))
	v1.GET("/members/me", authMiddleware(handlers.Member.Me))
	v1.POST("/members", authMiddleware(handlers.Member.AddMember))
	v1.PUT("/members/{id}", authMiddleware(handlers.Member.UpdateMember))
	v1.DELETE("/members/{id}", authMiddleware(handlers.Member.DeleteMember))
	v1.POST("/members/{id}/admin", authMiddleware(handlers.Member.ToggleAdmin))

	v1.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	v1.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	v1.POST("/tasks/redistribute", authMiddleware(handlers.Task.Redistribute))
	v1.POST("/tasks/followups", authMiddleware(handlers.Task.MaterializeFollowUps))
	v1.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	v1.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	v1.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	v1.POST("/tasks/{id}/toggle", authMiddleware(handlers.Task.ToggleTask))

	v1.GET("/items", authMiddleware(handlers.Item.ListItems))
	v1.POST("/items", authMiddleware(handlers.Item.AddItem))
	v1.PUT("/items/{id}", authMiddleware(handlers.Item.UpdateItem))
	v1.DELETE("/items/{id}", authMiddleware(handlers.Item.DeleteItem))
	v1.POST("/items/{id}/adjust", authMiddleware(handlers.Item.AdjustItem))

	v1.GET("/dashboard", authMiddleware(handlers.Dashboard.Summary))

	return r
}
