package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qna-service/internal/handler"
	"github.com/iliyamo/qna-service/internal/middleware"
	"github.com/iliyamo/qna-service/internal/model"
)

// Policy is the ordered access-control table applied to every request.
// The first rule whose method and path match decides the outcome:
// Permit lets the request through regardless of authentication, Require
// demands one of the listed roles.  Requests that match no rule fall
// through to the handlers, which enforce ownership themselves.
func Policy() []middleware.Rule {
	return []middleware.Rule{
		Permit("GET", "/healthz"),
		Permit("POST", "/v1/auth/login"),
		Permit("POST", "/v1/auth/refresh"),
		Permit("POST", "/v1/auth/logout"),
		Permit("POST", "/v1/users"),

		Require("GET", "/v1/me", model.RoleUser, model.RoleAdmin),

		Require("GET", "/v1/users", model.RoleAdmin),
		Require("GET", "/v1/users/*", model.RoleUser, model.RoleAdmin),
		Require("PATCH", "/v1/users/*", model.RoleUser, model.RoleAdmin),
		Require("DELETE", "/v1/users/*", model.RoleUser, model.RoleAdmin),

		Require("POST", "/v1/questions/*/answer", model.RoleAdmin),
		Require("PATCH", "/v1/questions/*/answer", model.RoleAdmin),
		Require("DELETE", "/v1/questions/*/answer", model.RoleAdmin),

		Require("POST", "/v1/questions/*/likes", model.RoleUser, model.RoleAdmin),
		Require("DELETE", "/v1/questions/*/likes", model.RoleUser, model.RoleAdmin),

		Require("POST", "/v1/questions", model.RoleUser),
		Require("GET", "/v1/questions/**", model.RoleUser, model.RoleAdmin),
		Require("PATCH", "/v1/questions/*", model.RoleUser),
		Require("DELETE", "/v1/questions/*", model.RoleUser, model.RoleAdmin),

		Permit("*", "/**"),
	}
}

// Permit and Require re-export the middleware rule constructors so the
// table above reads as a flat policy document.
func Permit(method, pattern string) middleware.Rule {
	return middleware.Permit(method, pattern)
}

func Require(method, pattern string, roles ...model.Role) middleware.Rule {
	return middleware.Require(method, pattern, roles...)
}

// RegisterRoutes registers routes that never require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// authenticated /v1/me introspection endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me)
}

// RegisterUsers registers account management endpoints.  POST /v1/users
// is open (sign-up); the rest are guarded by the route policy and by
// self-or-admin checks inside the service.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler) {
	g := e.Group("/v1/users")
	g.POST("", h.Register)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Quit)
}

// RegisterQuestions registers the question board: questions, the single
// answer attached to a question, and per-user likes.
func RegisterQuestions(e *echo.Echo, q *handler.QuestionHandler, a *handler.AnswerHandler, l *handler.LikeHandler) {
	g := e.Group("/v1/questions")
	g.POST("", q.Create)
	g.GET("", q.List)
	g.GET("/:id", q.Get)
	g.PATCH("/:id", q.Update)
	g.DELETE("/:id", q.Delete)

	g.POST("/:id/answer", a.Create)
	g.PATCH("/:id/answer", a.Update)
	g.DELETE("/:id/answer", a.Delete)

	g.POST("/:id/likes", l.Add)
	g.DELETE("/:id/likes", l.Remove)
}
