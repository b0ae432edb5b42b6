// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evergreenmedia/podcast-partner-api/internal/handler"
	"github.com/evergreenmedia/podcast-partner-api/internal/middleware"
	"github.com/evergreenmedia/podcast-partner-api/internal/model"
)

// Register wires every route. The auth group under /v1/auth is public;
// everything else under /v1 requires a valid access token, and the podcast
// and account management endpoints additionally require the admin role.
// cacheMW is applied to the two admin listing endpoints only; pass nil to
// disable caching.
func Register(e *echo.Echo, a *handler.AuthHandler, s *handler.ShowHandler, p *handler.PartnerHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1/auth")
	pub.POST("/login", a.Login)
	pub.POST("/refresh", a.Refresh)
	pub.POST("/logout", a.Logout)

	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(jwtSecret))

	// Endpoints open to both roles.
	authed.GET("/me", a.Me, middleware.RequireRole(model.RoleAdmin, model.RolePartner))
	authed.GET("/partners/me/podcasts", p.MyShows, middleware.RequireRole(model.RoleAdmin, model.RolePartner))

	admin := authed.Group("", middleware.RequireRole(model.RoleAdmin))

	if cacheMW == nil {
		cacheMW = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	admin.POST("/podcasts", s.Create)
	admin.POST("/podcasts/bulk-import", s.BulkImport)
	admin.GET("/podcasts", s.List, cacheMW)
	admin.GET("/podcasts/filter", s.Filter, cacheMW)
	admin.GET("/podcasts/:id", s.Get)
	admin.PUT("/podcasts/:id", s.Update)
	admin.DELETE("/podcasts/:id", s.Delete)

	admin.GET("/users", p.ListUsers)
	admin.POST("/users", p.CreateUser)
	admin.DELETE("/users/:id", p.DeleteUser)
	admin.POST("/partners", p.CreatePartner)
	admin.PUT("/partners/:id/password", p.UpdatePassword)
	admin.GET("/partners/:id/podcasts", p.PartnerShows)
	admin.POST("/podcasts/:show_id/partners/:partner_id", p.Associate)
	admin.DELETE("/podcasts/:show_id/partners/:partner_id", p.Unassociate)
}
