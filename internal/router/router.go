// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gatepass/visitor-management/internal/config"
	"github.com/gatepass/visitor-management/internal/handler"
	"github.com/gatepass/visitor-management/internal/middleware"
	"github.com/gatepass/visitor-management/internal/model"
)

// Register wires every route of the service onto the provided Echo instance.
//
// Public routes cover the visitor-facing flows: self-registration, the
// returning-visitor login, the dashboard lookups and pass delivery. The
// admin console routes (list, status updates, delete) sit behind JWT auth
// with the ADMIN role, replacing the client-side gate the system previously
// relied on. The Redis limiter throttles anonymous writes and the response
// cache (off by default) can be enabled for the public reads.
func Register(e *echo.Echo, cfg config.Config, v *handler.VisitorHandler, a *handler.AuthHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Visitor-facing routes. Registration and the two send-style endpoints
	// are rate limited; the reads may be cached.
	pub := e.Group("/api")
	pub.POST("/visitors", v.Register, limiter)
	pub.GET("/visitors/:id", v.Get, cache)
	pub.PUT("/visitors/:id/email", v.UpdateEmail)
	pub.GET("/visitors/:id/pdf", v.DownloadPass)
	pub.POST("/visitors/:id/sendpdf", v.SendPassByEmail, limiter)
	pub.POST("/oldvisitor/login", v.OldVisitorLogin, limiter)

	// Admin session endpoints.
	adm := e.Group("/api/admin")
	adm.POST("/login", a.Login, limiter)
	adm.POST("/refresh", a.Refresh)
	adm.POST("/logout", a.Logout)

	// Admin console endpoints: everything that mutates another visitor's
	// lifecycle or reads the full register.
	console := e.Group("/api")
	console.Use(middleware.JWTAuth(cfg.JWTSecret))
	console.Use(middleware.RequireRole(model.RoleAdmin))
	console.GET("/visitors", v.List)
	console.PUT("/visitors/:id/status", v.UpdateStatus)
	console.DELETE("/visitors/:id", v.Delete)
	console.GET("/admin/me", a.Me)
	console.POST("/admin/register", a.Register)
	console.POST("/admin/logout-all", a.LogoutAll)
}
