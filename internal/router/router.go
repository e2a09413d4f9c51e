package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/handler"
	"github.com/kennelworks/studbook-server/internal/middleware"
	"github.com/kennelworks/studbook-server/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session and password-reset endpoints.  The
// limiter middleware throttles the whole group so credential guessing and
// reset-request floods are bounded; pass a pass-through middleware to
// disable it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, r *handler.ResetHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", r.ForgotPassword)
	g.POST("/reset-password", r.ResetPassword)

	// Authenticated identity probe.  Any valid role may call it.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStandard))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated stud pages.  The cache
// middleware (Redis response cache) is applied per-route so the admin
// surface is never cached; pass nil to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/studs", p.GetStuds, mws...)
	e.GET("/v1/studs/:id", p.GetStud, mws...)
}

// RegisterAdmin mounts the back office behind the access gate: a valid
// access token AND the ADMIN role.  Every read and write below this group
// is reachable only through both middlewares.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/studs/:id", h.GetStudAdmin)
	g.POST("/studs", h.CreateStud)
	g.PUT("/studs/:id", h.UpdateStud)
	g.DELETE("/studs/:id", h.DeleteStud)

	g.GET("/breeding-studs", h.ListBreedingStuds)
	g.GET("/breeding-studs/:id", h.GetBreedingStud)
	g.POST("/breeding-studs", h.CreateBreedingStud)
	g.PUT("/breeding-studs/:id", h.UpdateBreedingStud)
	g.DELETE("/breeding-studs/:id", h.DeleteBreedingStud)

	g.GET("/dashboard", h.Dashboard)
	g.POST("/uploads", h.UploadImage)
}
