package handler

import (
	"context"
	"net/http"

	"school_management/internal/middleware"
	"school_management/internal/service"
	"school_management/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports database liveness. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps is everything NewRouter wires together. Sandbox and LoginLimiter
// are optional.
type RouterDeps struct {
	Auth    service.AuthService
	Users   service.UserService
	Courses service.CourseService
	Sandbox service.SandboxService

	Tokens       *utils.JWTUtil
	LoginLimiter middleware.Limiter
	DB           Pinger

	ExposeErrorDetails bool
}

// NewRouter builds the gin engine with the middleware chain and every route
func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Metrics(),
	)

	profileMW := middleware.ProfileMiddleware(deps.Tokens)
	api := router.Group("/api")

	NewAuthHandler(deps.Auth, deps.ExposeErrorDetails).
		RegisterAuthRoutes(api, middleware.LoginRateLimit(deps.LoginLimiter), profileMW)
	NewAdminHandler(deps.Users, deps.ExposeErrorDetails).RegisterAdminRoutes(api, profileMW)
	NewCourseHandler(deps.Courses, deps.ExposeErrorDetails).RegisterCourseRoutes(api, profileMW)

	if deps.Sandbox != nil {
		NewSandboxHandler(deps.Sandbox, deps.ExposeErrorDetails).RegisterSandboxRoutes(router)
	}

	router.GET("/health", func(c *gin.Context) {
		if deps.DB == nil || deps.DB.Ping(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
