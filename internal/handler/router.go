package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

// Pinger is anything the health check can probe, such as *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDeps struct {
	Properties     *service.PropertyService
	Auth           *service.AuthService
	Dashboard      *service.DashboardService
	Payments       *service.PaymentService
	JWTSecret      string
	LoginLimiter   *middleware.Limiter
	PaymentLimiter *middleware.Limiter
	DB             Pinger
}

// NewRouter builds the gin engine with every route under /api/v1.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	api := r.Group("/api/v1")
	api.GET("/health", health(d.DB))

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(d.JWTSecret))

	agent := api.Group("")
	agent.Use(middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(model.RoleAgent, model.RoleSuperuser))

	admin := api.Group("")
	admin.Use(middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(model.RoleSuperuser))

	NewPropertyHandler(d.Properties, d.JWTSecret).RegisterRoutes(api, agent, admin)
	NewPhotoHandler(d.Properties).RegisterRoutes(api, agent)
	NewAuthHandler(d.Auth).RegisterRoutes(api, authed, middleware.RateLimit(d.LoginLimiter))
	NewDashboardHandler(d.Dashboard).RegisterRoutes(agent, admin)
	NewPaymentHandler(d.Payments).RegisterRoutes(agent, middleware.RateLimit(d.PaymentLimiter))

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				utils.RespondErrorWithCode(c, http.StatusServiceUnavailable, utils.ErrCodeExternalService, "database unavailable", nil, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
