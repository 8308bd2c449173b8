package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	branchHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/branch"
	patientHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/patient"
	transactionHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/transaction"
	userHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/user"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/middleware"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Base        *handler.Handler
	Branch      *branchHandler.Handler
	User        *userHandler.Handler
	Patient     *patientHandler.Handler
	Transaction *transactionHandler.Handler
}

// New assembles the engine with the shared middleware chain and every API
// route group.
func New(cfg *config.Config, m *metrics.Metrics, handlers Handlers) *gin.Engine {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigin)))

	if cfg.RateLimit.RPS > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		})
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/health", handlers.Base.LivenessCheck)
	engine.GET("/ready", handlers.Base.ReadinessCheck)
	engine.GET("/metrics", handlers.Base.MetricsHandler)

	api := engine.Group("/api")
	{
		handlers.Branch.RegisterRoutes(api)
		handlers.User.RegisterRoutes(api)
		handlers.Patient.RegisterRoutes(api)
		handlers.Transaction.RegisterRoutes(api)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Not found!"}})
	})

	return engine
}
