package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"villadesk/internal/infra/config"
	"villadesk/internal/infra/obs"
)

type ScheduleHTTP interface {
	Calendar(c *gin.Context)
	List(c *gin.Context)
	Block(c *gin.Context)
	Update(c *gin.Context)
	Release(c *gin.Context)
}

type VillaHTTP interface {
	Search(c *gin.Context)
}

type Handlers struct {
	Schedule ScheduleHTTP
	Villa    VillaHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Schedule != nil {
		api.GET("/calendar", h.Schedule.Calendar)
		api.GET("/villas/:id/calendar", h.Schedule.Calendar)
		api.GET("/blocked-dates", h.Schedule.List)
		api.POST("/blocked-dates", h.Schedule.Block)
		api.PUT("/blocked-dates/:id", h.Schedule.Update)
		api.DELETE("/blocked-dates/:id", h.Schedule.Release)
	}
	if h.Villa != nil {
		api.GET("/villas/search", h.Villa.Search)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
