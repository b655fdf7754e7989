package router

import (
	"time"

	"videohub-service/config"
	"videohub-service/handler"
	"videohub-service/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func Setup(cfg *config.Config, videos *handler.VideoHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger(log))
	r.Use(middleware.PrometheusMiddleware(cfg.ServiceName))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins())))
	r.Use(middleware.ErrorHandler(log))

	auth := middleware.Auth([]byte(cfg.JWTSecret), cfg.JWTCookie, log)

	api := r.Group("/api/videos")
	{
		api.POST("", auth, videos.AddVideo)
		api.PUT("/:id", auth, videos.UpdateVideo)
		api.DELETE("/:id", auth, videos.DeleteVideo)
		api.GET("/find/:id", videos.GetVideo)
		api.PUT("/view/:id", videos.AddView)
		api.POST("/:id/views", videos.AddView)
		api.GET("/random", videos.Random)
		api.GET("/trend", videos.Trend)
		api.GET("/sub", auth, videos.Sub)
		api.GET("/tags", videos.GetByTag)
		api.GET("/search", videos.Search)
	}

	// Health check endpoint
	r.GET("/", handler.Root(cfg.ServiceName))
	r.GET("/health", handler.Health(cfg.ServiceName, cfg.Version))

	// Metrics endpoint for Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
