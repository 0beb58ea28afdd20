package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/handlers"
)

type RouterConfig struct {
	TrendsHandler *handlers.TrendsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	trends := router.Group("/api/v1/trends")
	{
		trends.POST("/register", cfg.TrendsHandler.Register)
		trends.POST("/collect/:film_id", cfg.TrendsHandler.Collect)
		trends.GET("/history/:film_id", cfg.TrendsHandler.TrendHistory)
		trends.GET("/sentiment/:film_id", cfg.TrendsHandler.SentimentHistory)
		trends.GET("/sentiment/:film_id/latest", cfg.TrendsHandler.LatestSentiment)
		trends.GET("/signals/:film_id", cfg.TrendsHandler.RawSignals)
		trends.GET("/lookup", cfg.TrendsHandler.Lookup)
		trends.PUT("/analysis/:film_id", cfg.TrendsHandler.SaveAnalysis)
		trends.GET("/analysis/:film_id", cfg.TrendsHandler.GetAnalysis)
	}

	return router
}
