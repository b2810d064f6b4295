package ingestion

import (
	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/loaders"
	"github.com/VitalSync/health-ingestor/internal/metrics"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, db *loaders.PostgresClient, met *metrics.Collector, cfg *config.Config) {
	service := NewService(db, met, cfg)
	controller := NewController(service, cfg)
	router.POST("/sync", controller.Sync)
	router.POST("/upload", controller.Upload)
}
