package dashboard

import (
	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/loaders"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, db *loaders.PostgresClient, cfg *config.Config) {
	service := NewService(db, cfg)
	controller := NewController(service)
	router.GET("/dashboard", controller.Trends)
}
