package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitalSync/health-ingestor/internal/api/dashboard"
	"github.com/VitalSync/health-ingestor/internal/api/ingestion"
	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/loaders"
	"github.com/VitalSync/health-ingestor/internal/metrics"
	"github.com/VitalSync/health-ingestor/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.Environment, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer utils.Zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := loaders.NewPostgresClient(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		utils.Zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		utils.Zlog.Fatal("Failed to ensure schema", zap.Error(err))
	}

	met := metrics.New()
	met.Register(prometheus.DefaultRegisterer)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	ingestion.RegisterRoutes(api, db, met, cfg)
	dashboard.RegisterRoutes(api, db, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		utils.Zlog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	utils.Zlog.Info("Server listening",
		zap.String("service", cfg.ServiceName),
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Zlog.Fatal("Server failed", zap.Error(err))
	}
}

// requestLogger emits one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.Zlog.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
