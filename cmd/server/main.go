package main

import (
	"os"
	"time"

	"github.com/KUKARAF/webtimer/internal/clock"
	"github.com/KUKARAF/webtimer/internal/config"
	"github.com/KUKARAF/webtimer/internal/handlers"
	"github.com/KUKARAF/webtimer/internal/middleware"
	"github.com/KUKARAF/webtimer/internal/models"
	"github.com/KUKARAF/webtimer/internal/services"
	"github.com/KUKARAF/webtimer/internal/store"
	"github.com/KUKARAF/webtimer/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Background reclamation of expired timers, independent of request
	// traffic.
	svc := services.NewTimerService(store.New(models.GetDB()), clock.System)
	reclaimer := services.NewReclaimer(
		svc,
		clock.System,
		time.Duration(cfg.Reclaim.IntervalSeconds)*time.Second,
		time.Duration(cfg.Reclaim.GraceSeconds)*time.Second,
	)
	if err := reclaimer.Start(); err != nil {
		logger.Fatalf("Failed to start reclaim sweep: %v", err)
	}
	defer reclaimer.Stop()

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery(), middleware.CORS())
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(rl.Middleware())
	}

	healthHandler := handlers.NewHealthHandler(models.GetDB())
	r.GET("/health", healthHandler.Check)

	timerHandler := handlers.NewTimerHandler(models.GetDB(), clock.System)
	r.POST("/timers", timerHandler.Create)
	r.GET("/timers", timerHandler.List)
	r.GET("/timers/:identifier", timerHandler.Get)
	r.DELETE("/timers/:identifier", timerHandler.Delete)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
