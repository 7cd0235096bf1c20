package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alysesue/bookings-api-sub001/internal/cache"
	"github.com/alysesue/bookings-api-sub001/internal/config"
	dbpkg "github.com/alysesue/bookings-api-sub001/internal/db"
	"github.com/alysesue/bookings-api-sub001/internal/logger"
	"github.com/alysesue/bookings-api-sub001/internal/metrics"
	"github.com/alysesue/bookings-api-sub001/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	availabilityCache := cache.New(cfg.RedisAddr, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := availabilityCache.Ping(pingCtx); err != nil {
		log.Warnw("redis unreachable, availability responses will not be cached", "error", err)
	}
	cancel()

	m := metrics.New("bookings")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, availabilityCache, m, log)

	log.Infow("server starting", "addr", cfg.Addr(), "env", cfg.Env)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalw("failed to start server", "error", err)
	}
}
