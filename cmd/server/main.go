package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"halflips/docs"
	"halflips/internal/app"
	"halflips/internal/cache"
	"halflips/internal/config"
	"halflips/internal/db"
	"halflips/internal/logging"
)

// @title Half Lips API
// @version 1.0
// @description Read-only JSON view of the Half Lips timeline and profiles.
// @host localhost:5000
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("connected to database")

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warnf("failed to drop tables (may not exist): %v", err)
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warnf("redis not reachable at %s, continuing without cache: %v", cfg.RedisAddr, err)
		} else {
			log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
		}
		cancel()
		defer cacheClient.Close()
	} else {
		log.Info("REDIS_ADDR not set, caching and session revocation disabled")
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e, err := app.New(cfg, gormDB, cacheClient, log)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}

	addr := ":" + cfg.ServerPort
	go func() {
		log.Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("gracefully shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
