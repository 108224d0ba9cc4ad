package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
)

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}

	// ======================================================
	// Notificações: Redis quando configurado, senão log
	// ======================================================
	var notifier notify.Notifier = notify.NewLogNotifier(zlog)
	if cfg.RedisAddr != "" {
		client := notify.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			zlog.Warn("redis unavailable, notifications will only be logged", zap.Error(err))
		} else {
			notifier = notify.NewRedisNotifier(client, cfg.NotifyChannel)
		}
		cancel()
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, zlog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// sem proxies confiáveis o IP do cliente é o da conexão
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		zlog.Fatal("invalid trusted proxies", zap.Error(err))
	}

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      zlog,
		Audit:    auditDispatcher,
		AuditLog: auditLogger,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}

	// grava o que ainda estiver na fila de auditoria
	auditDispatcher.Close()
}
