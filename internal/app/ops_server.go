package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger проверка готовности зависимости (пул БД)
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsServer служебный HTTP сервер: /health, /ready, /metrics
type OpsServer struct {
	server *http.Server
	logger *zap.Logger
}

// NewOpsServer создаёт служебный сервер
func NewOpsServer(addr string, production bool, db Pinger, metrics http.Handler, logger *zap.Logger) *OpsServer {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	return &OpsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           newOpsRouter(db, metrics, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func newOpsRouter(db Pinger, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics))

	return r
}

// Start запускает сервер в фоне
func (s *OpsServer) Start() {
	go func() {
		s.logger.Info("Ops server starting", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Ops server failed", zap.Error(err))
		}
	}()
}

// Shutdown останавливает сервер
func (s *OpsServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown ops server: %w", err)
	}
	return nil
}
