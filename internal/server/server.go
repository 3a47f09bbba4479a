// Package server exposes the translation pipeline, settings and cache over
// HTTP for browser front ends.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal"
	"codeberg.org/snonux/readitfortheplot/internal/cache"
	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/pipeline"
	"codeberg.org/snonux/readitfortheplot/internal/settings"
)

// Translator runs translation requests
type Translator interface {
	Handle(ctx context.Context, req pipeline.Request, s settings.Settings) model.TranslationResult
}

// SettingsStore loads and saves settings
type SettingsStore interface {
	Load(ctx context.Context) settings.Settings
	Save(ctx context.Context, s settings.Settings) error
}

// Cache is the maintenance view of the result cache
type Cache interface {
	Clear(ctx context.Context)
	Stats(ctx context.Context) cache.Stats
}

// Server holds the HTTP handlers
type Server struct {
	translator Translator
	settings   SettingsStore
	cache      Cache
	logger     *zap.Logger
}

// New creates a server
func New(translator Translator, settings SettingsStore, cache Cache, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		translator: translator,
		settings:   settings,
		cache:      cache,
		logger:     logger,
	}
}

// Router builds the gin engine. mode is a gin mode such as "release".
func (s *Server) Router(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": internal.Version,
		})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/translate", s.translate)
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.putSettings)
		api.DELETE("/cache", s.clearCache)
		api.GET("/cache/stats", s.cacheStats)
	}
	return r
}

// Run serves on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr, mode string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
		)
	}
}
