package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/pipeline"
	"codeberg.org/snonux/readitfortheplot/internal/settings"
)

// translate always answers 200 with a TranslationResult; failures are
// reported inside the result
func (s *Server) translate(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Failed("invalid request: "+err.Error()))
		return
	}
	if req.ImageURL == "" && req.ImageDataURL == "" {
		c.JSON(http.StatusBadRequest, model.Failed("imageUrl or imageDataUrl is required"))
		return
	}

	st := s.settings.Load(c.Request.Context())
	result := s.translator.Handle(c.Request.Context(), req, st)
	c.JSON(http.StatusOK, result)
}

func (s *Server) getSettings(c *gin.Context) {
	st := s.settings.Load(c.Request.Context())
	c.JSON(http.StatusOK, st.Masked())
}

func (s *Server) putSettings(c *gin.Context) {
	var st settings.Settings
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := s.settings.Save(c.Request.Context(), st); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrConfiguration) {
			status = http.StatusBadRequest
		} else {
			s.logger.Error("Failed to save settings", zap.Error(err))
		}
		c.JSON(status, gin.H{"success": false, "error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) clearCache(c *gin.Context) {
	s.cache.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Stats(c.Request.Context()))
}

func errorMessage(err error) string {
	var e *model.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
