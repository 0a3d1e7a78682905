package handler

import (
	"net/http"
	"path/filepath"

	"botpanel/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProviderHandler interface {
	Stats(c *gin.Context)
	Contributions(c *gin.Context)
	Download(c *gin.Context)
}

type providerHandler struct {
	contributions repository.ContributionRepository
	logger        *zap.Logger
}

func NewProviderHandler(contributions repository.ContributionRepository, logger *zap.Logger) ProviderHandler {
	return &providerHandler{contributions: contributions, logger: logger}
}

func (h *providerHandler) Stats(c *gin.Context) {
	stats, err := h.contributions.GetProviderStats()
	if err != nil {
		h.logger.Error("Failed to get provider stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve provider stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *providerHandler) Contributions(c *gin.Context) {
	filter := repository.ContributionFilter{
		Provider: c.Query("proveedor"),
		Title:    c.Query("titulo"),
		Kind:     c.Query("tipo"),
		Limit:    queryLimit(c),
	}
	out, err := h.contributions.GetProviderContributions(filter)
	if err != nil {
		h.logger.Error("Failed to list provider contributions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve contributions"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Download streams the stored media file behind a contribution.
func (h *providerHandler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contribution, err := h.contributions.GetByID(id)
	if err != nil {
		h.logger.Error("Failed to load contribution", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve contribution"})
		return
	}
	if contribution == nil || contribution.FilePath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no file stored for that contribution"})
		return
	}

	c.FileAttachment(*contribution.FilePath, filepath.Base(*contribution.FilePath))
}
