package api

import (
	"net/http"

	"notify-gateway/internal/settings"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	Resolver *settings.Resolver
}

func NewConfigHandler(resolver *settings.Resolver) *ConfigHandler {
	return &ConfigHandler{Resolver: resolver}
}

// GetConfig returns a redacted view of the resolved channel
// configuration. Credentials never leave the process.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	orgID := c.Param("organizationId")
	cfg := h.Resolver.Resolve(c.Request.Context(), orgID)

	c.JSON(http.StatusOK, gin.H{
		"source":        cfg.Source,
		"isEnabled":     cfg.Enabled,
		"apiConfigured": cfg.Configured(),
		"templates":     cfg.TemplateTypes(),
	})
}

// InvalidateConfig drops the cached configuration for an organization,
// called after its settings change.
func (h *ConfigHandler) InvalidateConfig(c *gin.Context) {
	h.Resolver.Invalidate(c.Param("organizationId"))
	c.JSON(http.StatusOK, gin.H{"status": "Cache invalidated"})
}
