package api

import (
	"net/http"

	"notify-gateway/internal/config"
	"notify-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Store  store.Store
	Config *config.Config
}

func NewHealthHandler(s store.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{Store: s, Config: cfg}
}

func (h *HealthHandler) Health(c *gin.Context) {
	storeConnected := h.Store.Ping(c.Request.Context()) == nil

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"storeConnected":    storeConnected,
		"channelConfigured": h.Config.WhatsAppToken != "" && h.Config.PhoneNumberID != "",
	})
}
