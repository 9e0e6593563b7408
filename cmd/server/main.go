package main

import (
	"os"

	"notify-gateway/internal/api"
	"notify-gateway/internal/audit"
	"notify-gateway/internal/config"
	"notify-gateway/internal/database"
	"notify-gateway/internal/ratelimit"
	"notify-gateway/internal/settings"
	"notify-gateway/internal/store"
	"notify-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.LoadConfig(log)

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}

	var kv store.Store
	if cfg.RedisAddr != "" {
		kv = store.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, log)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, using in-process store")
		kv = store.NewMemory()
	}
	defer kv.Close()

	limiter := ratelimit.NewLimiter(kv, log)
	resolver := settings.NewResolver(&settings.GormSource{DB: db}, cfg, log)
	auditor := audit.NewAuditor(db, log)
	dispatcher := whatsapp.NewDispatcher(whatsapp.NewClient(cfg.SendTimeout), whatsapp.DispatcherOptions{
		Auditor:         auditor,
		Limiter:         limiter,
		RecipientLimit:  cfg.WhatsAppRateLimit,
		RecipientWindow: cfg.WhatsAppRateWindow,
		SendRatePerSec:  cfg.SendRatePerSecond,
	}, log)

	notifyHandler := api.NewNotifyHandler(dispatcher, resolver, log)
	configHandler := api.NewConfigHandler(resolver)
	healthHandler := api.NewHealthHandler(kv, cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", healthHandler.Health)

	limited := r.Group("/", ratelimit.Middleware(limiter, cfg.APIRateLimit, cfg.APIRateWindow))
	{
		limited.POST("/send-message", notifyHandler.SendMessage)
		limited.POST("/send-invoice", notifyHandler.SendInvoice)
		limited.GET("/config/:organizationId", configHandler.GetConfig)
		limited.POST("/config/:organizationId/invalidate", configHandler.InvalidateConfig)
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
