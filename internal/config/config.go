package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port string

	// Postgres connection; when DBHost is empty the service falls back
	// to a local sqlite file at DBPath.
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBPath     string

	RedisAddr     string
	RedisPassword string

	WhatsAppToken   string
	PhoneNumberID   string
	WhatsAppAPIURL  string
	DefaultLanguage string

	InvoiceTemplate         string
	PaymentReceivedTemplate string
	PaymentReminderTemplate string
	LoginTemplate           string
	WelcomeTemplate         string
	GenericTemplate         string

	WhatsAppRateLimit  int
	WhatsAppRateWindow time.Duration
	APIRateLimit       int
	APIRateWindow      time.Duration
	SendRatePerSecond  int

	ConfigCacheTimeout time.Duration
	SessionWindow      time.Duration
	SendTimeout        time.Duration
}

func LoadConfig(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file loaded")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", ""),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "notify"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "./notify.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		WhatsAppToken:   getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:   getEnv("PHONE_NUMBER_ID", ""),
		WhatsAppAPIURL:  getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),

		InvoiceTemplate:         getEnv("TEMPLATE_INVOICE", "tenant_invoice"),
		PaymentReceivedTemplate: getEnv("TEMPLATE_PAYMENT_RECEIVED", "payment_received"),
		PaymentReminderTemplate: getEnv("TEMPLATE_PAYMENT_REMINDER", "payment_reminder"),
		LoginTemplate:           getEnv("TEMPLATE_LOGIN", "login_code"),
		WelcomeTemplate:         getEnv("TEMPLATE_WELCOME", "tenant_welcome"),
		GenericTemplate:         getEnv("TEMPLATE_GENERIC", "generic_notice"),

		WhatsAppRateLimit:  getEnvInt("WHATSAPP_RATE_LIMIT", 10),
		WhatsAppRateWindow: getEnvSeconds("WHATSAPP_RATE_WINDOW", 3600),
		APIRateLimit:       getEnvInt("API_RATE_LIMIT", 100),
		APIRateWindow:      getEnvSeconds("API_RATE_WINDOW", 900),
		SendRatePerSecond:  getEnvInt("SEND_RATE_PER_SECOND", 10),

		ConfigCacheTimeout: getEnvSeconds("CONFIG_CACHE_TIMEOUT", 300),
		SessionWindow:      getEnvSeconds("SESSION_WINDOW", 1800),
		SendTimeout:        getEnvSeconds("SEND_TIMEOUT", 15),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
