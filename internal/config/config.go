package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Gopher   GopherConfig
	Session  SessionConfig
}

type AppConfig struct {
	Environment   string
	LogFilePath   string
	HealthPort    string
	OutboundTopic string
}

type TelegramConfig struct {
	BotToken string
}

type GopherConfig struct {
	BaseURL    string
	APIToken   string
	MaxResults int
	MaxRetries int
	RetryDelay time.Duration
}

type SessionConfig struct {
	// Backend selects the session repository: "memory" (default) or
	// "redis".
	Backend  string
	RedisURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "bot.log"),
			HealthPort:  getEnv("HEALTH_PORT", "8090"),

			OutboundTopic: getEnv("CHAT_OUTBOUND_TOPIC_NAME", "CHAT_OUTBOUND"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Gopher: GopherConfig{
			BaseURL:    getEnv("GOPHER_API_BASE", "https://data.gopher-ai.com/api/v1"),
			APIToken:   getEnv("GOPHER_API_TOKEN", ""),
			MaxResults: getEnvAsInt("GOPHER_MAX_RESULTS", 5),
			MaxRetries: getEnvAsInt("GOPHER_MAX_RETRIES", 10),
			RetryDelay: getEnvAsDuration("GOPHER_RETRY_DELAY", 2*time.Second),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
