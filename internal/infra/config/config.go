package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken string
	DatabaseURL   string
	RedisAddr     string
	RedisDB       int

	SelectionChatID int64
	BotUsername     string

	ScreenshotServiceURL string
	ScreenshotTimeout    time.Duration
	ScreenshotCacheTTL   time.Duration

	MuteDuration      time.Duration
	InactiveKickDelay time.Duration
	MaxEditVideoBytes int64
	CronSpecMuteSweep string

	AgreementURL      string
	RulesURL          string
	CreatorProfileURL string
	CreatorTikTokURL  string
	SelectionChatURL  string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	cfg.RedisDB, err = intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	chatIDStr := os.Getenv("SELECTION_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("SELECTION_CHAT_ID is not set")
	}
	cfg.SelectionChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SELECTION_CHAT_ID: %w", err)
	}

	cfg.BotUsername = os.Getenv("BOT_USERNAME")
	if cfg.BotUsername == "" {
		return nil, fmt.Errorf("BOT_USERNAME is not set")
	}

	cfg.ScreenshotServiceURL = os.Getenv("SCREENSHOT_SERVICE_URL")
	if cfg.ScreenshotServiceURL == "" {
		return nil, fmt.Errorf("SCREENSHOT_SERVICE_URL is not set")
	}

	screenshotTimeoutSec, err := intEnv("SCREENSHOT_TIMEOUT_SECONDS", 45)
	if err != nil {
		return nil, err
	}
	cfg.ScreenshotTimeout = time.Duration(screenshotTimeoutSec) * time.Second

	screenshotTTLMin, err := intEnv("SCREENSHOT_CACHE_TTL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	cfg.ScreenshotCacheTTL = time.Duration(screenshotTTLMin) * time.Minute

	muteMinutes, err := intEnv("MUTE_DURATION_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.MuteDuration = time.Duration(muteMinutes) * time.Minute

	kickMinutes, err := intEnv("INACTIVE_KICK_DELAY_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	cfg.InactiveKickDelay = time.Duration(kickMinutes) * time.Minute

	maxVideoMB, err := intEnv("MAX_EDIT_FILE_SIZE_MB", 15)
	if err != nil {
		return nil, err
	}
	cfg.MaxEditVideoBytes = int64(maxVideoMB) * 1024 * 1024

	cfg.CronSpecMuteSweep = os.Getenv("CRON_SPEC_MUTE_SWEEP")
	if cfg.CronSpecMuteSweep == "" {
		cfg.CronSpecMuteSweep = "*/10 * * * *" // Default: every 10 minutes
	}

	cfg.AgreementURL = os.Getenv("AGREEMENT_URL")
	if cfg.AgreementURL == "" {
		cfg.AgreementURL = "https://teletype.in/@rewix_x/bZRg7isIVXi"
	}
	cfg.RulesURL = os.Getenv("RULES_URL")
	if cfg.RulesURL == "" {
		cfg.RulesURL = "https://teletype.in/@rewix_x/VDwYWdPiOrc"
	}
	cfg.CreatorProfileURL = os.Getenv("CREATOR_PROFILE_URL")
	if cfg.CreatorProfileURL == "" {
		cfg.CreatorProfileURL = "https://t.me/ILYAA2K23"
	}
	cfg.CreatorTikTokURL = os.Getenv("CREATOR_TIKTOK_URL")
	if cfg.CreatorTikTokURL == "" {
		cfg.CreatorTikTokURL = "https://www.tiktok.com/@tpebop.fx"
	}
	cfg.SelectionChatURL = os.Getenv("SELECTION_CHAT_URL")
	if cfg.SelectionChatURL == "" {
		cfg.SelectionChatURL = "https://t.me/hatani_selection"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
