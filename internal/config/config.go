package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	AI         AIConfig
	Sheet      SheetConfig
	Screenshot ScreenshotConfig
	Preview    PreviewConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	ScreenshotPerMin int
	TagsPerMin       int
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type SheetConfig struct {
	BaseURL string
	Timeout int // seconds
}

type ScreenshotConfig struct {
	ServiceURL string
	Timeout    int // seconds
}

type PreviewConfig struct {
	DebounceMS int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("AI_API_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("ratelimit.screenshot_per_min", "RATELIMIT_SCREENSHOT_PER_MIN")
	_ = viper.BindEnv("ratelimit.tags_per_min", "RATELIMIT_TAGS_PER_MIN")
	_ = viper.BindEnv("ai.api_key", "AI_API_KEY")
	_ = viper.BindEnv("ai.base_url", "AI_BASE_URL")
	_ = viper.BindEnv("ai.model", "AI_MODEL")
	_ = viper.BindEnv("sheet.base_url", "SHEET_BASE_URL")
	_ = viper.BindEnv("sheet.timeout", "SHEET_TIMEOUT")
	_ = viper.BindEnv("screenshot.service_url", "SCREENSHOT_SERVICE_URL")
	_ = viper.BindEnv("screenshot.timeout", "SCREENSHOT_TIMEOUT")
	_ = viper.BindEnv("preview.debounce_ms", "PREVIEW_DEBOUNCE_MS")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ratelimit.screenshot_per_min", 10)
	viper.SetDefault("ratelimit.tags_per_min", 5)

	// AI defaults (OpenAI-compatible endpoint)
	viper.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("ai.model", "llama-3.3-70b-versatile")

	// Sheet lookup defaults (mymusicfive public API)
	viper.SetDefault("sheet.base_url", "https://mms.pd.mapia.io")
	viper.SetDefault("sheet.timeout", 15)

	// Screenshot capture service defaults
	viper.SetDefault("screenshot.service_url", "")
	viper.SetDefault("screenshot.timeout", 30)

	// Preview quiet period
	viper.SetDefault("preview.debounce_ms", 500)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			ScreenshotPerMin: viper.GetInt("ratelimit.screenshot_per_min"),
			TagsPerMin:       viper.GetInt("ratelimit.tags_per_min"),
		},
		AI: AIConfig{
			APIKey:  viper.GetString("ai.api_key"),
			BaseURL: viper.GetString("ai.base_url"),
			Model:   viper.GetString("ai.model"),
		},
		Sheet: SheetConfig{
			BaseURL: viper.GetString("sheet.base_url"),
			Timeout: viper.GetInt("sheet.timeout"),
		},
		Screenshot: ScreenshotConfig{
			ServiceURL: viper.GetString("screenshot.service_url"),
			Timeout:    viper.GetInt("screenshot.timeout"),
		},
		Preview: PreviewConfig{
			DebounceMS: viper.GetInt("preview.debounce_ms"),
		},
	}

	return cfg, nil
}
