package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the API server configuration.
type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string
	MaxUploadMB int64

	// LLM
	LLMProvider    string // "googleai", "openai" or "ollama"
	LLMModel       string
	LLMTemperature float64
	GeminiAPIKey   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OllamaURL      string

	// Completion cache, disabled when RedisAddr is empty
	RedisAddr   string
	RedisDB     int
	LLMCacheTTL time.Duration

	// Resume archive, disabled when S3Endpoint is empty
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Identity provider
	JWTPublicKey    string
	AuthorizedParty string
}

// UploaderConfig holds the settings of the bulk upload CLI.
type UploaderConfig struct {
	APIURL   string
	APIToken string
	Delay    time.Duration
}

// LoadEnv loads a .env file if present. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Falling back to OS environment variables.")
	}
}

// Load reads the server configuration from the environment.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "googleai")),
		LLMModel:      getEnv("LLM_MODEL", "gemma-3-27b-it"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Bucket:      getEnv("S3_BUCKET", "resumes"),

		JWTPublicKey:    strings.ReplaceAll(os.Getenv("AUTH_JWT_PUBLIC_KEY"), `\n`, "\n"),
		AuthorizedParty: os.Getenv("AUTH_AUTHORIZED_PARTY"),
	}

	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	if cfg.MaxUploadMB, err = strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}
	if cfg.LLMTemperature, err = strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.2"), 64); err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.LLMCacheTTL, err = time.ParseDuration(getEnv("LLM_CACHE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid LLM_CACHE_TTL: %w", err)
	}
	if cfg.S3UseSSL, err = strconv.ParseBool(getEnv("S3_USE_SSL", "false")); err != nil {
		return nil, fmt.Errorf("invalid S3_USE_SSL: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTPublicKey == "" {
		return fmt.Errorf("AUTH_JWT_PUBLIC_KEY is required")
	}
	switch c.LLMProvider {
	case "googleai":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider googleai")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.S3Endpoint != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}
	return nil
}

// LoadUploader reads the bulk upload CLI configuration.
func LoadUploader() (*UploaderConfig, error) {
	LoadEnv()

	delay, err := time.ParseDuration(getEnv("UPLOAD_DELAY", "4s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_DELAY: %w", err)
	}
	return &UploaderConfig{
		APIURL:   strings.TrimRight(getEnv("API_URL", "http://localhost:5000"), "/"),
		APIToken: os.Getenv("API_TOKEN"),
		Delay:    delay,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
