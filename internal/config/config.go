// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string

	// LLM provider used by correction and reply generation.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Translation provider (Google-Translate-compatible endpoint).
	TranslateAPIKey string
	TranslateAPIURL string

	DatabasePath   string
	AudioStorePath string

	// Minutes to skip the remote model after a quota failure.
	FallbackCooldownMinutes int

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:            getEnv("JWT_SECRET_KEY", ""),
		LLMAPIKey:               getEnv("OPENAI_API_KEY", ""),
		LLMBaseURL:              getEnv("OPENAI_BASE_URL", ""),
		LLMModel:                getEnv("LLM_MODEL", "gpt-4o-mini"),
		TranslateAPIKey:         getEnv("TRANSLATE_API_KEY", ""),
		TranslateAPIURL:         getEnv("TRANSLATE_API_URL", "https://translation.googleapis.com/language/translate/v2"),
		DatabasePath:            getEnv("DATABASE_PATH", "voicechat.db"),
		AudioStorePath:          getEnv("AUDIO_STORE_PATH", "audio.bolt"),
		FallbackCooldownMinutes: getEnvAsInt("FALLBACK_COOLDOWN_MINUTES", 5),
		Environment:             env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
