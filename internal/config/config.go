package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromAddress  string
	TwilioAPIBaseURL   string
	TwilioSendTimeout  time.Duration
	VerifyTwilioSig    bool
	MaxConcurrentSends int

	AIBackendURL      string
	AIBackendChatPath string
	AIBackendAPIKey   string
	AIBackendTimeout  time.Duration

	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	SystemPrompt string

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromAddress:  getEnv("TWILIO_FROM_ADDRESS", ""),
		TwilioAPIBaseURL:   getEnv("TWILIO_API_BASE_URL", "https://api.twilio.com"),
		TwilioSendTimeout:  getEnvAsDuration("TWILIO_SEND_TIMEOUT", 10*time.Second),
		VerifyTwilioSig:    getEnvAsBool("TWILIO_VERIFY_SIGNATURE", false),
		MaxConcurrentSends: getEnvAsInt("MAX_CONCURRENT_SENDS", 8),

		AIBackendURL:      getEnv("AI_BACKEND_URL", ""),
		AIBackendChatPath: getEnv("AI_BACKEND_CHAT_PATH", "/api/routes/chat/"),
		AIBackendAPIKey:   getEnv("AI_BACKEND_API_KEY", ""),
		AIBackendTimeout:  getEnvAsDuration("AI_BACKEND_TIMEOUT", 15*time.Second),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		SystemPrompt: getEnv("SYSTEM_PROMPT", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
