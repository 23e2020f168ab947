package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Chat   ChatConfig
}

// ServerConfig describes the HTTP listener and its middleware knobs.
type ServerConfig struct {
	Addr          string
	AllowedOrigin string
	RateLimit     int
}

// AIConfig describes the upstream completion endpoint.
type AIConfig struct {
	BaseURL       string
	APIKey        string
	Model         string
	AllowedModels []string
	Timeout       time.Duration
}

// ChatConfig describes conversation handling.
type ChatConfig struct {
	SessionTTL         time.Duration
	HistoryWindow      int
	FAQThreshold       float64
	MaxMessageLength   int
	CompanyProfileFile string
	FAQFile            string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Chat: chat}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	rateLimit, err := parseIntEnv("RATE_LIMIT", 10)
	if err != nil {
		return ServerConfig{}, err
	}
	if rateLimit < 1 {
		return ServerConfig{}, fmt.Errorf("RATE_LIMIT must be at least 1, got %d", rateLimit)
	}

	return ServerConfig{
		Addr:          addr,
		AllowedOrigin: strings.TrimSpace(os.Getenv("FRONTEND_ORIGIN")),
		RateLimit:     rateLimit,
	}, nil
}

func loadAIConfig() (AIConfig, error) {
	timeout, err := parseDurationEnv("REQUEST_TIMEOUT", 20*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	model := strings.TrimSpace(os.Getenv("AIML_MODEL"))
	if model == "" {
		return AIConfig{}, fmt.Errorf("AIML_MODEL is required")
	}

	allowed := splitCSV(os.Getenv("ALLOW_MODELS"))
	if len(allowed) == 0 {
		allowed = []string{model}
	}

	return AIConfig{
		BaseURL:       getEnvOrDefault("AIML_API_URL", "https://api.aimlapi.com/v1"),
		APIKey:        strings.TrimSpace(os.Getenv("AIML_API_KEY")),
		Model:         model,
		AllowedModels: allowed,
		Timeout:       timeout,
	}, nil
}

func loadChatConfig() (ChatConfig, error) {
	ttl, err := parseDurationEnv("SESSION_TTL", 25*time.Minute)
	if err != nil {
		return ChatConfig{}, err
	}

	window, err := parseIntEnv("HISTORY_WINDOW", 3)
	if err != nil {
		return ChatConfig{}, err
	}

	maxLen, err := parseIntEnv("MAX_MESSAGE_LENGTH", 2000)
	if err != nil {
		return ChatConfig{}, err
	}

	threshold, err := parseFloatEnv("FAQ_THRESHOLD", 0.4)
	if err != nil {
		return ChatConfig{}, err
	}
	if threshold <= 0 || threshold > 1 {
		return ChatConfig{}, fmt.Errorf("FAQ_THRESHOLD must be in (0,1], got %v", threshold)
	}

	return ChatConfig{
		SessionTTL:         ttl,
		HistoryWindow:      window,
		FAQThreshold:       threshold,
		MaxMessageLength:   maxLen,
		CompanyProfileFile: strings.TrimSpace(os.Getenv("COMPANY_PROFILE_FILE")),
		FAQFile:            strings.TrimSpace(os.Getenv("FAQ_FILE")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv accepts Go duration syntax ("20s", "25m") and, for
// compatibility with the older deployment, a bare number of seconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 1 {
			return 0, fmt.Errorf("%s must be positive, got %d", key, secs)
		}
		return time.Duration(secs) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, val)
	}
	return val, nil
}
