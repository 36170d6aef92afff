package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultSystemPrompt = `You are a helpful customer support assistant for an e-commerce clothing website.
You have access to a database with information about products, orders, inventory, and users.

Your capabilities include:
1. Answering questions about products (availability, pricing, categories, brands)
2. Checking order status and tracking information
3. Providing information about user accounts and order history
4. Helping with general customer service inquiries

Always be polite, helpful, and professional. If you need more information to help a customer,
ask clarifying questions. If you can't find specific information in the database, let the customer
know and suggest alternative ways to get help.`

type Config struct {
	Environment string
	HTTPAddr    string
	DataDir     string
	DBPath      string

	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	LLMTimeoutSec int

	SystemPrompt      string
	CategoryKeywords  []string
	BrandKeywords     []string
	HistoryTurns      int
	ContextRows       int
	SearchLimit       int
	TopLimit          int
	DefaultUserID     int64
	SessionListLimit  int
	ClassifyMaxTokens int
	ReplyMaxTokens    int

	SweepEnabled         bool
	SweepSchedule        string
	SessionRetentionDays int

	APIURL string
}

func FromEnv() Config {
	dataDir := stringOrDefault("SUPPORTBOT_DATA_DIR", "/data")
	dbPath := stringOrDefault("SUPPORTBOT_DB_PATH", filepath.Join(dataDir, "supportbot", "supportbot.sqlite"))

	return Config{
		Environment: stringOrDefault("SUPPORTBOT_ENV", "development"),
		HTTPAddr:    stringOrDefault("SUPPORTBOT_HTTP_ADDR", ":8000"),
		DataDir:     dataDir,
		DBPath:      dbPath,

		LLMBaseURL:    stringOrDefault("SUPPORTBOT_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMAPIKey:     strings.TrimSpace(os.Getenv("SUPPORTBOT_LLM_API_KEY")),
		LLMModel:      stringOrDefault("SUPPORTBOT_LLM_MODEL", "llama3-8b-8192"),
		LLMTimeoutSec: intOrDefault("SUPPORTBOT_LLM_TIMEOUT_SECONDS", 60),

		SystemPrompt:      stringOrDefault("SUPPORTBOT_SYSTEM_PROMPT", defaultSystemPrompt),
		CategoryKeywords:  csvOrDefault("SUPPORTBOT_CATEGORY_KEYWORDS", "shirts,pants,dresses,shoes,accessories,jackets,sweaters"),
		BrandKeywords:     csvOrDefault("SUPPORTBOT_BRAND_KEYWORDS", "nike,adidas,puma,levi,calvin,ralph"),
		HistoryTurns:      intOrDefault("SUPPORTBOT_HISTORY_TURNS", 5),
		ContextRows:       intOrDefault("SUPPORTBOT_CONTEXT_ROWS", 5),
		SearchLimit:       intOrDefault("SUPPORTBOT_SEARCH_LIMIT", 10),
		TopLimit:          intOrDefault("SUPPORTBOT_TOP_LIMIT", 10),
		DefaultUserID:     int64(intOrDefault("SUPPORTBOT_DEFAULT_USER_ID", 1)),
		SessionListLimit:  intOrDefault("SUPPORTBOT_SESSION_LIST_LIMIT", 10),
		ClassifyMaxTokens: intOrDefault("SUPPORTBOT_CLASSIFY_MAX_TOKENS", 50),
		ReplyMaxTokens:    intOrDefault("SUPPORTBOT_REPLY_MAX_TOKENS", 500),

		SweepEnabled:         boolOrDefault("SUPPORTBOT_SWEEP_ENABLED", true),
		SweepSchedule:        stringOrDefault("SUPPORTBOT_SWEEP_SCHEDULE", "@hourly"),
		SessionRetentionDays: intOrDefault("SUPPORTBOT_SESSION_RETENTION_DAYS", 30),

		APIURL: stringOrDefault("SUPPORTBOT_API_URL", "http://localhost:8000"),
	}
}

func stringOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func boolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func csvOrDefault(name, fallback string) []string {
	raw := stringOrDefault(name, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.ToLower(strings.TrimSpace(part))
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return values
}
