package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// AI providers accepted in AI_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Premium prompt variants accepted in PROMPT_STYLE.
const (
	PromptStyleJSON  = "json"
	PromptStyleProse = "prose"
)

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3.1",
	ProviderGemini: "gemini-1.5-flash",
}

var defaultBaseURLs = map[string]string{
	ProviderOpenAI: "https://api.openai.com/v1",
	ProviderOllama: "http://localhost:11434",
}

// Config holds the service configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitPerMinute uint   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`

	// Text generation
	AIProvider       string        `envconfig:"AI_PROVIDER" default:"gemini"`
	AIBaseURL        string        `envconfig:"AI_BASE_URL"`
	AIModel          string        `envconfig:"AI_MODEL"`
	AITimeout        time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	AIMaxAttempts    int           `envconfig:"AI_MAX_ATTEMPTS" default:"2"`
	AIBaseRetryDelay time.Duration `envconfig:"AI_BASE_RETRY_DELAY" default:"1s"`
	AITemperature    float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	AIMaxTokens      int           `envconfig:"AI_MAX_TOKENS" default:"0"`
	PromptStyle      string        `envconfig:"PROMPT_STYLE" default:"json"`
	PromptsDir       string        `envconfig:"PROMPTS_DIR"`
	// Secret, read from ai_api_key.
	AIAPIKey string `ignored:"true"`

	// Report storage
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	FreeReportTTL    time.Duration `envconfig:"FREE_REPORT_TTL" default:"24h"`
	PremiumReportTTL time.Duration `envconfig:"PREMIUM_REPORT_TTL" default:"168h"`
	// Secret, read from redis_password.
	RedisPassword string `ignored:"true"`

	// Generation audit in PostgreSQL
	ResultsDBEnabled bool          `envconfig:"RESULTS_DB_ENABLED" default:"false"`
	DBHost           string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string        `envconfig:"DB_PORT" default:"5432"`
	DBUser           string        `envconfig:"DB_USER" default:"postgres"`
	DBName           string        `envconfig:"DB_NAME" default:"lifelens"`
	DBSSLMode        string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns       int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout    time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Secret, read from db_password.
	DBPassword string `ignored:"true"`

	// Document pages, in millimetres
	PDFPageWidth  float64 `envconfig:"PDF_PAGE_WIDTH" default:"210"`
	PDFPageHeight float64 `envconfig:"PDF_PAGE_HEIGHT" default:"297"`
}

// LoadConfig reads an optional .env file, the environment and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	cfg.PromptStyle = strings.ToLower(strings.TrimSpace(cfg.PromptStyle))
	if cfg.AIModel == "" {
		cfg.AIModel = defaultModels[cfg.AIProvider]
	}
	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = defaultBaseURLs[cfg.AIProvider]
	}

	cfg.AIAPIKey = ReadSecretOrEnv("ai_api_key", "AI_API_KEY")
	cfg.RedisPassword = ReadSecretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.DBPassword = ReadSecretOrEnv("db_password", "DB_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
		if c.AIProvider != ProviderOllama && c.AIAPIKey == "" {
			return fmt.Errorf("invalid config: AI_PROVIDER=%s requires an API key (secret ai_api_key or AI_API_KEY)", c.AIProvider)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("invalid config: unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("invalid config: AI_TIMEOUT must be positive, got %v", c.AITimeout)
	}
	if c.AIMaxAttempts < 1 {
		return fmt.Errorf("invalid config: AI_MAX_ATTEMPTS must be at least 1, got %d", c.AIMaxAttempts)
	}
	if c.PromptStyle != PromptStyleJSON && c.PromptStyle != PromptStyleProse {
		return fmt.Errorf("invalid config: unknown PROMPT_STYLE %q", c.PromptStyle)
	}
	if c.FreeReportTTL <= 0 || c.PremiumReportTTL <= 0 {
		return fmt.Errorf("invalid config: report TTLs must be positive")
	}
	return nil
}

// GetAllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c *Config) maskedDSN() string {
	return fmt.Sprintf("postgres://%s:********@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LogSummary writes the loaded settings, without secrets.
func (c *Config) LogSummary(logger *zap.Logger) {
	fields := []zap.Field{
		zap.String("env", c.Env),
		zap.String("port", c.ServerPort),
		zap.String("ai_provider", c.AIProvider),
		zap.String("ai_model", c.AIModel),
		zap.String("ai_base_url", c.AIBaseURL),
		zap.Duration("ai_timeout", c.AITimeout),
		zap.Int("ai_max_attempts", c.AIMaxAttempts),
		zap.String("prompt_style", c.PromptStyle),
		zap.Bool("ai_api_key_set", c.AIAPIKey != ""),
		zap.String("redis_addr", c.RedisAddr),
		zap.Duration("free_report_ttl", c.FreeReportTTL),
		zap.Duration("premium_report_ttl", c.PremiumReportTTL),
		zap.Bool("results_db_enabled", c.ResultsDBEnabled),
	}
	if c.ResultsDBEnabled {
		fields = append(fields, zap.String("db_dsn", c.maskedDSN()))
	}
	logger.Info("Configuration loaded", fields...)
}
