package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// S3 archive; disabled when S3Endpoint is empty
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Router service (model selection and usage logs)
	RouterURL    string
	RouterQuery  string
	DefaultModel string

	// Chat model
	LLMBaseURL        string
	LLMTemperature    float64
	GenerationTimeout time.Duration
	UsageLogStrict    bool

	// Upload limits
	MaxFileSize int64

	// Generation rate limit
	RateLimitRPS   float64
	RateLimitBurst int

	// Field labels for the medical record parser, from CONFIG_FILE
	Parser ParserLabels
}

// ParserLabels holds the "label:" prefixes searched for in medical records.
type ParserLabels struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type fileConfig struct {
	Parser ParserLabels `yaml:"parser"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/appeals.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "appeals"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		RouterURL:         getEnv("ROUTER_URL", "http://localhost:8000"),
		RouterQuery:       getEnv("ROUTER_QUERY", "Summarize medical appeal"),
		DefaultModel:      getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		UsageLogStrict:    getEnv("USAGE_LOG_STRICT", "true") == "true",
		Parser:            DefaultParserLabels(),
	}

	var err error
	if cfg.LLMTemperature, err = getEnvFloat("LLM_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getEnvDuration("GENERATION_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)
	if cfg.MaxFileSize, err = getEnvInt("MAX_FILE_SIZE", 5<<20); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func DefaultParserLabels() ParserLabels {
	return ParserLabels{
		Name:    "Patient Name",
		Address: "Address",
		Phone:   "Phone",
		Email:   "Email",
	}
}

func (c *Config) Validate() error {
	if c.RouterURL == "" {
		return fmt.Errorf("ROUTER_URL is required")
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("DEFAULT_MODEL is required")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.LLMTemperature)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// S3Enabled reports whether uploaded documents and letters are archived.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

// mergeFile overlays non-empty values from a YAML file.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	if fc.Parser.Name != "" {
		c.Parser.Name = fc.Parser.Name
	}
	if fc.Parser.Address != "" {
		c.Parser.Address = fc.Parser.Address
	}
	if fc.Parser.Phone != "" {
		c.Parser.Phone = fc.Parser.Phone
	}
	if fc.Parser.Email != "" {
		c.Parser.Email = fc.Parser.Email
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
