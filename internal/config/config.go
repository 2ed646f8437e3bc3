package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
)

// Config holds every environment-driven setting for the assessment pipeline.
type Config struct {
	// AWS Configuration
	AWSRegion string

	// Table naming follows the deployment convention
	// "<app>-<stage>-<entity>"; the individual table names may also be
	// overridden directly.
	AppName           string
	Stage             string
	AssetTable        string
	TextractJobTable  string
	DecisionTable     string
	AssetKeyIndexName string
	AssetIDIndexName  string

	// OCR Configuration
	OCRPollInterval time.Duration
	OCRMaxWait      time.Duration

	// LLM Configuration
	LLMProvider     string // bedrock, openai
	BedrockModelID  string
	OpenAIAPIKey    string
	OpenAIModel     string
	MaxOutputTokens int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment, applying defaults and
// validating required settings.
func Load() (*Config, error) {
	appName := getEnv("APP_NAME", "grants-assessment")
	stage := getEnv("STAGE", "dev")

	config := &Config{
		AWSRegion:         getEnv("AWS_REGION", "ap-southeast-2"),
		AppName:           appName,
		Stage:             stage,
		AssetTable:        getEnv("ASSET_TABLE", fmt.Sprintf("%s-%s-asset", appName, stage)),
		TextractJobTable:  getEnv("TEXTRACT_JOB_TABLE", fmt.Sprintf("%s-%s-textract-asset", appName, stage)),
		DecisionTable:     getEnv("DECISION_TABLE", fmt.Sprintf("%s-%s-bedrock-response", appName, stage)),
		AssetKeyIndexName: getEnv("ASSET_KEY_INDEX", "s3Key-index"),
		AssetIDIndexName:  getEnv("ASSET_ID_INDEX", "assetId-index"),
		OCRPollInterval:   getDurationEnv("OCR_POLL_INTERVAL_MS", 5000),
		OCRMaxWait:        getDurationEnv("OCR_MAX_WAIT_MS", 600000),
		LLMProvider:       getEnv("LLM_PROVIDER", "bedrock"),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxOutputTokens:   getIntEnv("LLM_MAX_OUTPUT_TOKENS", 2000),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:         getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required")
	}
	if c.OCRPollInterval <= 0 {
		return fmt.Errorf("OCR_POLL_INTERVAL_MS must be positive")
	}
	if c.OCRMaxWait <= 0 {
		return fmt.Errorf("OCR_MAX_WAIT_MS must be positive")
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("LLM_MAX_OUTPUT_TOKENS must be positive")
	}
	switch c.LLMProvider {
	case "bedrock":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be bedrock or openai, got %q", c.LLMProvider)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultMillis int) time.Duration {
	return time.Duration(getIntEnv(key, defaultMillis)) * time.Millisecond
}
