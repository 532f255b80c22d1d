package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mykadocr/internal/logger"
	"mykadocr/internal/ocr"
	"mykadocr/internal/orientation"
)

type Config struct {
	// OCR engine selection
	OCREngine          string
	TesseractLanguages []string

	// Google Cloud Configuration (vision and documentai engines)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Extraction Configuration
	PostcodeDBPath    string
	MaxImageDimension int

	// Orientation scoring
	OrientKeywordWeight   float64
	OrientIDPatternWeight float64
	OrientEarlyExitScore  float64
	OrientEarlyExitLines  int
	OrientParallel        bool

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	defaults := orientation.DefaultParams()

	config := &Config{
		OCREngine:             getEnv("OCR_ENGINE", ocr.EngineTesseract),
		TesseractLanguages:    splitEnv("TESSERACT_LANGUAGES", ocr.DefaultLanguages),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		PostcodeDBPath:        getEnv("POSTCODE_DB_PATH", "malaysia_postcodes.json"),
		MaxImageDimension:     getEnvInt("MAX_IMAGE_DIMENSION", 1500),
		OrientKeywordWeight:   getEnvFloat("ORIENT_KEYWORD_WEIGHT", defaults.KeywordWeight),
		OrientIDPatternWeight: getEnvFloat("ORIENT_ID_PATTERN_WEIGHT", defaults.IDPatternWeight),
		OrientEarlyExitScore:  getEnvFloat("ORIENT_EARLY_EXIT_SCORE", defaults.EarlyExitScore),
		OrientEarlyExitLines:  getEnvInt("ORIENT_EARLY_EXIT_LINES", defaults.EarlyExitLines),
		OrientParallel:        getEnvBool("ORIENT_PARALLEL", false),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OCREngine {
	case ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI:
	default:
		return fmt.Errorf("OCR_ENGINE must be one of %s, %s, %s", ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI)
	}
	if c.OCREngine == ocr.EngineDocumentAI {
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the documentai engine")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the documentai engine")
		}
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("MAX_IMAGE_DIMENSION must not be negative")
	}
	return nil
}

// EngineConfig returns the OCR engine configuration.
func (c *Config) EngineConfig() ocr.Config {
	return ocr.Config{
		Kind:        c.OCREngine,
		Languages:   c.TesseractLanguages,
		ProjectID:   c.GoogleCloudProject,
		Location:    c.GoogleCloudLocation,
		ProcessorID: c.DocumentAIProcessorID,
	}
}

// OrientationParams returns the orientation selector parameters.
func (c *Config) OrientationParams() orientation.Params {
	params := orientation.DefaultParams()
	params.KeywordWeight = c.OrientKeywordWeight
	params.IDPatternWeight = c.OrientIDPatternWeight
	params.EarlyExitScore = c.OrientEarlyExitScore
	params.EarlyExitLines = c.OrientEarlyExitLines
	params.Parallel = c.OrientParallel
	return params
}

// GetLoggerConfig returns a logger configuration from the main config
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
