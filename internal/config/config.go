package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port       string `yaml:"port"`
	StaticDir  string `yaml:"staticDir"`
	CORSOrigin string `yaml:"corsOrigin"`

	// Logging
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// Limits
	MaxUploadBytes int64 `yaml:"maxUploadBytes"`

	// Concurrency
	MaxConnections        int   `yaml:"maxConnections"`
	MaxConcurrentRequests int64 `yaml:"maxConcurrentRequests"`
	MaxOCRConcurrent      int64 `yaml:"maxOcrConcurrent"`

	// OCR
	OCREngine         string        `yaml:"ocrEngine"` // cli or library
	TesseractPath     string        `yaml:"tesseractPath"`
	OCRLanguage       string        `yaml:"ocrLanguage"`
	OCRAttemptTimeout time.Duration `yaml:"ocrAttemptTimeout"`

	// Image preprocessing
	CropTallImages bool `yaml:"cropTallImages"`

	// Server timeouts
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`

	// Request timeouts
	ExtractTimeout time.Duration `yaml:"extractTimeout"`

	// rate limiting (per IP)
	RateLimitEvery time.Duration `yaml:"rateLimitEvery"`
	RateLimitBurst int           `yaml:"rateLimitBurst"`

	// housekeeping
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
}

const (
	EngineLibrary = "library"
	EngineCLI     = "cli"
)

// Defaults mirrors the limits the upload UI advertises (20MB, png/jpeg/webp/pdf).
func Defaults() Config {
	return Config{
		Port:       "8080",
		CORSOrigin: "*",

		LogLevel:  "info",
		LogFormat: "json",

		MaxUploadBytes: 20 << 20,

		MaxConnections:        256,
		MaxConcurrentRequests: 15,
		MaxOCRConcurrent:      4,

		OCREngine:         EngineCLI,
		TesseractPath:     "tesseract",
		OCRLanguage:       "eng",
		OCRAttemptTimeout: 60 * time.Second,

		CropTallImages: true,

		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,

		ExtractTimeout: 150 * time.Second,

		RateLimitEvery: 600 * time.Millisecond,
		RateLimitBurst: 20,

		CleanupInterval: 5 * time.Minute,
	}
}

// Load layers configuration: defaults, then the YAML file named by CONFIG_FILE
// (if any), then environment variables. A .env file in the working directory
// is loaded into the environment first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := envStr("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envStr("PORT", cfg.Port)
	cfg.StaticDir = envStr("STATIC_DIR", cfg.StaticDir)
	cfg.CORSOrigin = envStr("CORS_ORIGIN", cfg.CORSOrigin)

	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envStr("LOG_FORMAT", cfg.LogFormat)

	cfg.MaxUploadBytes = int64(envInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))

	cfg.MaxConnections = envInt("MAX_CONNECTIONS", cfg.MaxConnections)
	cfg.MaxConcurrentRequests = int64(envInt("MAX_CONCURRENT_REQUESTS", int(cfg.MaxConcurrentRequests)))
	cfg.MaxOCRConcurrent = int64(envInt("MAX_OCR_CONCURRENT", int(cfg.MaxOCRConcurrent)))

	cfg.OCREngine = strings.ToLower(envStr("OCR_ENGINE", cfg.OCREngine))
	cfg.TesseractPath = envStr("TESSERACT_PATH", cfg.TesseractPath)
	cfg.OCRLanguage = envStr("OCR_LANGUAGE", cfg.OCRLanguage)
	cfg.OCRAttemptTimeout = envDur("OCR_ATTEMPT_TIMEOUT", cfg.OCRAttemptTimeout)

	cfg.CropTallImages = envBool("CROP_TALL_IMAGES", cfg.CropTallImages)

	cfg.ReadHeaderTimeout = envDur("READ_HEADER_TIMEOUT", cfg.ReadHeaderTimeout)
	cfg.ReadTimeout = envDur("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = envDur("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = envDur("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = envDur("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.ExtractTimeout = envDur("EXTRACT_TIMEOUT", cfg.ExtractTimeout)

	cfg.RateLimitEvery = envDur("RATE_LIMIT_EVERY", cfg.RateLimitEvery)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)

	cfg.CleanupInterval = envDur("CLEANUP_INTERVAL", cfg.CleanupInterval)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MaxUploadBytes < 1<<10 || c.MaxUploadBytes > 1<<30 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be between 1KB and 1GB, got %d", c.MaxUploadBytes)
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive, got %d", c.MaxConnections)
	}
	if c.MaxConcurrentRequests < 1 {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must be positive, got %d", c.MaxConcurrentRequests)
	}
	if c.MaxOCRConcurrent < 1 {
		return fmt.Errorf("MAX_OCR_CONCURRENT must be positive, got %d", c.MaxOCRConcurrent)
	}
	switch c.OCREngine {
	case EngineLibrary, EngineCLI:
	default:
		return fmt.Errorf("OCR_ENGINE must be %q or %q, got %q", EngineLibrary, EngineCLI, c.OCREngine)
	}
	if strings.TrimSpace(c.OCRLanguage) == "" {
		return fmt.Errorf("OCR_LANGUAGE is required")
	}
	if c.OCRAttemptTimeout <= 0 || c.ExtractTimeout <= 0 {
		return fmt.Errorf("OCR_ATTEMPT_TIMEOUT and EXTRACT_TIMEOUT must be positive")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
