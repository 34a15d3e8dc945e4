package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir    string `json:"log_dir"`
	StaticDir string `json:"static_dir"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Renderer settings
	Renderer RendererConfig `json:"renderer"`

	// Narration settings
	Narration NarrationConfig `json:"narration"`

	// Batch pipeline settings
	Batch BatchConfig `json:"batch"`

	// Shutdown timeout
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
}

type RendererConfig struct {
	// NavigationTimeout bounds page load plus network idle detection.
	NavigationTimeout time.Duration `json:"navigation_timeout"`

	// Settle delays give client-side rendering time to finish after the
	// network goes idle.
	SettleDelaySingle time.Duration `json:"settle_delay_single"`
	SettleDelayBatch  time.Duration `json:"settle_delay_batch"`

	// ChromeBin optionally overrides the browser binary path.
	ChromeBin string `json:"chrome_bin"`
}

type NarrationConfig struct {
	APIKey          string        `json:"-"`
	Model           string        `json:"model"`
	Temperature     float64       `json:"temperature"`
	MaxOutputTokens int64         `json:"max_output_tokens"`
	GenerateTimeout time.Duration `json:"generate_timeout"`

	// Character budgets applied to slide text before prompting.
	SingleTextLimit int `json:"single_text_limit"`
	BatchTextLimit  int `json:"batch_text_limit"`
}

type BatchConfig struct {
	// MaxSlides caps how many segmented slides are narrated per request.
	MaxSlides int `json:"max_slides"`

	// PacingInterval is the minimum gap between narration calls.
	PacingInterval time.Duration `json:"pacing_interval"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   getEnv("PORT", "3001"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:    getEnv("LOG_DIR", "./logs"),
		StaticDir: getEnv("STATIC_DIR", "./static"),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		CORS: CORSConfig{
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders: getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
		},

		Renderer: RendererConfig{
			NavigationTimeout: getEnvAsDuration("NAVIGATION_TIMEOUT", 30*time.Second),
			SettleDelaySingle: getEnvAsDuration("SETTLE_DELAY_SINGLE", 2*time.Second),
			SettleDelayBatch:  getEnvAsDuration("SETTLE_DELAY_BATCH", 3*time.Second),
			ChromeBin:         getEnv("CHROME_BIN", ""),
		},

		Narration: NarrationConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("NARRATION_MODEL", "gpt-4o-mini"),
			Temperature:     getEnvAsFloat("NARRATION_TEMPERATURE", 0.7),
			MaxOutputTokens: int64(getEnvAsInt("NARRATION_MAX_TOKENS", 300)),
			GenerateTimeout: getEnvAsDuration("GENERATE_TIMEOUT", 60*time.Second),
			SingleTextLimit: getEnvAsInt("SINGLE_TEXT_LIMIT", 2000),
			BatchTextLimit:  getEnvAsInt("BATCH_TEXT_LIMIT", 1500),
		},

		Batch: BatchConfig{
			MaxSlides:      getEnvAsInt("MAX_SLIDES", 50),
			PacingInterval: getEnvAsDuration("PACING_INTERVAL", 500*time.Millisecond),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.Renderer.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.Batch.MaxSlides <= 0 {
		return fmt.Errorf("max slides must be positive")
	}
	if c.Batch.PacingInterval < 0 {
		return fmt.Errorf("pacing interval must not be negative")
	}
	if c.Narration.SingleTextLimit <= 0 || c.Narration.BatchTextLimit <= 0 {
		return fmt.Errorf("text limits must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
