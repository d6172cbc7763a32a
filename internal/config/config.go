// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultGeminiModel = "gemini-2.0-flash"

type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	RapidAPIKey   string `yaml:"rapidapi_key"`
	//Path for downloaded CV files
	TempDir string `yaml:"temp_dir"`
	//Logging
	LogJSON bool `yaml:"log_json"`
	Debug   bool `yaml:"debug"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config.yaml: %w", err)
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}
	if key := os.Getenv("RAPIDAPI_KEY"); key != "" {
		cfg.RapidAPIKey = key
	}

	//Set default values if not set
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "smartapply")
	}

	//Validate required fields
	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.RapidAPIKey == "" {
		return nil, errors.New("RAPIDAPI_KEY is required")
	}

	return cfg, nil
}
