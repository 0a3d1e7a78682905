package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
	Gemini struct {
		APIKey     string `yaml:"api_key"`
		ModelName  string `yaml:"model_name"`
		MaxRetries int    `yaml:"max_retries"`
		Enabled    bool   `yaml:"enabled"`
	} `yaml:"gemini"`
	Storage struct {
		MediaDir string `yaml:"media_dir"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
}

// LoadConfig reads configuration from the specified YAML file. Secret fields
// may reference environment variables ("${GEMINI_API_KEY}").
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.Database.URL = os.ExpandEnv(config.Database.URL)
	config.Telegram.BotToken = os.ExpandEnv(config.Telegram.BotToken)
	config.Gemini.APIKey = os.ExpandEnv(config.Gemini.APIKey)
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)

	// Defaults
	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Gemini.ModelName == "" {
		config.Gemini.ModelName = "gemini-2.0-flash-exp"
	}
	if config.Gemini.MaxRetries == 0 {
		config.Gemini.MaxRetries = 3
	}
	if config.Storage.MediaDir == "" {
		config.Storage.MediaDir = "./storage/media"
	}

	return config, nil
}
