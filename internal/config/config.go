// Package config provides YAML-based configuration for the assistant server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/weblog-assistant/backend/internal/logging"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	LLM      LLMConfig      `yaml:"llm"`
	Sessions SessionConfig  `yaml:"sessions"`
	Logging  logging.Config `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// LogConfig locates the access log corpus the engine scans.
type LogConfig struct {
	AccessLogPath string `yaml:"accessLogPath"`
}

// LLMConfig selects and configures the external model provider.
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // googleai, openai, ollama
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"apiKey"` // overridden by the provider's env var when set
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	Temperature    float64 `yaml:"temperature"`
}

// SessionConfig tunes session retention. A zero TimeoutMinutes keeps
// sessions for the process lifetime.
type SessionConfig struct {
	TimeoutMinutes         int `yaml:"timeoutMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 120,
			IdleTimeout:  120,
			BodyLimit:    "1M",
		},
		Log: LogConfig{
			AccessLogPath: "./data/access.log",
		},
		LLM: LLMConfig{
			Provider:       "googleai",
			Model:          "gemini-2.0-flash",
			TimeoutSeconds: 60,
			Temperature:    1,
		},
		Sessions: SessionConfig{
			TimeoutMinutes:         0,
			CleanupIntervalMinutes: 5,
		},
		Logging: logging.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Log.AccessLogPath == "" {
		return nil, fmt.Errorf("log.accessLogPath must be set")
	}
	return cfg, nil
}

// applyEnvironmentOverrides lets the environment override file values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if path := os.Getenv("ACCESS_LOG_PATH"); path != "" {
		c.Log.AccessLogPath = path
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.Provider == "googleai" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.Provider == "openai" {
		c.LLM.APIKey = key
	}
}

// GetServerAddr returns the listen address in host:port form.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}
