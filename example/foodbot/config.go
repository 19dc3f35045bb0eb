package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`

	PlacesBaseURL string `json:"places_base_url"`
	PlacesAPIKey  string `json:"places_api_key"`

	RedisAddr string `json:"redis_addr,omitempty"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := sonic.Unmarshal(file, &conf); err != nil {
		return nil, err
	}
	if conf.APIKey == "" {
		conf.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if conf.Model == "" {
		conf.Model = "gpt-4o"
	}
	return &conf, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q, PlacesBaseURL:%q}", c.BaseURL, c.Model, c.PlacesBaseURL)
}
