package config

import (
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Vitals VitalsConfig `yaml:"vitals"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type LLMConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type VitalsConfig struct {
	ContextFile string `yaml:"context_file"`
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_PATH, default config.yaml), and environment variables, in
// increasing order of precedence. Database settings are read from the
// environment directly by the database package.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: "8000",
			Mode: "debug",
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Vitals: VitalsConfig{
			ContextFile: "patient_data.json",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			klog.Warningf("Failed to parse config file %s: %v", configPath, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		cfg.LLM.Model = model
	}
	if contextFile := os.Getenv("VITALS_CONTEXT_FILE"); contextFile != "" {
		cfg.Vitals.ContextFile = contextFile
	}

	return cfg
}
