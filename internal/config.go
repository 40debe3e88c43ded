package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	BackendPixel  = "pixel"
	BackendRemote = "remote"

	DefaultK = 10
)

type EmbeddingsConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	Grid      int    `yaml:"grid,omitempty"`
}

type ClassifierConfig struct {
	K            int    `yaml:"k"`
	Metric       string `yaml:"metric"`
	DefaultLabel string `yaml:"default_label"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Classifier      ClassifierConfig          `yaml:"classifier"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			Backend: BackendPixel,
			Grid:    DefaultGrid,
		},
		Classifier: ClassifierConfig{
			K:            DefaultK,
			Metric:       string(MetricEuclidean),
			DefaultLabel: DefaultLabel,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// LoadConfig reads the config at path, or the default location when
// path is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Classifier.K == 0 {
		cfg.Classifier.K = DefaultK
	}
	if cfg.Classifier.DefaultLabel == "" {
		cfg.Classifier.DefaultLabel = DefaultLabel
	}

	if _, err := ParseMetric(cfg.Classifier.Metric); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "teachable", "config.yml"), nil
}
