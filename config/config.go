// Package config reads and writes the skillkit YAML configuration file.
// Every field is optional; a missing file or empty value falls back to the
// compiled defaults, so a bare install works without any configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bobmatnyc/mcp-skillkit/ai"
	"github.com/bobmatnyc/mcp-skillkit/search"
)

// Embedding configures the embedding service connection.
type Embedding struct {
	Host  string `yaml:"host,omitempty"`
	Model string `yaml:"model,omitempty"`
	Token string `yaml:"token,omitempty"`
}

// HybridSearch configures how vector and graph scores are blended.
// Mode names a preset; explicit weights override it.
type HybridSearch struct {
	Mode         string  `yaml:"mode,omitempty"`
	VectorWeight float64 `yaml:"vector_weight,omitempty"`
	GraphWeight  float64 `yaml:"graph_weight,omitempty"`
}

// Config is the in-memory representation of ~/.skillkit/config.yaml.
type Config struct {
	DataDir      string       `yaml:"data_dir,omitempty"`
	Embedding    Embedding    `yaml:"embedding,omitempty"`
	HybridSearch HybridSearch `yaml:"hybrid_search,omitempty"`
}

// Dir returns the absolute path to ~/.skillkit/.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".skillkit"), nil
}

// Path returns the absolute path to ~/.skillkit/config.yaml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the Config used when no file exists.
func Default() *Config {
	return &Config{
		HybridSearch: HybridSearch{Mode: search.ModeBalanced},
	}
}

// Load reads and parses a config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return &cfg, nil
}

// Save marshals cfg and writes it to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// DatabaseDir resolves the storage directory, defaulting to ~/.skillkit/db.
func (c *Config) DatabaseDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db"), nil
}

// AIConfig builds the embedding service configuration, falling back to the
// ai package defaults for unset fields.
func (c *Config) AIConfig() *ai.Config {
	var opts []ai.ConfigOption
	if c.Embedding.Host != "" {
		opts = append(opts, ai.WithEmbeddingHost(c.Embedding.Host))
	}
	if c.Embedding.Model != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.Embedding.Model))
	}
	if c.Embedding.Token != "" {
		opts = append(opts, ai.WithAPIToken(c.Embedding.Token))
	}
	return ai.NewConfig(opts...)
}

// SearchConfig builds the score weighting. Explicit weights win over the
// mode preset; with neither set the balanced default applies.
func (c *Config) SearchConfig() (*search.Config, error) {
	if c.HybridSearch.VectorWeight != 0 || c.HybridSearch.GraphWeight != 0 {
		return search.NewConfig(c.HybridSearch.VectorWeight, c.HybridSearch.GraphWeight)
	}
	if c.HybridSearch.Mode != "" {
		return search.ModeConfig(c.HybridSearch.Mode)
	}
	return search.DefaultConfig(), nil
}
