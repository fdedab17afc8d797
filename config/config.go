package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/krisalay/hashring/hashring"
)

// Config is the root configuration of the demonstration driver.
type Config struct {
	Logger  LoggerConfig  `yaml:"logger"`
	Ring    RingConfig    `yaml:"ring"`
	Demo    DemoConfig    `yaml:"demo"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// RingConfig describes the ring built from the node list.
type RingConfig struct {
	Replicas int      `yaml:"replicas"`
	Hasher   string   `yaml:"hasher"`
	Nodes    []string `yaml:"nodes"`
}

// DemoConfig controls the sample lookups: keys are "<prefix>-<i>".
type DemoConfig struct {
	Keys         int    `yaml:"keys"`
	SamplePrefix string `yaml:"sample_prefix"`
	Replicas     int    `yaml:"replicas"`
}

// MetricsConfig enables the scrape endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a baseline development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{Level: "info"},
		Ring: RingConfig{
			Replicas: 3,
			Hasher:   "xxhash",
			Nodes: []string{
				"127.0.0.1:8081",
				"127.0.0.1:8082",
				"127.0.0.1:8083",
			},
		},
		Demo: DemoConfig{
			Keys:         10,
			SamplePrefix: "MyData",
			Replicas:     2,
		},
	}
}

// Load reads a YAML config from path on top of Default.
// A missing file is not an error: the defaults are returned as is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("config file not found, using default config", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot express through YAML types.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Ring.Replicas < 0 {
		return fmt.Errorf("ring.replicas must be >= 0, got %d", c.Ring.Replicas)
	}
	if _, err := hashring.HasherByName(c.Ring.Hasher); err != nil {
		return fmt.Errorf("ring.hasher: %w", err)
	}
	if len(c.Ring.Nodes) == 0 {
		return errors.New("ring.nodes must not be empty")
	}
	for i, n := range c.Ring.Nodes {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("ring.nodes[%d] is blank", i)
		}
	}
	if c.Demo.Keys < 0 {
		return fmt.Errorf("demo.keys must be >= 0, got %d", c.Demo.Keys)
	}
	return nil
}

// SlogLevel maps Logger.Level onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Logger.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger.level: unknown level %q", c.Logger.Level)
	}
}

// RingNodes converts the configured node list into ring nodes.
func (c *Config) RingNodes() []hashring.Node {
	nodes := make([]hashring.Node, 0, len(c.Ring.Nodes))
	for _, n := range c.Ring.Nodes {
		nodes = append(nodes, hashring.Node(strings.TrimSpace(n)))
	}
	return nodes
}
