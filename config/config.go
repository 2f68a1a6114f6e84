// Package config loads semtag configuration from YAML files.
//
// Every section is optional; omitted keys keep the package defaults.
// Environment variables in the file are expanded before decoding:
//
//	server:
//	  address: ${SEMTAG_ADDRESS}
//	log:
//	  level: debug
//	  format: json
//	tables:
//	  min_columns: 3
//	semantic:
//	  ignored_types: [Form, Note]
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/semtag"
	"github.com/tsawler/semtag/extract"
	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/semantic"
	"github.com/tsawler/semtag/tables"
)

type Config struct {
	Merge    merge.Config    `yaml:"merge"`
	Semantic semantic.Config `yaml:"semantic"`
	Tables   tables.Config   `yaml:"tables"`
	Extract  extract.Config  `yaml:"extract"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// Format is text or json
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Address string `yaml:"address"`

	// MaxBodyBytes limits the size of posted trees
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Merge:    merge.DefaultConfig(),
		Semantic: semantic.DefaultConfig(),
		Tables:   tables.DefaultConfig(),
		Extract:  extract.DefaultConfig(),

		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},

		Server: ServerConfig{
			Address:      ":8080",
			MaxBodyBytes: 32 << 20,
		},
	}
}

// Parse reads the file at path over the defaults
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r over the defaults. Unknown keys are an error.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	c := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks values the packages cannot work with
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Tables.MinColumns < 1 {
		return fmt.Errorf("tables.min_columns must be at least 1, got %d", c.Tables.MinColumns)
	}

	if c.Semantic.PromotionThreshold < 0 || c.Semantic.PromotionThreshold > 1 {
		return fmt.Errorf("semantic.promotion_threshold must be in [0,1], got %v", c.Semantic.PromotionThreshold)
	}

	return nil
}

// Logger builds the configured handler writing to w
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)

	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Checker returns a checker configured from c
func (c *Config) Checker(logger *slog.Logger) *semtag.Checker {
	return semtag.New().
		WithMergeConfig(c.Merge).
		WithSemanticConfig(c.Semantic).
		WithTableConfig(c.Tables).
		WithExtractConfig(c.Extract).
		WithLogger(logger)
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}

	return level, nil
}
