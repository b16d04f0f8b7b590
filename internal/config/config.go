// Package config loads copair settings from YAML or TOML files.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/overlap"
)

// Header detection modes for the first input row.
const (
	HeaderAuto   = ingest.HeaderAuto
	HeaderAlways = ingest.HeaderAlways
	HeaderNever  = ingest.HeaderNever
)

// Config is the complete copair configuration.
type Config struct {
	Dates   DatesConfig   `yaml:"dates" toml:"dates"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Compute ComputeConfig `yaml:"compute" toml:"compute"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
}

// DatesConfig controls date-token parsing.
type DatesConfig struct {
	// Layouts are Go time layouts tried in order.
	Layouts []string `yaml:"layouts" toml:"layouts"`
}

// InputConfig controls how uploaded tables are read and coerced.
type InputConfig struct {
	// Header is auto, always or never.
	Header string `yaml:"header" toml:"header"`

	// MaxRows rejects larger inputs before the quadratic scan. 0 disables the guard.
	MaxRows int `yaml:"max_rows" toml:"max_rows"`

	// Sheet selects the xlsx worksheet; empty means the first sheet.
	Sheet string `yaml:"sheet" toml:"sheet"`
}

// ComputeConfig controls the pair scan.
type ComputeConfig struct {
	// Workers is the goroutine budget for the chunked scan. 0 means GOMAXPROCS.
	Workers int `yaml:"workers" toml:"workers"`

	// ParallelThreshold is the row count at which the chunked scan is used.
	ParallelThreshold int `yaml:"parallel_threshold" toml:"parallel_threshold"`
}

// StoreConfig locates the run-history database.
type StoreConfig struct {
	// Path to the SQLite file. Empty disables history.
	Path string `yaml:"path" toml:"path"`
}

// ServerConfig controls the HTTP upload server.
type ServerConfig struct {
	Addr           string `yaml:"addr" toml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dates: DatesConfig{
			Layouts: append([]string(nil), overlap.DefaultLayouts...),
		},
		Input: InputConfig{
			Header:  HeaderAuto,
			MaxRows: 20000,
		},
		Compute: ComputeConfig{
			Workers:           1,
			ParallelThreshold: overlap.DefaultParallelThreshold,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			MaxUploadBytes: 10 << 20,
		},
	}
}

// Load reads a config file over the defaults. The format is chosen by
// extension: .yaml/.yml or .toml. An empty path returns Default().
//
// Unknown keys are rejected to catch typos.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .toml", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if len(c.Dates.Layouts) == 0 {
		return fmt.Errorf("dates.layouts must be non-empty")
	}
	for i, l := range c.Dates.Layouts {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("dates.layouts[%d] is empty", i)
		}
	}

	switch c.Input.Header {
	case HeaderAuto, HeaderAlways, HeaderNever:
	default:
		return fmt.Errorf("input.header must be one of auto, always, never; got %q", c.Input.Header)
	}
	if c.Input.MaxRows < 0 {
		return fmt.Errorf("input.max_rows must be non-negative")
	}

	if c.Compute.Workers < 0 {
		return fmt.Errorf("compute.workers must be non-negative")
	}
	if c.Compute.ParallelThreshold < 0 {
		return fmt.Errorf("compute.parallel_threshold must be non-negative")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// EffectiveWorkers resolves Workers=0 to GOMAXPROCS.
func (c *Config) EffectiveWorkers() int {
	if c.Compute.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Compute.Workers
}

// DateParser builds a parser for the configured layouts.
func (c *Config) DateParser() *overlap.DateParser {
	return overlap.NewDateParser(c.Dates.Layouts...)
}

// ReadOptions returns the table-reading options of the input section.
func (c *Config) ReadOptions() ingest.ReadOptions {
	return ingest.ReadOptions{Sheet: c.Input.Sheet}
}

// CoerceOptions returns the row-validation options of the input and dates sections.
func (c *Config) CoerceOptions() ingest.CoerceOptions {
	return ingest.CoerceOptions{Header: c.Input.Header, Parser: c.DateParser()}
}

// AggregatorOptions returns the overlap options implied by the compute section.
func (c *Config) AggregatorOptions() []overlap.Option {
	return []overlap.Option{
		overlap.WithWorkers(c.EffectiveWorkers()),
		overlap.WithParallelThreshold(c.Compute.ParallelThreshold),
	}
}
