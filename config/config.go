// Package config loads the YAML configuration of the worldgen tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/eak1mov/go-libworld/compiler"
	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/layer"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// GridSize is the cell size in pixels. Zero uses the project's default.
	GridSize       int32        `yaml:"grid_size"`
	Spawn          grid.Pos     `yaml:"spawn"`
	TiltedTilesets []string     `yaml:"tilted_tilesets"`
	Layers         []LayerRule  `yaml:"layers"`
	Output         OutputConfig `yaml:"output"`
	Serve          ServeConfig  `yaml:"serve"`
	Cache          CacheConfig  `yaml:"cache"`
}

// LayerRule extends the default layer classification table.
type LayerRule struct {
	Name   string `yaml:"name"`
	Match  string `yaml:"match"`
	Kind   string `yaml:"kind"`
	Entity bool   `yaml:"entity"`
}

type OutputConfig struct {
	Format      string `yaml:"format"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
	Level       int    `yaml:"level"` // gzip level
}

type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

var formats = []string{"json", "flat", "sqlite"}

func Default() Config {
	return Config{
		TiltedTilesets: []string{"Wall"},
		Output: OutputConfig{
			Format:      "flat",
			Codec:       "msgpack",
			Compression: "gzip",
			Level:       spec.DefaultLevel,
		},
		Serve: ServeConfig{Addr: ":8080"},
		Cache: CacheConfig{AppName: "libworld"},
	}
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("libworld: unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Load reads filename. An empty filename yields Default.
func Load(filename string) (Config, error) {
	if filename == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("libworld: load %s: %w", filename, err)
	}
	config, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.GridSize < 0 {
		errs = append(errs, fmt.Errorf("grid_size must not be negative, got %d", c.GridSize))
	}
	if _, err := c.Rules(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}
	if _, err := spec.ParseCodec(c.Output.Codec); err != nil {
		errs = append(errs, err)
	}
	if _, err := spec.ParseCompression(c.Output.Compression); err != nil {
		errs = append(errs, err)
	}
	if err := spec.ValidateLevel(c.Output.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Enabled && c.Cache.AppName == "" {
		errs = append(errs, errors.New("cache.app_name is required when the cache is enabled"))
	}
	return errors.Join(errs...)
}

// Rules returns the default classification rules followed by the configured ones.
func (c *Config) Rules() ([]layer.Rule, error) {
	rules := append([]layer.Rule{}, layer.DefaultRules...)
	var errs []error
	for i, r := range c.Layers {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("layers[%d]: name is required", i))
			continue
		}
		kind, err := layer.ParseKind(r.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("layers[%d]: %w", i, err))
			continue
		}
		match, err := layer.ParseMatch(r.Match)
		if err != nil {
			errs = append(errs, fmt.Errorf("layers[%d]: %w", i, err))
			continue
		}
		rules = append(rules, layer.Rule{Name: r.Name, Match: match, Kind: kind, Entity: r.Entity})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

// CompilerOptions maps the configuration onto compiler options.
func (c *Config) CompilerOptions() ([]compiler.Option, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithSpawnPoint(c.Spawn),
		compiler.WithTilted(c.TiltedTilesets...),
		compiler.WithClassifier(layer.NewClassifier(rules...)),
	}
	if c.GridSize != 0 {
		opts = append(opts, compiler.WithGridSize(c.GridSize))
	}
	return opts, nil
}
