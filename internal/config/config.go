package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"paintbrush/internal/clump"
	"paintbrush/internal/colormetric"
	"paintbrush/internal/grid"
	"paintbrush/internal/imageio"
	"paintbrush/internal/pipeline"
)

// Strategy names accepted in config files and flags.
const (
	ConnectivityFour  = "four"
	ConnectivityEight = "eight"
	RecolorMean       = "mean"
	RecolorSeed       = "seed"
)

// Config holds effect parameters and output settings.
type Config struct {
	// Effect settings
	Alpha        *float64 `json:"alpha,omitempty"`
	Radius       *int     `json:"radius,omitempty"`
	Metric       string   `json:"metric"`
	Connectivity string   `json:"connectivity"`
	Recolor      string   `json:"recolor"`

	// Output settings
	OutputDir   string `json:"output_dir"`
	JPEGQuality int    `json:"jpeg_quality"`
	Workers     int    `json:"workers"`
	Open        bool   `json:"open"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Nil pointers and empty strings mean "not given".
type Flags struct {
	Alpha        *float64
	Radius       *int
	Metric       string
	Connectivity string
	Recolor      string
	OutputDir    string
	Quality      int
	Workers      int
	Open         bool
}

// Resolve applies CLI overrides, then fills any remaining gaps with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Alpha != nil {
		v := *flags.Alpha
		c.Alpha = &v
	}
	if flags.Radius != nil {
		v := *flags.Radius
		c.Radius = &v
	}
	if flags.Metric != "" {
		c.Metric = flags.Metric
	}
	if flags.Connectivity != "" {
		c.Connectivity = flags.Connectivity
	}
	if flags.Recolor != "" {
		c.Recolor = flags.Recolor
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.JPEGQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Open {
		c.Open = true
	}

	// Defaults
	if c.Alpha == nil {
		v := pipeline.DefaultAlpha
		c.Alpha = &v
	}
	if c.Radius == nil {
		v := pipeline.DefaultRadius
		c.Radius = &v
	}
	if c.Metric == "" {
		c.Metric = colormetric.NameEuclidean
	}
	if c.Connectivity == "" {
		c.Connectivity = ConnectivityFour
	}
	if c.Recolor == "" {
		c.Recolor = RecolorMean
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = imageio.DefaultQuality
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Params converts a resolved config into pipeline parameters, rejecting
// unknown strategy names and out-of-range values.
func (c *Config) Params() (pipeline.Params, error) {
	p := pipeline.DefaultParams()
	if c.Alpha != nil {
		p.Alpha = *c.Alpha
	}
	if c.Radius != nil {
		p.Radius = *c.Radius
	}
	p.Workers = c.Workers

	metric, err := colormetric.ByName(c.Metric)
	if err != nil {
		return pipeline.Params{}, fmt.Errorf("config: %w", err)
	}
	p.Metric = metric

	switch c.Connectivity {
	case "", ConnectivityFour:
		p.Connectivity = clump.Four
	case ConnectivityEight:
		p.Connectivity = clump.Eight
	default:
		return pipeline.Params{}, fmt.Errorf("config: unknown connectivity %q: %w", c.Connectivity, grid.ErrInvalidArgument)
	}

	switch c.Recolor {
	case "", RecolorMean:
		p.Recolor = clump.Mean
	case RecolorSeed:
		p.Recolor = clump.Seed
	default:
		return pipeline.Params{}, fmt.Errorf("config: unknown recolor rule %q: %w", c.Recolor, grid.ErrInvalidArgument)
	}

	if err := p.Validate(); err != nil {
		return pipeline.Params{}, fmt.Errorf("config: %w", err)
	}
	return p, nil
}
