package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-doa/estimation"
	"gopkg.in/yaml.v3"
)

const (
	ArrayTypeULA = "ula"
	ArrayTypeUCA = "uca"

	GridFarField1D = "farfield1d"
	GridFarField2D = "farfield2d"

	MethodBartlett = "bartlett"
	MethodMVDR     = "mvdr"
	MethodMUSIC    = "music"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes one simulated estimation scenario
type Config struct {
	Settings   Settings        `yaml:"settings"`
	Array      ArrayConfig     `yaml:"array"`
	Wavelength float64         `yaml:"wavelength"`
	Sources    SourcesConfig   `yaml:"sources"`
	Grid       GridConfig      `yaml:"grid"`
	Estimator  EstimatorConfig `yaml:"estimator"`
	Output     OutputConfig    `yaml:"output"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
	Seed     int64  `yaml:"seed"`
}

// ArrayConfig selects the sensor geometry
type ArrayConfig struct {
	Type    string  `yaml:"type"`
	Sensors int     `yaml:"sensors"`
	Spacing float64 `yaml:"spacing"`
	Radius  float64 `yaml:"radius"`
}

// SourcesConfig describes the emitters and the snapshot model
type SourcesConfig struct {
	Unit      string      `yaml:"unit"`
	Locations [][]float64 `yaml:"locations"`
	Power     float64     `yaml:"power"`
	SNR       float64     `yaml:"snr"`
	Snapshots int         `yaml:"snapshots"`
}

// GridConfig describes the base search grid, one entry per axis
type GridConfig struct {
	Kind  string    `yaml:"kind"`
	Unit  string    `yaml:"unit"`
	Start []float64 `yaml:"start"`
	Stop  []float64 `yaml:"stop"`
	Size  []int     `yaml:"size"`
}

// EstimatorConfig selects the spectrum and the estimate options
type EstimatorConfig struct {
	Method                    string `yaml:"method"`
	Taper                     string `yaml:"taper"`
	Unit                      string `yaml:"unit"`
	estimation.EstimateConfig `yaml:",inline"`
}

// OutputConfig selects optional artifacts. Plot is an image path whose
// extension picks the format (png, svg, pdf).
type OutputConfig struct {
	Plot string `yaml:"plot"`
}

// DefaultConfig returns the 8-sensor half-wavelength ULA scenario
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: "info", Seed: 128},
		Array: ArrayConfig{
			Type:    ArrayTypeULA,
			Sensors: 8,
			Spacing: 0.5,
		},
		Wavelength: 1.0,
		Sources: SourcesConfig{
			Unit:      "rad",
			Power:     1.0,
			SNR:       10,
			Snapshots: 100,
		},
		Grid: GridConfig{
			Kind:  GridFarField1D,
			Unit:  "rad",
			Start: []float64{-1.5},
			Stop:  []float64{1.5},
			Size:  []int{361},
		},
		Estimator: EstimatorConfig{
			Method:         MethodMVDR,
			Unit:           "rad",
			EstimateConfig: estimation.DefaultEstimateConfig(),
		},
	}
}

// LoadConfig reads a YAML scenario on top of DefaultConfig
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML scenario
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts of the scenario that the libraries do not
func (c *Config) Validate() error {
	switch c.Array.Type {
	case ArrayTypeULA, ArrayTypeUCA:
	default:
		return fmt.Errorf("%w: array type %q", ErrInvalidConfig, c.Array.Type)
	}

	dims := 1
	switch c.Grid.Kind {
	case GridFarField1D:
	case GridFarField2D:
		dims = 2
	default:
		return fmt.Errorf("%w: grid kind %q", ErrInvalidConfig, c.Grid.Kind)
	}
	if len(c.Grid.Start) != dims || len(c.Grid.Stop) != dims || len(c.Grid.Size) != dims {
		return fmt.Errorf("%w: %s grid needs %d start/stop/size values", ErrInvalidConfig, c.Grid.Kind, dims)
	}

	if len(c.Sources.Locations) == 0 {
		return fmt.Errorf("%w: no source locations", ErrInvalidConfig)
	}
	for i, loc := range c.Sources.Locations {
		if len(loc) != dims {
			return fmt.Errorf("%w: source %d has %d coordinates, grid has %d axes", ErrInvalidConfig, i, len(loc), dims)
		}
	}

	switch c.Estimator.Method {
	case MethodBartlett, MethodMVDR, MethodMUSIC:
	default:
		return fmt.Errorf("%w: estimator method %q", ErrInvalidConfig, c.Estimator.Method)
	}
	if c.Estimator.Taper != "" && c.Estimator.Method != MethodBartlett {
		return fmt.Errorf("%w: taper is only supported by the bartlett method", ErrInvalidConfig)
	}

	return nil
}
