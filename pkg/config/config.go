// Package config provides configuration loading and management for the
// mrcalc voxel calculator. It handles loading configuration from YAML
// files and provides default values, the same way mrislicesto3d's own
// config package does.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Datatype enumerates the output file datatypes the calculator can be
// asked to emit. The zero value means "unset": the engine should infer
// Float32 or CFloat32 from the expression's complex-ness.
type Datatype string

const (
	Unset    Datatype = ""
	Float32  Datatype = "float32"
	Float64  Datatype = "float64"
	CFloat32 Datatype = "cfloat32"
	CFloat64 Datatype = "cfloat64"
	Int16    Datatype = "int16"
	Int32    Datatype = "int32"
	UInt16   Datatype = "uint16"
	UInt32   Datatype = "uint32"
)

// IsComplex reports whether the datatype stores a real and an
// imaginary component per voxel.
func (d Datatype) IsComplex() bool {
	return d == CFloat32 || d == CFloat64
}

// Valid reports whether d is one of the enumerated datatypes (or Unset).
func (d Datatype) Valid() bool {
	switch d {
	case Unset, Float32, Float64, CFloat32, CFloat64, Int16, Int32, UInt16, UInt32:
		return true
	default:
		return false
	}
}

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Processing parameters
	Processing struct {
		// NumThreads specifies how many worker threads evaluate tiles
		// in parallel. 0 means "run single-threaded"; this field left
		// unset at the zero value of the struct means "use
		// runtime.NumCPU()" — LoadConfig fills that in explicitly so
		// the distinction survives a round trip through YAML.
		NumThreads int `yaml:"numThreads"`

		// Datatype is the requested output datatype. The engine checks
		// only its complex-ness against the expression; the output file
		// is always written as float32 or complex64 voxels.
		Datatype Datatype `yaml:"datatype"`

		// Force permits overwriting an existing output path.
		Force bool `yaml:"force"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls whether progress is printed during evaluation.
		Verbose bool `yaml:"verbose"`

		// Quiet suppresses progress output entirely, overriding Verbose.
		Quiet bool `yaml:"quiet"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumThreads = runtime.NumCPU()
	cfg.Processing.Datatype = Unset
	cfg.Processing.Force = false

	cfg.Output.Verbose = true
	cfg.Output.Quiet = false

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if !cfg.Processing.Datatype.Valid() {
		return nil, fmt.Errorf("config: invalid datatype %q", cfg.Processing.Datatype)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
