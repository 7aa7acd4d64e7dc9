// Package config provides configuration loading and management for dicomviewer3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Window parameters
	Window struct {
		// Width is the fixed window width in pixels
		Width int `yaml:"width"`

		// Height is the fixed window height in pixels
		Height int `yaml:"height"`
	} `yaml:"window"`

	// Smoothing parameters for the Gaussian pre-filter applied before
	// range sampling, contour extraction and ray casting
	Smoothing struct {
		// StandardDeviation is the Gaussian sigma in voxels
		StandardDeviation float64 `yaml:"standardDeviation"`
	} `yaml:"smoothing"`

	// Resampling parameters applied when a series loads
	Resampling struct {
		// Isotropic inserts interpolated slices along z until the slice
		// spacing matches the in-plane pixel spacing
		Isotropic bool `yaml:"isotropic"`
	} `yaml:"resampling"`

	// Surface rendering parameters
	Surface struct {
		// ContourCount is the number of iso-contour levels extracted,
		// anchored at the current iso value down toward the range minimum
		ContourCount int `yaml:"contourCount"`
	} `yaml:"surface"`

	// RayCast rendering parameters
	RayCast struct {
		// SampleDistance is the ray-march step size in voxels
		SampleDistance float64 `yaml:"sampleDistance"`

		// Jitter randomizes the first sample along each ray to reduce
		// banding artifacts
		Jitter bool `yaml:"jitter"`

		// Shade enables gradient-based Lambert shading of samples
		Shade bool `yaml:"shade"`
	} `yaml:"rayCast"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Window geometry is fixed at startup
	cfg.Window.Width = 1200
	cfg.Window.Height = 800

	// Set default smoothing parameters
	cfg.Smoothing.StandardDeviation = 1.0

	// Set default resampling parameters
	cfg.Resampling.Isotropic = true

	// Set default surface parameters
	cfg.Surface.ContourCount = 3

	// Set default ray-cast parameters
	cfg.RayCast.SampleDistance = 0.5
	cfg.RayCast.Jitter = true
	cfg.RayCast.Shade = true

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
