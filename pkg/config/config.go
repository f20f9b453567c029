// Package config handles bricklayer configuration loading and validation.
package config

import (
	"fmt"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/kernel"
)

// Config holds all run settings.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Assets    AssetsConfig    `yaml:"assets"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scale     ScaleConfig     `yaml:"scale"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// OutputConfig controls where and how meshes are written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Compress bool   `yaml:"compress"` // zstd-compress each file
	Format   string `yaml:"format"`
	Scene    bool   `yaml:"scene"` // export bricks at their session offset
}

// MeshConfig holds tessellation settings.
type MeshConfig struct {
	LinearTolerance  float64 `yaml:"linear_tolerance"`
	AngularTolerance float64 `yaml:"angular_tolerance"`
	Renderer         string  `yaml:"renderer"`
	MaxCells         int     `yaml:"max_cells"`
}

// AssetsConfig holds paths to external assets.
type AssetsConfig struct {
	FontPath string `yaml:"font_path"` // TrueType font for labels
}

// BatchConfig holds batch driver settings.
type BatchConfig struct {
	Workers int  `yaml:"workers"`
	DryRun  bool `yaml:"dry_run"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"file"`
}

// ScaleConfig overrides the built-in brick constants.
type ScaleConfig struct {
	Small brick.Scale `yaml:"small"`
	Big   brick.Scale `yaml:"big"`
}

// TelemetryConfig holds tracing settings. An empty endpoint disables tracing.
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "out",
			Format: FormatSTL,
		},
		Mesh: MeshConfig{
			LinearTolerance:  kernel.DefaultTolerance.Linear,
			AngularTolerance: kernel.DefaultTolerance.Angular,
			Renderer:         "octree",
			MaxCells:         400,
		},
		Batch: BatchConfig{
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Scale: ScaleConfig{
			Small: brick.SmallScale,
			Big:   brick.BigScale,
		},
	}
}

// FormatSTL is the only supported output format.
const FormatSTL = "stl"

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate rejects values no run can use.
func (c *Config) Validate() error {
	switch {
	case c.Output.Dir == "":
		return fmt.Errorf("config: output.dir must be set")
	case c.Output.Format != FormatSTL:
		return fmt.Errorf("config: output.format %q is not supported", c.Output.Format)
	case c.Mesh.LinearTolerance <= 0:
		return fmt.Errorf("config: mesh.linear_tolerance must be positive, got %g", c.Mesh.LinearTolerance)
	case c.Mesh.AngularTolerance <= 0:
		return fmt.Errorf("config: mesh.angular_tolerance must be positive, got %g", c.Mesh.AngularTolerance)
	case c.Mesh.Renderer != "octree" && c.Mesh.Renderer != "uniform":
		return fmt.Errorf("config: mesh.renderer %q must be octree or uniform", c.Mesh.Renderer)
	case c.Mesh.MaxCells < 16:
		return fmt.Errorf("config: mesh.max_cells must be at least 16, got %d", c.Mesh.MaxCells)
	case c.Batch.Workers < 1:
		return fmt.Errorf("config: batch.workers must be at least 1, got %d", c.Batch.Workers)
	case !logLevels[c.Logging.Level]:
		return fmt.Errorf("config: logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if err := c.Scale.Small.Check(); err != nil {
		return fmt.Errorf("config: scale.small: %w", err)
	}
	if err := c.Scale.Big.Check(); err != nil {
		return fmt.Errorf("config: scale.big: %w", err)
	}
	return nil
}

// Tolerance returns the mesh tolerance as a kernel value.
func (c *Config) Tolerance() kernel.Tolerance {
	return kernel.Tolerance{Linear: c.Mesh.LinearTolerance, Angular: c.Mesh.AngularTolerance}
}

// Scales returns the brick constants after overrides.
func (c *Config) Scales() brick.Scales {
	return brick.Scales{Small: c.Scale.Small, Big: c.Scale.Big}
}
