// Package config handles configuration loading and management for the collision tools.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshcollide/pkg/collision"
)

// Config holds all settings.
type Config struct {
	Collision CollisionConfig `yaml:"collision"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CollisionConfig holds sphere and resolver settings.
type CollisionConfig struct {
	Radius          float32 `yaml:"radius"`            // Sphere radius in world units
	MaxIterations   int     `yaml:"max_iterations"`    // Resolve passes per update
	MinTriangleArea float32 `yaml:"min_triangle_area"` // Triangles at or below this area are dropped; 0 keeps all
	FrontFace       string  `yaml:"front_face"`        // "cw" or "ccw"
	Deepest         bool    `yaml:"deepest"`           // Apply only the deepest contact per pass
}

// MeshConfig holds the collision geometry source.
type MeshConfig struct {
	Path  string  `yaml:"path"`  // .stl or .tri file
	Watch bool    `yaml:"watch"` // Rebuild when the file changes
	Scale float32 `yaml:"scale"` // Uniform scale baked into the vertices
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Collision: CollisionConfig{
			Radius:          0.5,
			MaxIterations:   4,
			MinTriangleArea: 1e-8,
			FrontFace:       "cw",
			Deepest:         false,
		},
		Mesh: MeshConfig{
			Path:  "",
			Watch: false,
			Scale: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validation errors.
var (
	ErrInvalidRadius    = errors.New("collision radius must be positive")
	ErrInvalidFrontFace = errors.New("front face must be cw or ccw")
	ErrInvalidScale     = errors.New("mesh scale must be positive")
)

// Validate checks values that would make the resolver misbehave.
func (c *Config) Validate() error {
	if !(c.Collision.Radius > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, c.Collision.Radius)
	}
	if _, ok := collision.ParseFrontFace(c.Collision.FrontFace); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFrontFace, c.Collision.FrontFace)
	}
	if !(c.Mesh.Scale > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, c.Mesh.Scale)
	}
	return nil
}

// BuildOptions converts the collision settings to mesh build options.
// Call Validate first; an unknown front face falls back to clockwise.
func (c *Config) BuildOptions() []collision.BuildOption {
	face, _ := collision.ParseFrontFace(c.Collision.FrontFace)
	return []collision.BuildOption{
		collision.WithFrontFace(face),
		collision.WithMinArea(c.Collision.MinTriangleArea),
	}
}
