package physics

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zeusync/planar/internal/core/math2d"
	"gopkg.in/yaml.v3"
)

// Config describes a world in JSON or YAML, for servers that load their
// simulation parameters from a file.
type Config struct {
	Gravity struct {
		X float64 `json:"x" yaml:"x"`
		Y float64 `json:"y" yaml:"y"`
	} `json:"gravity" yaml:"gravity"`

	CellSize           float64 `json:"cell_size,omitempty" yaml:"cell_size,omitempty"`
	VelocityIterations int     `json:"velocity_iterations,omitempty" yaml:"velocity_iterations,omitempty"`
	PositionIterations int     `json:"position_iterations,omitempty" yaml:"position_iterations,omitempty"`
	FixedDT            float64 `json:"fixed_dt,omitempty" yaml:"fixed_dt,omitempty"`
}

// DefaultConfig mirrors MakeWorldDef.
func DefaultConfig() Config {
	c := Config{
		CellSize:           DefaultCellSize,
		VelocityIterations: 8,
		PositionIterations: 3,
		FixedDT:            1.0 / 60.0,
	}
	c.Gravity.Y = -9.81
	return c
}

// LoadConfigJSON decodes a config from JSON, starting from the defaults.
func LoadConfigJSON(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode physics config: %w", err)
	}
	return &c, nil
}

// LoadConfigYAML decodes a config from YAML, starting from the defaults.
func LoadConfigYAML(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode physics config: %w", err)
	}
	return &c, nil
}

// Validate checks that the configuration can drive a stable simulation.
func (c *Config) Validate() error {
	if c.FixedDT <= 0 {
		return fmt.Errorf("fixed_dt must be positive, got %v", c.FixedDT)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %v", c.CellSize)
	}
	if c.VelocityIterations < 1 {
		return fmt.Errorf("velocity_iterations must be at least 1, got %d", c.VelocityIterations)
	}
	if c.PositionIterations < 1 {
		return fmt.Errorf("position_iterations must be at least 1, got %d", c.PositionIterations)
	}
	return nil
}

// WorldDef converts the config into a world definition.
func (c *Config) WorldDef() WorldDef {
	def := MakeWorldDef()
	def.Gravity = math2d.Vec(c.Gravity.X, c.Gravity.Y)
	def.CellSize = c.CellSize
	def.VelocityIterations = c.VelocityIterations
	def.PositionIterations = c.PositionIterations
	def.FixedDT = c.FixedDT
	return def
}
