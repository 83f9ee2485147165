// Package config provides configuration loading for the morphogen tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/morphogen/genome"
	"github.com/pthm-cable/morphogen/urdf"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration parameters.
type Config struct {
	Genome   GenomeConfig   `yaml:"genome"`
	Mutation MutationConfig `yaml:"mutation"`
	URDF     URDFConfig     `yaml:"urdf"`
	Survey   SurveyConfig   `yaml:"survey"`
	Motors   MotorsConfig   `yaml:"motors"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GenomeConfig holds genome shape and channel scale overrides.
type GenomeConfig struct {
	GeneCount int                `yaml:"gene_count"` // genes in a random genome
	Scales    map[string]float64 `yaml:"scales"`     // channel name -> scale
}

// MutationConfig holds the probabilities used by the mutate command and survey.
type MutationConfig struct {
	PointRate   float64 `yaml:"point_rate"`   // per-value probability of a nudge
	PointAmount float64 `yaml:"point_amount"` // maximum nudge size
	ShrinkRate  float64 `yaml:"shrink_rate"`  // chance of dropping one gene
	GrowRate    float64 `yaml:"grow_rate"`    // chance of appending one gene
}

// URDFConfig holds the constants written into every URDF document.
type URDFConfig struct {
	RobotName     string  `yaml:"robot_name"`
	JointEffort   float64 `yaml:"joint_effort"`
	JointVelocity float64 `yaml:"joint_velocity"`
	JointLimit    float64 `yaml:"joint_limit"` // radians, applied as ±limit
	Inertia       float64 `yaml:"inertia"`
}

// SurveyConfig holds batch survey parameters.
type SurveyConfig struct {
	Count   int  `yaml:"count"`
	Workers int  `yaml:"workers"` // 0 = runtime.NumCPU()
	Mutate  bool `yaml:"mutate"`  // mutate each creature once before measuring
}

// MotorsConfig holds motor trace parameters.
type MotorsConfig struct {
	Ticks int `yaml:"ticks"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Spec    *genome.Spec // catalog with scale overrides applied
	Workers int          // effective survey worker count
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh validates the configuration and recomputes derived values. Call it
// after changing fields of a loaded Config.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate checks ranges that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Genome.GeneCount < 1 {
		return fmt.Errorf("%w: genome.gene_count must be >= 1, got %d", ErrInvalid, c.Genome.GeneCount)
	}
	rates := []struct {
		key string
		v   float64
	}{
		{"mutation.point_rate", c.Mutation.PointRate},
		{"mutation.point_amount", c.Mutation.PointAmount},
		{"mutation.shrink_rate", c.Mutation.ShrinkRate},
		{"mutation.grow_rate", c.Mutation.GrowRate},
	}
	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalid, r.key, r.v)
		}
	}
	if c.Survey.Count < 0 {
		return fmt.Errorf("%w: survey.count must be >= 0, got %d", ErrInvalid, c.Survey.Count)
	}
	if c.Survey.Workers < 0 {
		return fmt.Errorf("%w: survey.workers must be >= 0, got %d", ErrInvalid, c.Survey.Workers)
	}
	if c.Motors.Ticks < 0 {
		return fmt.Errorf("%w: motors.ticks must be >= 0, got %d", ErrInvalid, c.Motors.Ticks)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	spec, err := genome.BuildSpec(c.Genome.Scales)
	if err != nil {
		return fmt.Errorf("%w: genome.scales: %w", ErrInvalid, err)
	}
	c.Derived.Spec = spec

	c.Derived.Workers = c.Survey.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.NumCPU()
	}
	return nil
}

// MutationRates returns the mutation settings in operator form.
func (c *Config) MutationRates() genome.MutationRates {
	return genome.MutationRates{
		PointRate:   c.Mutation.PointRate,
		PointAmount: c.Mutation.PointAmount,
		ShrinkRate:  c.Mutation.ShrinkRate,
		GrowRate:    c.Mutation.GrowRate,
	}
}

// URDFOptions returns the URDF settings in encoder form.
func (c *Config) URDFOptions() urdf.Options {
	return urdf.Options{
		RobotName:     c.URDF.RobotName,
		JointEffort:   c.URDF.JointEffort,
		JointVelocity: c.URDF.JointVelocity,
		JointLimit:    c.URDF.JointLimit,
		Inertia:       c.URDF.Inertia,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
