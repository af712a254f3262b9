package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/integrators"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/physics"
	"github.com/san-kum/morsesim/internal/sim"
)

const (
	DefaultGridEdge       = 5
	DefaultSpacing        = 1e-16
	DefaultPadding        = 1e-16
	DefaultSpeedScale     = 1e-18
	DefaultTracked        = 62
	DefaultTauMultiplier  = 0.05
	DefaultSteps          = 1000
	MinTauMultiplier      = 0.01
	MaxTauMultiplier      = 0.05
	AccelSecondDerivative = "second-derivative"
	AccelNewtonian        = "newtonian"
	DefaultMaterial       = "barium"
)

type Config struct {
	Material        MaterialConfig `yaml:"material" json:"material"`
	Lattice         LatticeConfig  `yaml:"lattice" json:"lattice"`
	TrackedParticle int            `yaml:"tracked_particle" json:"tracked_particle"`
	TauMultiplier   float64        `yaml:"tau_multiplier" json:"tau_multiplier"`
	Seed            int64          `yaml:"seed" json:"seed"`
	Steps           int            `yaml:"steps" json:"steps"`
	SampleInterval  int            `yaml:"sample_interval" json:"sample_interval"`
	Acceleration    string         `yaml:"acceleration" json:"acceleration"`
	UpdateOrder     string         `yaml:"update_order" json:"update_order"`
}

// MaterialConfig holds the Morse constants in SI units.
type MaterialConfig struct {
	Name                string  `yaml:"name" json:"name"`
	Alpha               float64 `yaml:"alpha" json:"alpha"`
	WellDepth           float64 `yaml:"well_depth" json:"well_depth"`
	Mass                float64 `yaml:"mass" json:"mass"`
	EquilibriumDistance float64 `yaml:"equilibrium_distance" json:"equilibrium_distance"`
}

type LatticeConfig struct {
	GridEdge          int     `yaml:"grid_edge" json:"grid_edge"`
	Spacing           float64 `yaml:"lattice_spacing" json:"lattice_spacing"`
	Padding           float64 `yaml:"padding" json:"padding"`
	InitialSpeedScale float64 `yaml:"initial_speed_scale" json:"initial_speed_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Material: Materials[DefaultMaterial],
		Lattice: LatticeConfig{
			GridEdge:          DefaultGridEdge,
			Spacing:           DefaultSpacing,
			Padding:           DefaultPadding,
			InitialSpeedScale: DefaultSpeedScale,
		},
		TrackedParticle: DefaultTracked,
		TauMultiplier:   DefaultTauMultiplier,
		Steps:           DefaultSteps,
		SampleInterval:  metrics.DefaultInterval,
		Acceleration:    AccelSecondDerivative,
		UpdateOrder:     integrators.Snapshot.String(),
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over a copy of base, so keys missing from the
// file keep base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrConfiguration, path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Particles() int {
	return c.Lattice.GridEdge * c.Lattice.GridEdge * c.Lattice.GridEdge
}

func (c *Config) Morse() *physics.Morse {
	m := c.Material
	return physics.NewMorse(m.Alpha, m.WellDepth, m.Mass, m.EquilibriumDistance)
}

func (c *Config) Tau() float64 {
	return c.Morse().CharacteristicStep(c.TauMultiplier)
}

func (c *Config) LatticeSpec() sim.Lattice {
	return sim.Lattice{
		GridEdge:   c.Lattice.GridEdge,
		Spacing:    c.Lattice.Spacing,
		Padding:    c.Lattice.Padding,
		SpeedScale: c.Lattice.InitialSpeedScale,
	}
}

// Validate reports every problem at once. Each joined error wraps
// dynamo.ErrConfiguration, or dynamo.ErrIndex for the tracked particle.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrConfiguration}, args...)...))
	}

	m := c.Material
	floats := []struct {
		name  string
		value float64
	}{
		{"tau_multiplier", c.TauMultiplier},
		{"lattice_spacing", c.Lattice.Spacing},
		{"padding", c.Lattice.Padding},
		{"initial_speed_scale", c.Lattice.InitialSpeedScale},
		{"alpha", m.Alpha},
		{"well_depth", m.WellDepth},
		{"mass", m.Mass},
		{"equilibrium_distance", m.EquilibriumDistance},
	}
	finite := make(map[string]bool, len(floats))
	for _, f := range floats {
		finite[f.name] = !math.IsNaN(f.value) && !math.IsInf(f.value, 0)
		if !finite[f.name] {
			bad("%s must be finite, got %g", f.name, f.value)
		}
	}

	if finite["tau_multiplier"] && (c.TauMultiplier < MinTauMultiplier || c.TauMultiplier > MaxTauMultiplier) {
		bad("tau_multiplier %g outside [%g, %g]", c.TauMultiplier, MinTauMultiplier, MaxTauMultiplier)
	}
	if c.Lattice.GridEdge < 2 {
		bad("grid_edge must be at least 2, got %d", c.Lattice.GridEdge)
	}
	if finite["lattice_spacing"] && c.Lattice.Spacing <= 0 {
		bad("lattice_spacing must be positive, got %g", c.Lattice.Spacing)
	}
	if finite["padding"] && c.Lattice.Padding < 0 {
		bad("padding must not be negative, got %g", c.Lattice.Padding)
	}
	if finite["initial_speed_scale"] && c.Lattice.InitialSpeedScale < 0 {
		bad("initial_speed_scale must not be negative, got %g", c.Lattice.InitialSpeedScale)
	}
	for _, f := range floats[4:] {
		if finite[f.name] && f.value <= 0 {
			bad("%s must be positive, got %g", f.name, f.value)
		}
	}

	if c.Steps < 0 {
		bad("steps must not be negative, got %d", c.Steps)
	}
	if c.SampleInterval <= 0 {
		bad("sample_interval must be positive, got %d", c.SampleInterval)
	}
	switch c.Acceleration {
	case AccelSecondDerivative, AccelNewtonian:
	default:
		bad("unknown acceleration %q", c.Acceleration)
	}
	if _, err := integrators.ParseUpdateOrder(c.UpdateOrder); err != nil {
		errs = append(errs, err)
	}

	if n := c.Particles(); c.Lattice.GridEdge >= 2 && (c.TrackedParticle < 0 || c.TrackedParticle >= n) {
		errs = append(errs, fmt.Errorf("%w: tracked_particle %d not in [0, %d)", dynamo.ErrIndex, c.TrackedParticle, n))
	}

	return errors.Join(errs...)
}
