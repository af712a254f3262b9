package config

import "sort"

// Materials are the Morse parameter sets the lattice runs were tuned on.
var Materials = map[string]MaterialConfig{
	"barium": {
		Name: "barium", Alpha: 0.65698, WellDepth: 22.69e-21,
		Mass: 228.05e-27, EquilibriumDistance: 5.373e-10,
	},
	"nickel": {
		Name: "nickel", Alpha: 1.4199, WellDepth: 67.37e-21,
		Mass: 97.464e-27, EquilibriumDistance: 2.78e-10,
	},
	"ferrum": {
		Name: "ferrum", Alpha: 1.3885, WellDepth: 66.88e-21,
		Mass: 92.735e-27, EquilibriumDistance: 2.845e-10,
	},
}

// tauMultipliers overrides the default for materials whose well is too
// stiff for the default step.
var tauMultipliers = map[string]float64{
	"ferrum": 0.01,
}

// GetPreset returns a fresh default config for the named material, or nil.
func GetPreset(material string) *Config {
	m, ok := Materials[material]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Material = m
	if tau, ok := tauMultipliers[material]; ok {
		cfg.TauMultiplier = tau
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Materials))
	for name := range Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
