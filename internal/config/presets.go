package config

import "sort"

func f(v float64) *float64 { return &v }

func preset(variant string, duration float64, o Overrides) *Config {
	cfg := DefaultConfig()
	cfg.Variant = variant
	cfg.Duration = duration
	cfg.Overrides = o
	return cfg
}

var Presets = map[string]map[string]*Config{
	"drop": {
		"classic": preset("drop", 10, Overrides{}),
		"heavy":   preset("drop", 10, Overrides{Force: f(10), TotalMass: f(4)}),
		"slow":    preset("drop", 20, Overrides{DetachDelay: f(0.6), FadeSeconds: f(1.2)}),
	},
	"sticky": {
		"classic": preset("sticky", 10, Overrides{}),
		"loose":   preset("sticky", 15, Overrides{ConeAngle: f(0.5), Force: f(45)}),
		"random":  preset("sticky", 10, Overrides{Palette: "random"}),
	},
	"hinge": {
		"classic": preset("hinge", 10, Overrides{}),
		"stiff":   preset("hinge", 10, Overrides{LinearDamping: f(0.9)}),
		"swing":   preset("hinge", 20, Overrides{LinearDamping: f(0.1), Force: f(80)}),
	},
}

func GetPreset(variant, name string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
