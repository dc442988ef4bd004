package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	// five periods at dt = 0.05, the classic demonstration run
	"reference": {
		Name: "reference", I: 1, W: 2 * math.Pi, Dt: 0.05, Periods: 5,
		Plot: PlotConfig{File: DefaultPlotFile, Save: true, Samples: DefaultSamples},
	},
	"regression": {
		Name: "regression", I: 1, W: 2 * math.Pi, Dt: 0.1, Duration: 1,
		Plot: PlotConfig{File: DefaultPlotFile, Samples: DefaultSamples},
	},
	"fine": {
		Name: "fine", I: 1, W: 2 * math.Pi, Dt: 0.005, Periods: 5,
		Plot: PlotConfig{File: DefaultPlotFile, Save: true, Samples: DefaultSamples},
	},
	"coarse": {
		Name: "coarse", I: 1, W: 2 * math.Pi, Dt: 0.2, Periods: 5,
		Plot: PlotConfig{File: DefaultPlotFile, Save: true, Samples: DefaultSamples},
	},
	// w*dt ≈ 2.2, past the stability limit
	"unstable": {
		Name: "unstable", I: 1, W: 2 * math.Pi, Dt: 0.35, Periods: 5,
		Plot: PlotConfig{File: DefaultPlotFile, Save: true, Samples: DefaultSamples},
	},
	"static": {
		Name: "static", I: 2, W: 0, Dt: 0.1, Duration: 2,
		Plot: PlotConfig{File: DefaultPlotFile, Samples: DefaultSamples},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
