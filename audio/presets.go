package audio

import (
	"fmt"
	"sort"
)

// Device is anything with named properties that can be changed from the
// command line.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"lame-bass": {
		"osc.wave":      "saw",
		"filter.cutoff": 900.,
		"env.attack":    2.,
		"env.decay":     100.,
		"env.sustain":   0.,
		"env.release":   50.,
	},
	"square-lead": {
		"osc.wave":      "pulse",
		"osc.pw":        .3,
		"filter.cutoff": 3000.,
		"env.attack":    10.,
		"env.decay":     200.,
		"env.sustain":   .6,
		"env.release":   300.,
	},
	"pad": {
		"osc.wave":      "sine",
		"filter.cutoff": 20000.,
		"env.attack":    800.,
		"env.decay":     500.,
		"env.sustain":   .8,
		"env.release":   1500.,
	},
}

// Presets returns the names of the built in presets.
func Presets() []string {
	var names []string
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
