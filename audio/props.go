package audio

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
)

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	set, ok := p.setters[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CopyFrom stores the current values of other in every property that both
// sets have registered. Values were validated when they were set on other,
// so they are stored as is.
func (p *Props) CopyFrom(other *Props) {
	for key, prop := range p.properties {
		if src, ok := other.properties[key]; ok {
			if v := src.Load(); v != nil {
				prop.Store(v)
			}
		}
	}
}

// Register adds a new property.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setEnvParam = setFloat64(0, 60_000) // milliseconds
	setLevel    = setFloat64(-40, 10)   // decibels
	setUnit     = setFloat64(0, 1)
)

func setFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

func setInt(min, max int) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var n int
		switch i := v.(type) {
		case int:
			n = i
		case float64:
			if i != math.Trunc(i) {
				return fmt.Errorf("value is not an int: %v", v)
			}
			n = int(i)
		default:
			return fmt.Errorf("value is not an int: %v", v)
		}
		if n < min || n > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, n)
		}
		dest.Store(n)
		return nil
	}
}

func setBool(v interface{}, dest *atomic.Value) error {
	switch b := v.(type) {
	case bool:
		dest.Store(b)
	case string:
		switch b {
		case "true", "on":
			dest.Store(true)
		case "false", "off":
			dest.Store(false)
		default:
			return fmt.Errorf("value is not a bool: %v", v)
		}
	default:
		return fmt.Errorf("value is not a bool: %v", v)
	}
	return nil
}

// setChoice accepts one of a fixed set of strings.
func setChoice(choices ...string) setter {
	return func(v interface{}, dest *atomic.Value) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("value is not a string: %v", v)
		}
		for _, c := range choices {
			if s == c {
				dest.Store(s)
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %v", s, choices)
	}
}
