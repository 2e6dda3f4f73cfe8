package tzgen

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the declarative generator configuration, typically read from
// a YAML file:
//
//	year: 2026
//	step: 1h
//	targets:
//	  - America
//	  - Europe
//	zones:
//	  - UTC
//
// Either year or an explicit from/to pair selects the coverage window.
// If zones is set it is the complete zone list; otherwise the embedded
// canonical list filtered by targets (DefaultTargets if unset) is used.
type Config struct {
	// Year selects a calendar year as the coverage window.
	Year int `yaml:"year"`

	// From and To select an explicit coverage window as RFC 3339
	// timestamps. They take precedence over Year.
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Step is the probe granularity as a Go duration string.
	Step string `yaml:"step"`

	// Targets are zone name prefixes to include.
	Targets []string `yaml:"targets"`

	// Zones is an explicit list of zone names. If set, Targets is ignored.
	Zones []string `yaml:"zones"`
}

// LoadConfig reads a YAML config. Unknown fields are an error.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Options resolves the config into generator options.
func (c Config) Options() (Options, error) {
	var opts Options

	switch {
	case c.From != "" || c.To != "":
		if c.From == "" || c.To == "" {
			return opts, fmt.Errorf("from and to must be set together")
		}
		from, err := time.Parse(time.RFC3339, c.From)
		if err != nil {
			return opts, fmt.Errorf("parse from: %w", err)
		}
		to, err := time.Parse(time.RFC3339, c.To)
		if err != nil {
			return opts, fmt.Errorf("parse to: %w", err)
		}
		opts.From, opts.To = from.UTC(), to.UTC()
	case c.Year != 0:
		opts.From = time.Date(c.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		opts.To = opts.From.AddDate(1, 0, 0)
	default:
		return opts, fmt.Errorf("no coverage window: set year or from/to")
	}

	if c.Step != "" {
		step, err := time.ParseDuration(c.Step)
		if err != nil {
			return opts, fmt.Errorf("parse step: %w", err)
		}
		if step <= 0 {
			return opts, fmt.Errorf("invalid step %q: must be positive", c.Step)
		}
		opts.Step = step
	}

	return opts, nil
}

// ZoneNames resolves the config into the list of zones to compile.
func (c Config) ZoneNames() ([]string, error) {
	if len(c.Zones) > 0 {
		return append([]string(nil), c.Zones...), nil
	}
	all, err := DefaultZones()
	if err != nil {
		return nil, fmt.Errorf("loading embedded zone list: %w", err)
	}
	targets := c.Targets
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	zones := FilterZones(all, targets)
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones match targets %v", targets)
	}
	return zones, nil
}
