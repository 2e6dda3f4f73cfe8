// Package tzgen generates tzoff datasets by probing timezone data the Go
// runtime can load through time.Location. It runs offline, ahead of
// deployment; the embedded consumer only reads its output.
//
// Generator binaries should import the embedded timezone database to stay
// independent of the host system:
//
//	import _ "time/tzdata"
package tzgen

import (
	"fmt"
	"sort"
	"time"

	"github.com/ngrash/go-tzdb/tzoff"
)

// DefaultStep is the default probe granularity. No tzdb zone changes its
// offset twice within an hour, so hourly probes detect every transition
// and bisection recovers the exact second.
const DefaultStep = time.Hour

// Options control dataset generation.
type Options struct {
	// From is the inclusive start of the coverage window.
	From time.Time
	// To is the exclusive end of the coverage window.
	To time.Time

	// Step is the probe granularity. Offsets are compared every Step
	// across the window and each detected change is bisected down to the
	// exact transition second. Defaults to DefaultStep.
	Step time.Duration

	// Load resolves a zone name to a time.Location.
	// Defaults to time.LoadLocation.
	Load func(name string) (*time.Location, error)

	// Generated is the instant stamped into the dataset header as its
	// version. Defaults to time.Now.
	Generated time.Time
}

func (o Options) step() time.Duration {
	if o.Step <= 0 {
		return DefaultStep
	}
	return o.Step
}

func (o Options) load(name string) (*time.Location, error) {
	if o.Load == nil {
		return time.LoadLocation(name)
	}
	return o.Load(name)
}

func (o Options) validate() error {
	if o.From.IsZero() || o.To.IsZero() {
		return fmt.Errorf("coverage window not set")
	}
	if !o.From.Before(o.To) {
		return fmt.Errorf("invalid coverage window: from %v >= to %v", o.From, o.To)
	}
	if o.Step > 0 && o.Step < time.Second {
		return fmt.Errorf("step %v is below one second", o.Step)
	}
	return nil
}

// Zone compiles the offset data of a single location over the window.
//
// The first transition always falls on the window start and carries the
// offset in effect there, so a resolver never has to answer an in-window
// query from the base offset alone. The base offset is the first standard
// time (non-DST) offset observed in the window; for zones on permanent
// DST it falls back to the window-start offset.
func Zone(loc *time.Location, opts Options) (tzoff.Zone, error) {
	if err := opts.validate(); err != nil {
		return tzoff.Zone{}, err
	}

	var (
		step        = opts.step()
		from        = opts.From.Unix()
		to          = opts.To.Unix()
		transitions []tzoff.Transition
		baseoff     int32
		baseoffSet  bool
	)

	cur := offsetAt(loc, from)
	transitions = append(transitions, tzoff.Transition{Occ: from, Utoff: cur})

	probe := func(unix int64, off int32) {
		if !baseoffSet && !time.Unix(unix, 0).In(loc).IsDST() {
			baseoff = off
			baseoffSet = true
		}
	}
	probe(from, cur)

	for unix := from + int64(step/time.Second); unix < to; unix += int64(step / time.Second) {
		off := offsetAt(loc, unix)
		probe(unix, off)
		if off == cur {
			continue
		}
		occ := bisect(loc, unix-int64(step/time.Second), unix, cur)
		transitions = append(transitions, tzoff.Transition{Occ: occ, Utoff: off})
		cur = off
	}

	if !baseoffSet {
		baseoff = transitions[0].Utoff
	}

	z := tzoff.Zone{
		Header: tzoff.ZoneHeader{
			Version: tzoff.V1,
			Baseoff: baseoff,
			From:    from,
			To:      to,
			Timecnt: uint32(len(transitions)),
		},
		Transitions: transitions,
	}
	if err := tzoff.Validate(z); err != nil {
		return tzoff.Zone{}, fmt.Errorf("generated invalid zone data: %w", err)
	}
	return z, nil
}

// Dataset compiles the named zones over the window into a single dataset.
func Dataset(names []string, opts Options) (tzoff.Dataset, error) {
	if err := opts.validate(); err != nil {
		return tzoff.Dataset{}, err
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var zones []tzoff.NamedZone
	for _, name := range sorted {
		loc, err := opts.load(name)
		if err != nil {
			return tzoff.Dataset{}, fmt.Errorf("loading zone %s: %w", name, err)
		}
		z, err := Zone(loc, opts)
		if err != nil {
			return tzoff.Dataset{}, fmt.Errorf("compiling zone %s: %w", name, err)
		}
		zones = append(zones, tzoff.NamedZone{Name: name, Zone: z})
	}

	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	d := tzoff.Dataset{
		Header: tzoff.DatasetHeader{
			Version:   tzoff.V1,
			Generated: generated.Unix(),
			Zonecnt:   uint32(len(zones)),
		},
		Zones: zones,
	}
	if err := tzoff.ValidateDataset(d); err != nil {
		return tzoff.Dataset{}, fmt.Errorf("generated invalid dataset: %w", err)
	}
	return d, nil
}

// offsetAt returns the UTC offset of loc at the given Unix second.
func offsetAt(loc *time.Location, unix int64) int32 {
	_, off := time.Unix(unix, 0).In(loc).Zone()
	return int32(off)
}

// bisect narrows down the exact second of an offset change between lo,
// where the offset is still `from`, and hi, where it has changed.
func bisect(loc *time.Location, lo, hi int64, from int32) int64 {
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if offsetAt(loc, mid) == from {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
