package tzoff

import (
	"errors"
	"fmt"
	"sort"
)

// Validate checks a zone blob against the invariants of the format.
// It returns all violations joined into a single error.
func Validate(z Zone) error {
	var errs []error

	if z.Header.Version != V1 {
		errs = append(errs, fmt.Errorf("invalid version: %v", z.Header.Version))
	}

	// Timecnt
	if z.Header.Timecnt == 0 {
		errs = append(errs, fmt.Errorf("invalid timecnt: must not be zero"))
	}
	if len(z.Transitions) != int(z.Header.Timecnt) {
		errs = append(errs, fmt.Errorf("invalid timecnt: header = %d, transitions = %d", z.Header.Timecnt, len(z.Transitions)))
	}

	// Coverage window
	if z.Header.From > z.Header.To {
		errs = append(errs, fmt.Errorf("invalid coverage window: from (%d) > to (%d)", z.Header.From, z.Header.To))
	}

	for i, t := range z.Transitions {
		if i > 0 && t.Occ < z.Transitions[i-1].Occ {
			errs = append(errs, fmt.Errorf("transition %d: occurrence %d precedes previous occurrence %d", i, t.Occ, z.Transitions[i-1].Occ))
		}
		if t.Occ < z.Header.From || t.Occ >= z.Header.To {
			errs = append(errs, fmt.Errorf("transition %d: occurrence %d outside coverage window [%d, %d)", i, t.Occ, z.Header.From, z.Header.To))
		}
		if t.Utoff < minUtoff || t.Utoff > maxUtoff {
			errs = append(errs, fmt.Errorf("transition %d: utoff %d outside range [%d, %d]", i, t.Utoff, minUtoff, maxUtoff))
		}
	}

	if z.Header.Baseoff < minUtoff || z.Header.Baseoff > maxUtoff {
		errs = append(errs, fmt.Errorf("invalid baseoff %d: outside range [%d, %d]", z.Header.Baseoff, minUtoff, maxUtoff))
	}

	return errors.Join(errs...)
}

// RFC 8536 prescribes this range for utoff values: more than -25 hours
// and less than 26 hours.
const (
	minUtoff = -89999
	maxUtoff = 93599
)

// ValidateDataset checks a dataset blob and every zone in it.
func ValidateDataset(d Dataset) error {
	var errs []error

	if d.Header.Version != V1 {
		errs = append(errs, fmt.Errorf("invalid version: %v", d.Header.Version))
	}
	if len(d.Zones) != int(d.Header.Zonecnt) {
		errs = append(errs, fmt.Errorf("invalid zonecnt: header = %d, zones = %d", d.Header.Zonecnt, len(d.Zones)))
	}
	if !sort.SliceIsSorted(d.Zones, func(i, j int) bool { return d.Zones[i].Name < d.Zones[j].Name }) {
		errs = append(errs, fmt.Errorf("zones not sorted by name"))
	}

	seen := make(map[string]bool, len(d.Zones))
	for _, z := range d.Zones {
		if z.Name == "" {
			errs = append(errs, fmt.Errorf("empty zone name"))
			continue
		}
		if seen[z.Name] {
			errs = append(errs, fmt.Errorf("duplicate zone name %s", z.Name))
		}
		seen[z.Name] = true
		if err := Validate(z.Zone); err != nil {
			errs = append(errs, fmt.Errorf("zone %s: %w", z.Name, err))
		}
	}

	return errors.Join(errs...)
}
