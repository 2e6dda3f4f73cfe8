package tzgen

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/iana_zones.txt
var dataFS embed.FS

const zoneListPath = "data/iana_zones.txt"

var (
	defaultOnce  sync.Once
	defaultZones []string
	defaultErr   error
)

// DefaultZones returns the embedded list of canonical IANA zone names.
// The returned slice is sorted and safe to modify.
func DefaultZones() ([]string, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(zoneListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer f.Close()
		defaultZones, defaultErr = ReadZoneList(f)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]string(nil), defaultZones...), nil
}

// ReadZoneList parses a zone list: one zone name per line, blank lines
// and lines starting with '#' ignored.
func ReadZoneList(r io.Reader) ([]string, error) {
	var zones []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		zones = append(zones, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}
	sort.Strings(zones)
	return zones, nil
}

// DefaultTargets are the zone name prefixes included by default: the
// canonical geographic areas plus UTC. Everything else in the tzdb
// (aliases, Etc, legacy names) is left out to keep datasets small.
var DefaultTargets = []string{
	"Africa",
	"America",
	"Asia",
	"Atlantic",
	"Australia",
	"Canada",
	"Europe",
	"Indian",
	"Pacific",
	"UTC",
}

// FilterZones returns the zones whose name matches one of the target
// prefixes. A zone matches a target if it equals the target or lives
// under it, e.g. "America/Chicago" matches target "America".
func FilterZones(zones, targets []string) []string {
	var filtered []string
	for _, z := range zones {
		for _, t := range targets {
			if z == t || strings.HasPrefix(z, t+"/") {
				filtered = append(filtered, z)
				break
			}
		}
	}
	return filtered
}
