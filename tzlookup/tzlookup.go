// Package tzlookup resolves (zone name, UTC instant) to the UTC offset in
// effect at that instant, using pre-generated offset data in the tzoff
// format instead of a full timezone database.
//
// A Resolver is a pure query function over immutable data: it holds no
// mutable state and is safe for concurrent use.
package tzlookup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/ngrash/go-tzdb/internal/unixtime"
	"github.com/ngrash/go-tzdb/tzoff"
)

var (
	// ErrZoneNotFound is returned when the requested zone name is absent
	// from the dataset.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrDataUnavailable is returned when a zone is present but its data
	// cannot be decoded or carries no transitions.
	ErrDataUnavailable = errors.New("zone data unavailable")
)

// Source provides encoded zone data by IANA name.
//
// Implementations report a missing zone by returning an error that wraps
// ErrZoneNotFound and undecodable data by returning an error that wraps
// ErrDataUnavailable.
type Source interface {
	Zone(name string) (tzoff.Zone, error)
}

// MapSource is a Source backed by an in-memory map of encoded zone blobs
// keyed by zone name.
type MapSource map[string][]byte

func (s MapSource) Zone(name string) (tzoff.Zone, error) {
	b, ok := s[name]
	if !ok {
		return tzoff.Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
	}
	return decodeZone(name, bytes.NewReader(b))
}

// FSSource is a Source backed by per-zone files on a file system, one
// file per zone named after the zone with Ext appended, e.g.
// "America/Chicago.tzoff" below Dir. Only the requested zone's file is
// read per query, which keeps the memory footprint at one zone's data.
//
// The file system is typically an embed.FS holding the generator output.
type FSSource struct {
	FS  fs.FS
	Dir string // root directory of the zone files, "" for the FS root
	Ext string // file extension including the dot, default ".tzoff"
}

func (s FSSource) Zone(name string) (tzoff.Zone, error) {
	ext := s.Ext
	if ext == "" {
		ext = ".tzoff"
	}
	p := path.Join(s.Dir, name+ext)
	if !fs.ValidPath(p) {
		return tzoff.Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
	}
	f, err := s.FS.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tzoff.Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
		}
		return tzoff.Zone{}, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, name, err)
	}
	defer f.Close()
	return decodeZone(name, f)
}

// DatasetSource is a Source backed by a single encoded dataset blob.
// Each query scans the blob for the requested zone and decodes only that
// zone's data.
type DatasetSource struct {
	data   []byte
	header tzoff.DatasetHeader
}

// NewDatasetSource wraps an encoded dataset blob. The dataset header is
// decoded once to reject blobs that are not datasets.
func NewDatasetSource(data []byte) (*DatasetSource, error) {
	h, err := tzoff.ReadDatasetHeader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	return &DatasetSource{data: data, header: h}, nil
}

// Header returns the dataset header, whose Generated field identifies the
// dataset version.
func (s *DatasetSource) Header() tzoff.DatasetHeader {
	return s.header
}

func (s *DatasetSource) Zone(name string) (tzoff.Zone, error) {
	z, ok, err := tzoff.ScanDataset(bytes.NewReader(s.data), name)
	if err != nil {
		return tzoff.Zone{}, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, name, err)
	}
	if !ok {
		return tzoff.Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
	}
	if len(z.Transitions) == 0 {
		return tzoff.Zone{}, fmt.Errorf("%w: %s: no transitions", ErrDataUnavailable, name)
	}
	return z, nil
}

func decodeZone(name string, r io.Reader) (tzoff.Zone, error) {
	z, err := tzoff.DecodeZone(r)
	if err != nil {
		return tzoff.Zone{}, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, name, err)
	}
	if len(z.Transitions) == 0 {
		return tzoff.Zone{}, fmt.Errorf("%w: %s: no transitions", ErrDataUnavailable, name)
	}
	return z, nil
}

// Resolver translates (zone name, UTC instant) to the UTC offset in
// effect at that instant.
type Resolver struct {
	src Source
}

// New returns a Resolver that reads zone data from the given source.
func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// UTCOffset returns the offset to be added to a UTC instant to obtain
// civil time in the named zone at that instant.
//
// The applicable offset is the one of the latest transition that occurred
// at or before t. Instants before the zone's first transition yield the
// zone's base (standard time) offset. Instants outside the dataset's
// coverage window clamp to the nearest boundary offset; correctness
// beyond the window is not guaranteed, regenerate the dataset instead of
// relying on it.
func (r *Resolver) UTCOffset(name string, t time.Time) (time.Duration, error) {
	return r.offset(name, t.Unix())
}

// UTCOffsetAt is UTCOffset for callers that carry a broken-down UTC
// date-time, such as firmware reading a real-time clock, instead of a
// time.Time.
func (r *Resolver) UTCOffsetAt(name string, year int, month time.Month, day, hour, minute, second int) (time.Duration, error) {
	return r.offset(name, unixtime.FromDateTime(year, month, day, hour, minute, second))
}

// FromUTC converts a UTC instant to civil time in the named zone. The
// returned time is the same instant with the zone's offset applied,
// carrying a fixed-offset location.
func (r *Resolver) FromUTC(name string, t time.Time) (time.Time, error) {
	off, err := r.offset(name, t.Unix())
	if err != nil {
		return time.Time{}, err
	}
	return t.In(time.FixedZone(name, int(off/time.Second))), nil
}

func (r *Resolver) offset(name string, unix int64) (time.Duration, error) {
	z, err := r.src.Zone(name)
	if err != nil {
		return 0, err
	}
	if len(z.Transitions) == 0 {
		return 0, fmt.Errorf("%w: %s: no transitions", ErrDataUnavailable, name)
	}
	return time.Duration(offsetAt(z, unix)) * time.Second, nil
}

// offsetAt returns the offset in effect at the given instant: the offset
// of the latest transition with an occurrence <= unix, or the base offset
// if the instant precedes all transitions.
func offsetAt(z tzoff.Zone, unix int64) int32 {
	n := sort.Search(len(z.Transitions), func(i int) bool {
		return z.Transitions[i].Occ > unix
	})
	if n == 0 {
		return z.Header.Baseoff
	}
	return z.Transitions[n-1].Utoff
}
