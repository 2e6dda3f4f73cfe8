package tzlookup

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/ngrash/go-tzdb/tzoff"
)

func date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// chicago2022 covers the calendar year 2022 for America/Chicago:
// DST started March 13 at 08:00 UTC and ended November 6 at 07:00 UTC.
func chicago2022() tzoff.Zone {
	return tzoff.Zone{
		Header: tzoff.ZoneHeader{
			Version: tzoff.V1,
			Baseoff: -6 * 3600,
			From:    date(2022, time.January, 1, 0).Unix(),
			To:      date(2023, time.January, 1, 0).Unix(),
			Timecnt: 2,
		},
		Transitions: []tzoff.Transition{
			{Occ: date(2022, time.March, 13, 8).Unix(), Utoff: -5 * 3600},
			{Occ: date(2022, time.November, 6, 7).Unix(), Utoff: -6 * 3600},
		},
	}
}

func encodeZone(t *testing.T, z tzoff.Zone) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := z.Encode(&buf); err != nil {
		t.Fatalf("encoding zone: %v", err)
	}
	return buf.Bytes()
}

func chicagoSource(t *testing.T) MapSource {
	t.Helper()
	return MapSource{"America/Chicago": encodeZone(t, chicago2022())}
}

func TestResolver_UTCOffset(t *testing.T) {
	r := New(chicagoSource(t))

	cases := []struct {
		name string
		t    time.Time
		want time.Duration
	}{
		{"standard time in January", date(2022, time.January, 15, 0), -6 * time.Hour},
		{"DST in June", date(2022, time.June, 1, 0), -5 * time.Hour},
		{"standard time in December", date(2022, time.December, 1, 0), -6 * time.Hour},
		{"exactly at DST start", date(2022, time.March, 13, 8), -5 * time.Hour},
		{"one second before DST start", date(2022, time.March, 13, 8).Add(-time.Second), -6 * time.Hour},
		{"exactly at DST end", date(2022, time.November, 6, 7), -6 * time.Hour},
		{"one second before DST end", date(2022, time.November, 6, 7).Add(-time.Second), -5 * time.Hour},
		{"before the first transition", date(2021, time.June, 1, 0), -6 * time.Hour},
		{"clamped past the coverage window", date(2024, time.June, 1, 0), -6 * time.Hour},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := r.UTCOffset("America/Chicago", c.t)
			if err != nil {
				t.Fatalf("UTCOffset() error: %v", err)
			}
			if got != c.want {
				t.Errorf("UTCOffset(%v) = %v, want %v", c.t, got, c.want)
			}
		})
	}
}

func TestResolver_UnknownZone(t *testing.T) {
	r := New(chicagoSource(t))
	_, err := r.UTCOffset("Mars/Olympus", date(2022, time.June, 1, 0))
	if !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("UTCOffset() error = %v, want ErrZoneNotFound", err)
	}
}

func TestResolver_DataUnavailable(t *testing.T) {
	empty := tzoff.Zone{
		Header: tzoff.ZoneHeader{
			Version: tzoff.V1,
			From:    date(2022, time.January, 1, 0).Unix(),
			To:      date(2023, time.January, 1, 0).Unix(),
		},
	}
	src := MapSource{
		"Etc/Empty":   encodeZone(t, empty),
		"Etc/Corrupt": []byte("not a zone blob"),
	}
	r := New(src)

	for _, zone := range []string{"Etc/Empty", "Etc/Corrupt"} {
		if _, err := r.UTCOffset(zone, date(2022, time.June, 1, 0)); !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("UTCOffset(%s) error = %v, want ErrDataUnavailable", zone, err)
		}
	}
}

func TestResolver_UTCOffsetAt(t *testing.T) {
	r := New(chicagoSource(t))

	got, err := r.UTCOffsetAt("America/Chicago", 2022, time.June, 1, 0, 0, 0)
	if err != nil {
		t.Fatalf("UTCOffsetAt() error: %v", err)
	}
	if want := -5 * time.Hour; got != want {
		t.Errorf("UTCOffsetAt() = %v, want %v", got, want)
	}
}

func TestResolver_FromUTC(t *testing.T) {
	r := New(chicagoSource(t))

	got, err := r.FromUTC("America/Chicago", date(2022, time.June, 1, 0))
	if err != nil {
		t.Fatalf("FromUTC() error: %v", err)
	}
	want := "2022-05-31T19:00:00-05:00"
	if s := got.Format(time.RFC3339); s != want {
		t.Errorf("FromUTC() = %s, want %s", s, want)
	}
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"zones/America/Chicago.tzoff": {Data: encodeZone(t, chicago2022())},
	}
	r := New(FSSource{FS: fsys, Dir: "zones"})

	got, err := r.UTCOffset("America/Chicago", date(2022, time.June, 1, 0))
	if err != nil {
		t.Fatalf("UTCOffset() error: %v", err)
	}
	if want := -5 * time.Hour; got != want {
		t.Errorf("UTCOffset() = %v, want %v", got, want)
	}

	if _, err := r.UTCOffset("Mars/Olympus", date(2022, time.June, 1, 0)); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("UTCOffset(Mars/Olympus) error = %v, want ErrZoneNotFound", err)
	}
	if _, err := r.UTCOffset("../escape", date(2022, time.June, 1, 0)); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("UTCOffset(../escape) error = %v, want ErrZoneNotFound", err)
	}
}

func TestDatasetSource(t *testing.T) {
	d := tzoff.Dataset{
		Header: tzoff.DatasetHeader{
			Version:   tzoff.V1,
			Generated: date(2022, time.January, 1, 0).Unix(),
			Zonecnt:   1,
		},
		Zones: []tzoff.NamedZone{
			{Name: "America/Chicago", Zone: chicago2022()},
		},
	}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("encoding dataset: %v", err)
	}

	src, err := NewDatasetSource(buf.Bytes())
	if err != nil {
		t.Fatalf("NewDatasetSource() error: %v", err)
	}
	if got, want := src.Header().Generated, d.Header.Generated; got != want {
		t.Errorf("Header().Generated = %d, want %d", got, want)
	}

	r := New(src)
	got, err := r.UTCOffset("America/Chicago", date(2022, time.December, 1, 0))
	if err != nil {
		t.Fatalf("UTCOffset() error: %v", err)
	}
	if want := -6 * time.Hour; got != want {
		t.Errorf("UTCOffset() = %v, want %v", got, want)
	}

	if _, err := r.UTCOffset("Mars/Olympus", date(2022, time.June, 1, 0)); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("UTCOffset(Mars/Olympus) error = %v, want ErrZoneNotFound", err)
	}

	if _, err := NewDatasetSource([]byte("garbage")); err == nil {
		t.Error("NewDatasetSource(garbage) = nil error, want error")
	}
}
