package tzoff

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Zone represents a decoded zone blob.
type Zone struct {
	Header      ZoneHeader
	Transitions []Transition
}

// Encode writes the zone blob to the given writer.
func (z Zone) Encode(w io.Writer) error {
	if err := z.Header.Write(w); err != nil {
		return fmt.Errorf("write zone header: %w", err)
	}
	if err := binary.Write(w, order, z.Transitions); err != nil {
		return fmt.Errorf("write transitions: %w", err)
	}
	return nil
}

// DecodeZone reads a zone blob from the given reader.
func DecodeZone(r io.Reader) (Zone, error) {
	var z Zone
	h, err := ReadZoneHeader(r)
	if err != nil {
		return z, fmt.Errorf("read zone header: %w", err)
	}
	z.Header = h
	if h.Timecnt > 0 {
		z.Transitions = make([]Transition, h.Timecnt)
		if err := binary.Read(r, order, &z.Transitions); err != nil {
			return z, fmt.Errorf("read transitions: %w", err)
		}
	}
	return z, nil
}

// NamedZone pairs a zone blob with its IANA name inside a dataset.
type NamedZone struct {
	Name string
	Zone Zone
}

// Dataset represents a decoded dataset blob.
// Zones are sorted by name.
type Dataset struct {
	Header DatasetHeader
	Zones  []NamedZone
}

// Encode writes the dataset blob to the given writer.
func (d Dataset) Encode(w io.Writer) error {
	if err := d.Header.Write(w); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	for _, z := range d.Zones {
		if err := writeZoneEntry(w, z); err != nil {
			return fmt.Errorf("write zone entry %s: %w", z.Name, err)
		}
	}
	return nil
}

func writeZoneEntry(w io.Writer, z NamedZone) error {
	if err := binary.Write(w, order, uint16(len(z.Name))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(z.Name)); err != nil {
		return err
	}
	if err := binary.Write(w, order, zoneBlobLen(z.Zone)); err != nil {
		return err
	}
	return z.Zone.Encode(w)
}

// zoneBlobLen returns the encoded size of a zone blob: magic, header
// fields and 12 octets per transition record.
func zoneBlobLen(z Zone) uint32 {
	const headerLen = 4 + 1 + 4 + 8 + 8 + 4
	return headerLen + 12*uint32(len(z.Transitions))
}

// DecodeDataset reads a complete dataset blob from the given reader.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var d Dataset
	h, err := ReadDatasetHeader(r)
	if err != nil {
		return d, fmt.Errorf("read dataset header: %w", err)
	}
	d.Header = h
	for i := uint32(0); i < h.Zonecnt; i++ {
		name, blen, err := readZoneFrame(r)
		if err != nil {
			return d, fmt.Errorf("read zone entry %d: %w", i, err)
		}
		z, err := DecodeZone(io.LimitReader(r, int64(blen)))
		if err != nil {
			return d, fmt.Errorf("decode zone %s: %w", name, err)
		}
		d.Zones = append(d.Zones, NamedZone{Name: name, Zone: z})
	}
	return d, nil
}

// ScanDataset reads the dataset blob from r until it finds the zone with
// the given name and decodes only that zone. Blobs of other zones are
// skipped without decoding, so the memory footprint of a lookup stays
// bounded by a single zone's data. The second return value reports
// whether the zone was found.
func ScanDataset(r io.Reader, name string) (Zone, bool, error) {
	h, err := ReadDatasetHeader(r)
	if err != nil {
		return Zone{}, false, fmt.Errorf("read dataset header: %w", err)
	}
	for i := uint32(0); i < h.Zonecnt; i++ {
		entryName, blen, err := readZoneFrame(r)
		if err != nil {
			return Zone{}, false, fmt.Errorf("read zone entry %d: %w", i, err)
		}
		if entryName != name {
			if _, err := io.CopyN(io.Discard, r, int64(blen)); err != nil {
				return Zone{}, false, fmt.Errorf("skip zone %s: %w", entryName, err)
			}
			continue
		}
		z, err := DecodeZone(io.LimitReader(r, int64(blen)))
		if err != nil {
			return Zone{}, false, fmt.Errorf("decode zone %s: %w", name, err)
		}
		return z, true, nil
	}
	return Zone{}, false, nil
}

// readZoneFrame reads the name and blob length of the next zone entry.
func readZoneFrame(r io.Reader) (string, uint32, error) {
	var nlen uint16
	if err := binary.Read(r, order, &nlen); err != nil {
		return "", 0, fmt.Errorf("reading name length: %w", err)
	}
	nameBuf := make([]byte, nlen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return "", 0, fmt.Errorf("reading name: %w", err)
	}
	var blen uint32
	if err := binary.Read(r, order, &blen); err != nil {
		return "", 0, fmt.Errorf("reading blob length: %w", err)
	}
	return string(nameBuf), blen, nil
}
