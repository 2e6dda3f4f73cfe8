// Package tzoff implements the compact offset dataset format consumed by
// resolvers on devices without a full timezone database.
//
// The format stores, per zone, the UTC offset changes within a bounded
// coverage window as an ordered list of (occurrence, offset) records,
// plus the zone's base offset for queries that precede the first record.
// A dataset groups many zone blobs under their IANA names in a framed
// container that can be scanned for a single zone without decoding the
// others.
package tzoff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// All multi-octet integer values are stored in network octet order
// (big-endian). Signed integer values use two's complement.
var order = binary.BigEndian

// Version identifies the version of the encoding.
// There is only one version so far.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x01)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

// V1 is the first and only version of the format.
const V1 Version = 0x01

// ZoneMagic is the four-octet ASCII sequence "TZof" which identifies
// a zone blob.
var ZoneMagic = [4]byte{'T', 'Z', 'o', 'f'}

// DatasetMagic is the four-octet ASCII sequence "TZoD" which identifies
// a dataset blob.
var DatasetMagic = [4]byte{'T', 'Z', 'o', 'D'}

// ZoneHeader is the header of a zone blob.
//
// A zone blob is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+-----------+
//	|  baseoff  (4) |  from     (8) |
//	+---------------+---------------+
//	|  to       (8) |  timecnt  (4) |
//	+---------------+---------------+
//	|  transitions  (timecnt x 12)  |
//	+-------------------------------+
type ZoneHeader struct {
	// Version is an octet identifying the version of the blob's format.
	Version Version

	// Baseoff is a four-octet signed integer specifying the number of
	// seconds to be added to UT to determine the zone's standard time,
	// i.e. the offset in effect outside any DST period. It applies to
	// query instants that precede the first transition.
	Baseoff int32

	// From is an eight-octet UNIX time value specifying the inclusive
	// start of the coverage window.
	From int64

	// To is an eight-octet UNIX time value specifying the exclusive end
	// of the coverage window. Offsets for instants at or after To are
	// unspecified; readers clamp to the last transition.
	To int64

	// Timecnt is a four-octet unsigned integer specifying the number of
	// transition records in the blob. It MUST NOT be zero: a generated
	// zone always carries at least the record for the window start.
	Timecnt uint32
}

// Write writes the ZoneHeader to w, including the magic.
func (h ZoneHeader) Write(w io.Writer) error {
	if _, err := w.Write(ZoneMagic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadZoneHeader reads a ZoneHeader from r, checking the magic.
func ReadZoneHeader(r io.Reader) (ZoneHeader, error) {
	var h ZoneHeader
	magic := make([]byte, len(ZoneMagic))
	if err := binary.Read(r, order, &magic); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, ZoneMagic[:]) {
		return h, fmt.Errorf("invalid magic: %v", magic)
	}
	err := binary.Read(r, order, &h)
	return h, err
}

// Transition is a single transition record.
// Each record has the following format (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---------------+
//	|  occ (8)                      |
//	+---------------+---------------+
//	|  utoff (4)    |
//	+---------------+
type Transition struct {
	// Occ is an eight-octet UNIX time value specifying the instant at
	// which Utoff takes effect. Records are sorted by occurrence in
	// non-decreasing order.
	Occ int64

	// Utoff is a four-octet signed integer specifying the number of
	// seconds to be added to UT in order to determine local time from
	// this occurrence until the next. The value SHOULD be in the range
	// [-89999, 93599], the same range RFC 8536 prescribes for utoff.
	Utoff int32
}

// DatasetHeader is the header of a dataset blob.
//
// A dataset blob is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+-----------+
//	|  generated (8)|  zonecnt  (4) |
//	+---------------+---------------+
//	|  zone entries (zonecnt x ...) |
//	+-------------------------------+
//
// Each zone entry is framed so a reader can skip it without decoding:
//
//	+----------+-----------------+----------+----------------+
//	| nlen (2) | name (nlen)     | blen (4) | zone blob      |
//	+----------+-----------------+----------+----------------+
type DatasetHeader struct {
	// Version is an octet identifying the version of the blob's format.
	Version Version

	// Generated is an eight-octet UNIX time value specifying when the
	// dataset was generated. It acts as the dataset's version.
	Generated int64

	// Zonecnt is a four-octet unsigned integer specifying the number of
	// zone entries in the blob.
	Zonecnt uint32
}

// Write writes the DatasetHeader to w, including the magic.
func (h DatasetHeader) Write(w io.Writer) error {
	if _, err := w.Write(DatasetMagic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadDatasetHeader reads a DatasetHeader from r, checking the magic.
func ReadDatasetHeader(r io.Reader) (DatasetHeader, error) {
	var h DatasetHeader
	magic := make([]byte, len(DatasetMagic))
	if err := binary.Read(r, order, &magic); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, DatasetMagic[:]) {
		return h, fmt.Errorf("invalid magic: %v", magic)
	}
	err := binary.Read(r, order, &h)
	return h, err
}
