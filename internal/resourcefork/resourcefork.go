// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package resourcefork parses the Macintosh resource-fork map (C3 in
// the design notes): header, type list, reference list, and data area,
// exposed as a (fourcc, id) -> Entry map plus the 'vers' and 'STR '
// convenience accessors spec §4.3 names.
//
// The on-disk layout (spec §4.3): a 16-byte header naming the data and
// map offsets/lengths, a map whose type list holds one record per
// distinct fourcc (count-1, offset into the reference list), and a
// reference list of (id, name offset, 3-byte data offset) tuples
// pointing into the data area, each data blob itself prefixed by a u32
// length.
package resourcefork

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/stream"
)

// ErrFormat classifies spec §7 FormatMismatch for a malformed resource
// fork.
var ErrFormat = errors.New("resourcefork: not a valid resource fork")

// Entry mirrors spec §3's "Entry": a half-open byte range, an optional
// fourcc and id, a name, and a parsed flag a consumer can set once it
// has interpreted the blob.
type Entry struct {
	FourCC     [4]byte
	ID         int16
	Name       string
	HasName    bool
	Begin, End int64
	Parsed     bool
}

// Map is an immutable-after-load fourcc -> ordered list of Entry.
type Map struct {
	byType map[[4]byte][]Entry
	r      io.ReaderAt
}

// Open parses the resource fork's map, reading blob headers but not
// blob contents.
func Open(r io.ReaderAt, length int64) (*Map, error) {
	s := stream.New(r, length)

	hdr, err := s.ReadBytes(16)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "resourcefork: header truncated")
	}
	dataOffset := int64(binary.BigEndian.Uint32(hdr[0:4]))
	mapOffset := int64(binary.BigEndian.Uint32(hdr[4:8]))
	dataLength := int64(binary.BigEndian.Uint32(hdr[8:12]))
	mapLength := int64(binary.BigEndian.Uint32(hdr[12:16]))

	if dataOffset < 0 || mapOffset < 0 || dataOffset+dataLength > length || mapOffset+mapLength > length {
		return nil, errors.Wrap(ErrFormat, "resourcefork: header offsets inconsistent with fork length")
	}

	mapStream, err := s.SubStream(mapOffset, mapOffset+mapLength)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "resourcefork: map range invalid")
	}
	mapBytes, err := mapStream.ReadBytes(int(mapLength))
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "resourcefork: map truncated")
	}
	if len(mapBytes) < 30 {
		return nil, errors.Wrap(ErrFormat, "resourcefork: map too short for type-list header")
	}

	typeListOffset := int(binary.BigEndian.Uint16(mapBytes[24:26]))
	nameListOffset := int(binary.BigEndian.Uint16(mapBytes[26:28]))
	if typeListOffset+2 > len(mapBytes) {
		return nil, errors.Wrap(ErrFormat, "resourcefork: type-list offset out of range")
	}

	numTypes := int(binary.BigEndian.Uint16(mapBytes[typeListOffset:typeListOffset+2])) + 1
	typeRecords := mapBytes[typeListOffset+2:]

	m := &Map{byType: make(map[[4]byte][]Entry), r: r}

	for i := 0; i < numTypes; i++ {
		rec := typeRecords[8*i:]
		if len(rec) < 8 {
			return nil, errors.Wrap(ErrFormat, "resourcefork: truncated type record")
		}
		var fourcc [4]byte
		copy(fourcc[:], rec[0:4])
		numRes := int(binary.BigEndian.Uint16(rec[4:6])) + 1
		refListOffset := int(binary.BigEndian.Uint16(rec[6:8]))

		refListStart := typeListOffset + refListOffset
		for j := 0; j < numRes; j++ {
			off := refListStart + 12*j
			if off+12 > len(mapBytes) {
				return nil, errors.Wrap(ErrFormat, "resourcefork: truncated reference list")
			}
			ref := mapBytes[off : off+12]
			id := int16(binary.BigEndian.Uint16(ref[0:2]))
			nameOffset := int16(binary.BigEndian.Uint16(ref[2:4]))
			blobOffset := int64(uint32(ref[4])<<16 | uint32(ref[5])<<8 | uint32(ref[6]))

			entry := Entry{FourCC: fourcc, ID: id}

			if nameOffset >= 0 {
				nameStart := nameListOffset + int(nameOffset)
				if nameStart >= len(mapBytes) {
					return nil, errors.Wrap(ErrFormat, "resourcefork: name offset out of range")
				}
				nameLen := int(mapBytes[nameStart])
				if nameStart+1+nameLen > len(mapBytes) {
					return nil, errors.Wrap(ErrFormat, "resourcefork: name data out of range")
				}
				entry.Name = string(mapBytes[nameStart+1 : nameStart+1+nameLen])
				entry.HasName = true
			}

			lenHdrOff := dataOffset + blobOffset
			var lenHdr [4]byte
			if n, _ := r.ReadAt(lenHdr[:], lenHdrOff); n != 4 {
				return nil, errors.Wrap(ErrFormat, "resourcefork: blob length prefix truncated")
			}
			blobLen := int64(binary.BigEndian.Uint32(lenHdr[:]))
			entry.Begin = lenHdrOff + 4
			entry.End = entry.Begin + blobLen
			if entry.End > dataOffset+dataLength {
				return nil, errors.Wrap(ErrFormat, "resourcefork: blob extends past data area")
			}

			m.byType[fourcc] = append(m.byType[fourcc], entry)
		}
	}

	for k := range m.byType {
		sort.Slice(m.byType[k], func(i, j int) bool { return m.byType[k][i].ID < m.byType[k][j].ID })
	}

	return m, nil
}

// Entries returns every entry for the given fourcc, ordered by id.
func (m *Map) Entries(fourcc string) []Entry {
	return m.byType[fourCCOf(fourcc)]
}

// Entry looks up a single (fourcc, id) pair.
func (m *Map) Entry(fourcc string, id int16) (Entry, bool) {
	for _, e := range m.byType[fourCCOf(fourcc)] {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// HasEntry reports whether the (fourcc, id) pair exists.
func (m *Map) HasEntry(fourcc string, id int16) bool {
	_, ok := m.Entry(fourcc, id)
	return ok
}

// Read returns the blob bytes for an Entry previously obtained from
// this Map, and marks it parsed.
func (m *Map) Read(e *Entry) ([]byte, error) {
	buf := make([]byte, e.End-e.Begin)
	if _, err := io.NewSectionReader(m.r, e.Begin, e.End-e.Begin).Read(buf); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "resourcefork: reading blob [%d,%d)", e.Begin, e.End)
	}
	e.Parsed = true
	return buf, nil
}

func fourCCOf(s string) [4]byte {
	var f [4]byte
	copy(f[:], s)
	return f
}
