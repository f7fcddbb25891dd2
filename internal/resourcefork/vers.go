// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package resourcefork

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/stream"
)

// Version is a decoded 'vers' resource (spec §4.3): numeric version
// plus the two Pascal strings trailing it.
type Version struct {
	ID                          int16
	Major, Minor                byte
	CountryCode                 uint16
	ShortString, VersionString string
}

// GetString reads a 'STR ' resource by id, the single Pascal string it
// holds.
func (m *Map) GetString(id int16) (string, bool) {
	e, ok := m.Entry("STR ", id)
	if !ok {
		return "", false
	}
	raw, err := m.Read(&e)
	if err != nil {
		return "", false
	}
	s := stream.New(bytesReaderAt(raw), int64(len(raw)))
	str, err := s.ReadPString()
	if err != nil {
		return "", false
	}
	return string(str), true
}

// GetVersionList decodes every 'vers' resource present, in id order.
func (m *Map) GetVersionList() []Version {
	var out []Version
	for _, e := range m.Entries("vers") {
		raw, err := m.Read(&e)
		if err != nil {
			continue
		}
		v, err := decodeVers(raw)
		if err != nil {
			continue
		}
		v.ID = e.ID
		out = append(out, v)
	}
	return out
}

// decodeVers parses the classic 'vers' layout: numeric version (4
// bytes, packed BCD major/minor/stage/nonrelease), region code (u16),
// then two Pascal strings.
func decodeVers(raw []byte) (Version, error) {
	if len(raw) < 6 {
		return Version{}, errors.New("resourcefork: 'vers' resource too short")
	}
	s := stream.New(bytesReaderAt(raw), int64(len(raw)))

	numeric, err := s.ReadBytes(4)
	if err != nil {
		return Version{}, err
	}
	countryCode, err := s.ReadU16()
	if err != nil {
		return Version{}, err
	}
	short, err := s.ReadPString()
	if err != nil {
		return Version{}, err
	}
	long, err := s.ReadPString()
	if err != nil {
		return Version{}, err
	}

	return Version{
		Major:         numeric[0],
		Minor:         numeric[1] >> 4,
		CountryCode:   countryCode,
		ShortString:   string(short),
		VersionString: string(long),
	}, nil
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
