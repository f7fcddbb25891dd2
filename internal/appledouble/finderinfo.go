// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import "encoding/binary"

// FinderInfo is the file-only half of the 32-byte FinderInfo block
// (FinderInfo proper, 16 bytes, plus FinderXInfo, 16 bytes). C8's probe
// reads Type/Creator out of this; the rest is carried for completeness.
type FinderInfo struct {
	Type, Creator [4]byte
	Flags         uint16
	LocationY     int16
	LocationX     int16
	XFlags        uint16
}

// LoadFinderInfo decodes the 32-byte FinderInfo+FinderXInfo block spec
// §6 names, grounded on the original file-info decode this package's
// predecessor performed byte-for-byte.
func LoadFinderInfo(d [32]byte) FinderInfo {
	var fi FinderInfo
	copy(fi.Type[:], d[0:4])
	copy(fi.Creator[:], d[4:8])
	fi.Flags = binary.BigEndian.Uint16(d[8:10])
	fi.LocationY = int16(binary.BigEndian.Uint16(d[10:12]))
	fi.LocationX = int16(binary.BigEndian.Uint16(d[12:14]))
	fi.XFlags = binary.BigEndian.Uint16(d[24:26])
	if fi.XFlags&0x8000 != 0 {
		fi.XFlags = 0 // the disagreeable, rarely-used "filename script" field
	}
	return fi
}

func (fi FinderInfo) encode() [32]byte {
	var d [32]byte
	copy(d[0:4], fi.Type[:])
	copy(d[4:8], fi.Creator[:])
	binary.BigEndian.PutUint16(d[8:10], fi.Flags)
	binary.BigEndian.PutUint16(d[10:12], uint16(fi.LocationY))
	binary.BigEndian.PutUint16(d[12:14], uint16(fi.LocationX))
	binary.BigEndian.PutUint16(d[24:26], fi.XFlags)
	return d
}
