// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package appledouble reads and writes the AppleDouble sidecar format
// (spec §6): a file-system-neutral encoding of a Mac file's two forks
// plus FinderInfo as a sibling file, `._NAME`. This module only ever
// consumes entry ids 1 (data fork), 2 (resource fork), and 9
// (FinderInfo) — spec §4.4: "Unknown ids are skipped."
package appledouble

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// Entry ids, spec §6.
const (
	DataFork     = 1
	ResourceFork = 2
	RealName     = 3
	Comment      = 4
	IconBW       = 5
	IconColor    = 6
	FileInfoV1   = 7
	FileDates    = 8
	FinderInfoID = 9
	ProDOSInfo   = 11
	MSDOSInfo    = 12
	ShortName    = 13
	AFPFileInfo  = 14
	DirectoryID  = 15
)

var entryName = map[uint32]string{
	DataFork: "DATA_FORK", ResourceFork: "RESOURCE_FORK", RealName: "REAL_NAME",
	Comment: "COMMENT", IconBW: "ICON_BW", IconColor: "ICON_COLOR",
	FileInfoV1: "FILE_INFO_V1", FileDates: "FILE_DATES_INFO", FinderInfoID: "FINDER_INFO",
	10: "MACINTOSH_FILE_INFO", ProDOSInfo: "PRODOS_FILE_INFO", MSDOSInfo: "MSDOS_FILE_INFO",
	ShortName: "SHORT_NAME", AFPFileInfo: "AFP_FILE_INFO", DirectoryID: "DIRECTORY_ID",
}

// ErrFormat classifies spec §7 FormatMismatch for a malformed AppleDouble
// header.
var ErrFormat = errors.New("appledouble: not a valid AppleDouble file")

var magicV1 = [4]byte{0x00, 0x05, 0x16, 0x00}
var magicV2 = [4]byte{0x00, 0x05, 0x16, 0x07}

const version2 = 0x00020000

// Range is a byte range within the AppleDouble container.
type Range struct {
	Offset, Length int64
}

// File is a parsed AppleDouble container: an id-keyed map of byte
// ranges, read lazily via the reader passed to Parse.
type File struct {
	r       io.ReaderAt
	Entries map[uint32]Range
}

// Parse reads an AppleDouble header and entry-descriptor table (spec
// §6: magic 00 05 16 07, also accepting the older 00 05 16 00; version
// 0x00020000; 16-byte filename field; then an entry table of
// (id:u32, offset:u32, length:u32)). It does not read entry contents.
func Parse(r io.ReaderAt) (*File, error) {
	var hdr [26]byte
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, int64(len(hdr))), hdr[:]); err != nil {
		return nil, errors.Wrap(ErrFormat, "appledouble: header truncated")
	}
	magic := [4]byte(hdr[0:4])
	if magic != magicV1 && magic != magicV2 {
		return nil, errors.Wrapf(ErrFormat, "bad magic %x", magic)
	}
	version := binary.BigEndian.Uint32(hdr[4:8])
	if version != version2 {
		return nil, errors.Wrapf(ErrFormat, "unsupported version %#x", version)
	}
	count := binary.BigEndian.Uint16(hdr[24:26])

	descTable := make([]byte, 12*int(count))
	if _, err := io.ReadFull(io.NewSectionReader(r, 26, int64(len(descTable))), descTable); err != nil {
		return nil, errors.Wrap(ErrFormat, "appledouble: entry table truncated")
	}

	f := &File{r: r, Entries: make(map[uint32]Range, count)}
	for i := 0; i < int(count); i++ {
		rec := descTable[12*i : 12*i+12]
		id := binary.BigEndian.Uint32(rec[0:4])
		off := binary.BigEndian.Uint32(rec[4:8])
		length := binary.BigEndian.Uint32(rec[8:12])
		// Unknown ids are skipped (spec §4.4) in the sense that callers
		// never see them through the typed accessors below, but we keep
		// every entry in the map for diagnostics.
		f.Entries[id] = Range{Offset: int64(off), Length: int64(length)}
	}
	return f, nil
}

// Open returns an io.ReaderAt limited to entry id's byte range, or
// (nil, false) if the entry is absent.
func (f *File) Open(id uint32) (io.ReaderAt, int64, bool) {
	r, ok := f.Entries[id]
	if !ok {
		return nil, 0, false
	}
	return io.NewSectionReader(f.r, r.Offset, r.Length), r.Length, true
}

// DataForkReader, ResourceForkReader, and FinderInfoBytes read the three entry
// ids this module consumes (spec §4.4).
func (f *File) DataForkReader() (io.ReaderAt, int64, bool)     { return f.Open(DataFork) }
func (f *File) ResourceForkReader() (io.ReaderAt, int64, bool) { return f.Open(ResourceFork) }

func (f *File) FinderInfoBytes() ([32]byte, bool) {
	var out [32]byte
	r, n, ok := f.Open(FinderInfoID)
	if !ok || n < 32 {
		return out, false
	}
	buf := make([]byte, 32)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return out, false
	}
	copy(out[:], buf)
	return out, true
}
