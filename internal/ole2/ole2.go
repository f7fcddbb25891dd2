// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package ole2 reads the named-stream surface of a Microsoft OLE2
// compound file (C2 in the design notes): header, DIFAT/FAT/MiniFAT,
// directory tree, and stream readers. Its integers are little-endian,
// unlike the big-endian Mac structures elsewhere in the module: OLE2
// is a Microsoft format through and through.
package ole2

import (
	"encoding/binary"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/cockroachdb/errors"
)

var (
	// ErrBadMagic classifies spec §7 FormatMismatch.
	ErrBadMagic = errors.New("ole2: bad magic number")
	// ErrStructure classifies spec §7 InvalidStructure.
	ErrStructure = errors.New("ole2: inconsistent container structure")
	// ErrCycle classifies spec §7 CycleDetected.
	ErrCycle = errors.New("ole2: cycle in FAT/DIFAT/directory chain")
	// ErrNotExist is returned by Open when no stream matches the path.
	ErrNotExist = errors.New("ole2: no such stream")
)

const (
	magicSize   = 8
	headerSize  = 512
	freeSect    = 0xFFFFFFFF
	endOfChain  = 0xFFFFFFFE
	fatSectSect = 0xFFFFFFFD
	difatSect   = 0xFFFFFFFC
	miniCutoff  = 4096
)

var magic = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Kind is a directory entry's object type.
type Kind byte

const (
	KindEmpty Kind = iota
	KindStorage
	KindStream
	_ // lock bytes, not used by any format this module cares about
	_ // property set storage, ditto
	KindRoot
)

// DirEntry mirrors spec §3's "OLE directory entry".
type DirEntry struct {
	Name         string
	Kind         Kind
	Left, Right  int32 // sibling indices, or -1
	Child        int32 // or -1
	CLSID        [16]byte
	FirstSector  uint32
	Size         uint64
	index        int32
}

const freeIdx = -1

// Reader exposes named streams of an OLE2 compound file.
type Reader struct {
	r          io.ReaderAt
	sectorSize int64
	miniSize   int64
	fat        []uint32
	minifat    []uint32
	miniStream []byte // the root entry's data, chained via FAT, holding the MiniFAT streams
	dir        []DirEntry
	root       int32
}

// Open parses the OLE2 header, DIFAT, FAT, MiniFAT, and directory tree.
func Open(r io.ReaderAt) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, headerSize), hdr[:]); err != nil {
		return nil, errors.Wrap(ErrBadMagic, "ole2: header truncated")
	}
	if !bytesEqual(hdr[0:8], magic[:]) {
		return nil, ErrBadMagic
	}

	sectorShift := binary.LittleEndian.Uint16(hdr[30:32])
	miniShift := binary.LittleEndian.Uint16(hdr[32:34])
	numFATSectors := binary.LittleEndian.Uint32(hdr[44:48])
	dirStart := binary.LittleEndian.Uint32(hdr[48:52])
	miniCutoffField := binary.LittleEndian.Uint32(hdr[56:60])
	miniFATStart := binary.LittleEndian.Uint32(hdr[60:64])
	numMiniFATSectors := binary.LittleEndian.Uint32(hdr[64:68])
	difatStart := binary.LittleEndian.Uint32(hdr[68:72])
	numDIFATSectors := binary.LittleEndian.Uint32(hdr[72:76])

	sectorSize := int64(1) << sectorShift
	if sectorSize < 64 || sectorSize > 1<<30 {
		return nil, errors.Wrapf(ErrStructure, "sector size 1<<%d out of range", sectorShift)
	}
	miniSize := int64(1) << miniShift
	if miniShift > sectorShift {
		return nil, errors.Wrap(ErrStructure, "mini sector shift exceeds sector shift")
	}
	if miniCutoffField != miniCutoff {
		return nil, errors.Wrapf(ErrStructure, "mini cutoff %d is not the required 4096 (likely a forgery)", miniCutoffField)
	}

	ra := &sectorReaderAt{r: r, sectorSize: sectorSize}

	// Build the DIFAT: 109 sector numbers in the header, then a chain of
	// DIFAT sectors each holding sectorSize/4-1 more plus a next-pointer.
	difat := make([]uint32, 0, 109+int(numDIFATSectors)*int(sectorSize/4-1))
	for i := 0; i < 109; i++ {
		difat = append(difat, binary.LittleEndian.Uint32(hdr[76+4*i:]))
	}
	seen := map[uint32]bool{}
	cur := difatStart
	for i := uint32(0); i < numDIFATSectors; i++ {
		if cur == endOfChain || cur == freeSect {
			break
		}
		if seen[cur] {
			return nil, ErrCycle
		}
		seen[cur] = true
		buf := make([]byte, sectorSize)
		if err := ra.readSector(cur, buf); err != nil {
			return nil, err
		}
		n := int(sectorSize/4) - 1
		for j := 0; j < n; j++ {
			difat = append(difat, binary.LittleEndian.Uint32(buf[4*j:]))
		}
		cur = binary.LittleEndian.Uint32(buf[sectorSize-4:])
	}

	// Build the FAT from the sectors named by the DIFAT.
	var fatBytes []byte
	clear(seen)
	for i := uint32(0); i < numFATSectors && i < uint32(len(difat)); i++ {
		sec := difat[i]
		if sec == freeSect {
			continue
		}
		if seen[sec] {
			return nil, ErrCycle
		}
		seen[sec] = true
		buf := make([]byte, sectorSize)
		if err := ra.readSector(sec, buf); err != nil {
			return nil, err
		}
		fatBytes = append(fatBytes, buf...)
	}
	fat := make([]uint32, len(fatBytes)/4)
	for i := range fat {
		fat[i] = binary.LittleEndian.Uint32(fatBytes[4*i:])
	}

	rdr := &Reader{r: r, sectorSize: sectorSize, miniSize: miniSize, fat: fat}

	// Directory stream: a FAT chain starting at dirStart.
	dirBytes, err := rdr.readChain(dirStart, uint64(len(fat))*uint64(sectorSize))
	if err != nil {
		return nil, errors.Wrap(err, "ole2: reading directory stream")
	}
	dir, root, err := parseDirectory(dirBytes)
	if err != nil {
		return nil, err
	}
	rdr.dir = dir
	rdr.root = root

	// MiniFAT: a FAT chain starting at miniFATStart, holding the
	// MiniFAT's own next-pointers; the mini-stream data itself lives in
	// the root entry's regular FAT chain.
	if numMiniFATSectors > 0 {
		miniFATBytes, err := rdr.readChain(miniFATStart, uint64(numMiniFATSectors)*uint64(sectorSize))
		if err != nil {
			return nil, errors.Wrap(err, "ole2: reading MiniFAT")
		}
		rdr.minifat = make([]uint32, len(miniFATBytes)/4)
		for i := range rdr.minifat {
			rdr.minifat[i] = binary.LittleEndian.Uint32(miniFATBytes[4*i:])
		}
	}
	if root >= 0 {
		rootEntry := &rdr.dir[root]
		if rootEntry.Size > 0 {
			mini, err := rdr.readChain(rootEntry.FirstSector, rootEntry.Size)
			if err != nil {
				return nil, errors.Wrap(err, "ole2: reading mini-stream")
			}
			rdr.miniStream = mini
		}
	}

	return rdr, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type sectorReaderAt struct {
	r          io.ReaderAt
	sectorSize int64
}

// readSector reads sector n (0-indexed, counted after the 512-byte
// header) into buf, which must be sectorSize long.
func (ra *sectorReaderAt) readSector(n uint32, buf []byte) error {
	off := headerSize + int64(n)*ra.sectorSize
	nr, err := ra.r.ReadAt(buf, off)
	if err != nil && !(errors.Is(err, io.EOF) && nr == len(buf)) {
		return errors.Wrapf(err, "ole2: reading sector %d", n)
	}
	return nil
}

// readChain follows the regular FAT starting at startSector, returning
// up to size bytes (truncating the final sector as spec §4.2 requires).
func (r *Reader) readChain(startSector uint32, size uint64) ([]byte, error) {
	ra := &sectorReaderAt{r: r.r, sectorSize: r.sectorSize}
	var out []byte
	seen := map[uint32]bool{}
	sec := startSector
	for sec != endOfChain && sec != freeSect && uint64(len(out)) < size {
		if seen[sec] {
			return nil, ErrCycle
		}
		seen[sec] = true
		if int(sec) >= len(r.fat) {
			return nil, errors.Wrapf(ErrStructure, "sector %d has no FAT entry", sec)
		}
		buf := make([]byte, r.sectorSize)
		if err := ra.readSector(sec, buf); err != nil {
			return nil, err
		}
		out = append(out, buf...)
		sec = r.fat[sec]
	}
	if uint64(len(out)) > size {
		out = out[:size]
	}
	return out, nil
}

// readMiniChain follows the MiniFAT starting at startSector, reading from
// the root entry's mini-stream.
func (r *Reader) readMiniChain(startSector uint32, size uint64) ([]byte, error) {
	var out []byte
	seen := map[uint32]bool{}
	sec := startSector
	for sec != endOfChain && sec != freeSect && uint64(len(out)) < size {
		if seen[sec] {
			return nil, ErrCycle
		}
		seen[sec] = true
		if int(sec) >= len(r.minifat) {
			return nil, errors.Wrapf(ErrStructure, "mini-sector %d has no MiniFAT entry", sec)
		}
		off := int64(sec) * r.miniSize
		if off+r.miniSize > int64(len(r.miniStream)) {
			return nil, errors.Wrap(ErrStructure, "mini-sector beyond mini-stream")
		}
		out = append(out, r.miniStream[off:off+r.miniSize]...)
		sec = r.minifat[sec]
	}
	if uint64(len(out)) > size {
		out = out[:size]
	}
	return out, nil
}

func parseDirectory(data []byte) ([]DirEntry, int32, error) {
	const entrySize = 128
	n := len(data) / entrySize
	entries := make([]DirEntry, n)
	root := int32(-1)
	for i := 0; i < n; i++ {
		e := data[i*entrySize : (i+1)*entrySize]
		nameLen := int(binary.LittleEndian.Uint16(e[64:66]))
		var name string
		if nameLen >= 2 {
			chars := nameLen/2 - 1
			if chars < 0 {
				chars = 0
			}
			u16 := make([]uint16, chars)
			for j := 0; j < chars; j++ {
				u16[j] = binary.LittleEndian.Uint16(e[2*j:])
			}
			name = string(utf16.Decode(u16))
		}
		kind := Kind(e[66])
		var clsid [16]byte
		copy(clsid[:], e[80:96])
		entries[i] = DirEntry{
			Name:        name,
			Kind:        kind,
			Left:        int32(binary.LittleEndian.Uint32(e[68:72])),
			Right:       int32(binary.LittleEndian.Uint32(e[72:76])),
			Child:       int32(binary.LittleEndian.Uint32(e[76:80])),
			CLSID:       clsid,
			FirstSector: binary.LittleEndian.Uint32(e[116:120]),
			Size:        binary.LittleEndian.Uint64(e[120:128]),
			index:       int32(i),
		}
		if kind == KindRoot {
			root = int32(i)
		}
	}
	if root < 0 && n > 0 {
		return nil, 0, errors.Wrap(ErrStructure, "no root directory entry")
	}
	return entries, root, nil
}

// RootCLSID returns the root storage's CLSID, the first of the two
// signals spec §4.2 names for identifying the producer application.
func (r *Reader) RootCLSID() [16]byte {
	if r.root < 0 {
		return [16]byte{}
	}
	return r.dir[r.root].CLSID
}

// Entries returns every directory entry, for callers (the probe, in
// particular) that want to walk the tree themselves.
func (r *Reader) Entries() []DirEntry { return r.dir }

// Open looks up a "/"-separated path (spec §4.2's path lookup: split on
// "/", at each level follow Child then in-order walk honoring the
// name-ordering key) and returns its contents.
func (r *Reader) Open(path string) ([]byte, error) {
	if r.root < 0 {
		return nil, ErrNotExist
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	cur := r.root
	for _, part := range parts {
		next, err := r.findChild(cur, part)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	entry := &r.dir[cur]
	if entry.Kind != KindStream && entry.Kind != KindRoot {
		return nil, errors.Wrapf(ErrNotExist, "%q is not a stream", path)
	}
	if entry.Size >= miniCutoff || entry.index == r.root {
		return r.readChain(entry.FirstSector, entry.Size)
	}
	return r.readMiniChain(entry.FirstSector, entry.Size)
}

// findChild walks the red-black-ish sibling tree rooted at dir[parent].Child
// looking for name, using the (name_len, uppercase(name)) ordering key
// spec §3 specifies. Cycle-safe via a seen-set, per spec §4.2.
func (r *Reader) findChild(parent int32, name string) (int32, error) {
	if parent < 0 || int(parent) >= len(r.dir) {
		return 0, ErrNotExist
	}
	start := r.dir[parent].Child
	if start < 0 {
		return 0, errors.Wrapf(ErrNotExist, "no child named %q", name)
	}
	seen := map[int32]bool{}
	var walk func(idx int32) (int32, bool, error)
	walk = func(idx int32) (int32, bool, error) {
		if idx < 0 {
			return 0, false, nil
		}
		if seen[idx] {
			return 0, false, ErrCycle
		}
		seen[idx] = true
		if int(idx) >= len(r.dir) {
			return 0, false, errors.Wrap(ErrStructure, "sibling index out of range")
		}
		e := &r.dir[idx]
		switch compareEntryNames(name, e.Name) {
		case 0:
			return idx, true, nil
		case -1:
			return walk(e.Left)
		default:
			return walk(e.Right)
		}
	}
	found, ok, err := walk(start)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrapf(ErrNotExist, "no child named %q", name)
	}
	return found, nil
}

// compareEntryNames implements the (name_len, uppercase(name)) ordering
// key from spec §3.
func compareEntryNames(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	au, bu := strings.ToUpper(a), strings.ToUpper(b)
	switch {
	case au < bu:
		return -1
	case au > bu:
		return 1
	default:
		return 0
	}
}
