// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package probe

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/elliotnunn/mwawgo/internal/ole2"
)

// TestFromFinderInfoClarisWorks is spec §8 scenario S4: BOBO/CWWP
// FinderInfo identifies ClarisWorks/AppleWorks.
func TestFromFinderInfoClarisWorks(t *testing.T) {
	res := FromFinderInfo([4]byte{'B', 'O', 'B', 'O'}, [4]byte{'C', 'W', 'W', 'P'}, false)
	if len(res.Tags) != 1 || res.Tags[0] != TagClarisWorks {
		t.Fatalf("got %+v", res)
	}
}

func TestFromFinderInfoSimpleTextDemotion(t *testing.T) {
	res := FromFinderInfo([4]byte{'t', 't', 'x', 't'}, [4]byte{'T', 'E', 'X', 'T'}, false)
	if len(res.Tags) != 1 || res.Tags[0] != TagPlainText {
		t.Fatalf("expected plain text demotion, got %+v", res)
	}

	res = FromFinderInfo([4]byte{'t', 't', 'x', 't'}, [4]byte{'T', 'E', 'X', 'T'}, true)
	if len(res.Tags) != 1 || res.Tags[0] != TagSimpleText {
		t.Fatalf("expected SimpleText with styl 128, got %+v", res)
	}
}

func TestFromFinderInfoUnknown(t *testing.T) {
	res := FromFinderInfo([4]byte{'?', '?', '?', '?'}, [4]byte{'?', '?', '?', '?'}, false)
	if len(res.Tags) != 0 {
		t.Fatalf("expected no tags, got %+v", res)
	}
}

// TestFromDataForkOLE is half of spec §8 scenario S1: the OLE2 magic
// number is recognized from the data fork's first eight bytes.
func TestFromDataForkOLE(t *testing.T) {
	head := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	res := FromDataFork(head, nil)
	if len(res.Tags) != 1 || res.Tags[0] != TagOLEContainer {
		t.Fatalf("got %+v", res)
	}
}

// utf16z encodes s as null-terminated UTF-16LE, the directory-entry
// name encoding spec §3 specifies.
func utf16z(s string) []uint16 { return utf16.Encode([]rune(s + "\x00")) }

// writeDirEntry fills one 128-byte OLE2 directory entry slot.
func writeDirEntry(slot []byte, name string, kind ole2.Kind, left, right, child int32, firstSector uint32, size uint64) {
	units := utf16z(name)
	for i, u := range units {
		binary.LittleEndian.PutUint16(slot[2*i:], u)
	}
	binary.LittleEndian.PutUint16(slot[64:66], uint16(len(units)*2))
	slot[66] = byte(kind)
	binary.LittleEndian.PutUint32(slot[68:72], uint32(left))
	binary.LittleEndian.PutUint32(slot[72:76], uint32(right))
	binary.LittleEndian.PutUint32(slot[76:80], uint32(child))
	binary.LittleEndian.PutUint32(slot[116:120], firstSector)
	binary.LittleEndian.PutUint64(slot[120:128], size)
}

// buildOLEFixture assembles a minimal OLE2 compound file (512-byte
// sectors, no MiniFAT) with a root entry and, if compObj is non-nil, a
// "/CompObj" stream holding it. The CompObj stream is padded to the
// 4096-byte mini-cutoff so Reader.Open reads it through the regular
// FAT chain rather than needing a MiniFAT/mini-stream setup.
func buildOLEFixture(t *testing.T, compObj []byte) *ole2.Reader {
	t.Helper()
	const sectorSize = 512

	var compObjSectors int
	if compObj != nil {
		if len(compObj) < 4096 {
			padded := make([]byte, 4096)
			copy(padded, compObj)
			compObj = padded
		}
		compObjSectors = len(compObj) / sectorSize
	}

	header := make([]byte, sectorSize)
	copy(header[0:8], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[30:32], 9) // 1<<9 = 512-byte sectors
	binary.LittleEndian.PutUint16(header[32:34], 6) // 1<<6 = 64-byte mini sectors
	binary.LittleEndian.PutUint32(header[44:48], 1) // one FAT sector
	binary.LittleEndian.PutUint32(header[48:52], 1) // directory starts at sector 1
	binary.LittleEndian.PutUint32(header[56:60], 4096)
	binary.LittleEndian.PutUint32(header[60:64], 0xFFFFFFFE) // no MiniFAT
	binary.LittleEndian.PutUint32(header[64:68], 0)
	binary.LittleEndian.PutUint32(header[68:72], 0xFFFFFFFE) // no extra DIFAT sectors
	binary.LittleEndian.PutUint32(header[72:76], 0)
	for i := 0; i < 109; i++ {
		binary.LittleEndian.PutUint32(header[76+4*i:], 0xFFFFFFFF)
	}
	binary.LittleEndian.PutUint32(header[76:80], 0) // FAT lives in sector 0

	fat := make([]byte, sectorSize)
	for i := range fat {
		fat[i] = 0xFF
	}
	binary.LittleEndian.PutUint32(fat[0:4], 0xFFFFFFFD) // sector 0: the FAT itself
	binary.LittleEndian.PutUint32(fat[4:8], 0xFFFFFFFE)  // sector 1: directory, one sector
	for i := 0; i < compObjSectors; i++ {
		sec := 2 + i
		next := uint32(0xFFFFFFFE)
		if i+1 < compObjSectors {
			next = uint32(sec + 1)
		}
		binary.LittleEndian.PutUint32(fat[4*sec:4*sec+4], next)
	}

	dir := make([]byte, sectorSize)
	if compObj != nil {
		writeDirEntry(dir[0:128], "Root Entry", ole2.KindRoot, -1, -1, 1, 0, 0)
		writeDirEntry(dir[128:256], "CompObj", ole2.KindStream, -1, -1, -1, 2, uint64(len(compObj)))
	} else {
		writeDirEntry(dir[0:128], "Root Entry", ole2.KindRoot, -1, -1, -1, 0, 0)
	}

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(fat)
	buf.Write(dir)
	buf.Write(compObj)

	r, err := ole2.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ole2.Open: %v", err)
	}
	return r
}

// TestFromOLEMicrosoftWordCLSID is spec §8 scenario S1: an OLE2
// container whose "/CompObj" stream embeds the Word CLSID is tagged
// Microsoft Word, not just identified as a bare OLE container.
func TestFromOLEMicrosoftWordCLSID(t *testing.T) {
	compObj := make([]byte, 28)
	copy(compObj[12:28], oleCLSID(0x00020906)[:])

	r := buildOLEFixture(t, compObj)
	res := FromOLE(r)
	if len(res.Tags) != 2 || res.Tags[0] != TagOLEContainer || res.Tags[1] != TagMicrosoftWord {
		t.Fatalf("got %+v", res)
	}
}

// TestFromOLEUnknownCLSIDFallsBackToRoot confirms FromOLE falls back
// to the root entry's own CLSID when there is no "/CompObj" stream to
// resolve, per spec §4.2.
func TestFromOLEUnknownCLSIDFallsBackToRoot(t *testing.T) {
	r := buildOLEFixture(t, nil)
	res := FromOLE(r)
	if len(res.Tags) != 1 || res.Tags[0] != TagOLEContainer {
		t.Fatalf("got %+v", res)
	}
}

func TestFromDataForkPDF(t *testing.T) {
	head := []byte{0x25, 0x50, 0x44, 0x46, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	res := FromDataFork(head, nil)
	if len(res.Tags) != 1 || res.Tags[0] != TagPDF {
		t.Fatalf("got %+v", res)
	}
}

func TestContainsHelper(t *testing.T) {
	if !contains("ClarisWorks 4.0", "ClarisWorks") {
		t.Fatal("expected match")
	}
	if contains("short", "muchlongerneedle") {
		t.Fatal("expected no match")
	}
}
