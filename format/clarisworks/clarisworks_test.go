// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package clarisworks

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/xattr"
)

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

func appendZone(buf []byte, tag string, payload []byte) []byte {
	buf = append(buf, []byte(tag)...)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(payload)))
	buf = append(buf, size[:]...)
	return append(buf, payload...)
}

func buildDataFork(version uint32, textZones ...string) []byte {
	var buf []byte
	buf = append(buf, []byte(headerTag)...)
	var v [4]byte
	binary.BigEndian.PutUint32(v[:], version)
	buf = append(buf, v[:]...)
	for _, t := range textZones {
		buf = appendZone(buf, zoneTag, []byte(t))
	}
	return buf
}

func TestCheckHeaderRecognizesCWKH(t *testing.T) {
	data := buildDataFork(5, "hi")
	doc := &facade.Document{DataFork: bytesReaderAt(data), DataLength: int64(len(data))}
	ok, version := (&Format{}).CheckHeader(doc, false)
	if !ok || version != 5 {
		t.Fatalf("ok=%v version=%d", ok, version)
	}
}

func TestCheckHeaderRejectsWrongTag(t *testing.T) {
	data := []byte("NOPE\x00\x00\x00\x00")
	doc := &facade.Document{DataFork: bytesReaderAt(data), DataLength: int64(len(data))}
	ok, _ := (&Format{}).CheckHeader(doc, false)
	if ok {
		t.Fatal("expected rejection")
	}
}

type captureSink struct {
	paragraphs   []string
	cur          strings.Builder
	lastSpanFont string
}

func (c *captureSink) StartDocument() error { return nil }
func (c *captureSink) EndDocument() error   { return nil }
func (c *captureSink) StartPage() error     { return nil }
func (c *captureSink) EndPage() error       { return nil }

func (c *captureSink) OpenSection(sink.Section) error { return nil }
func (c *captureSink) CloseSection() error            { return nil }

func (c *captureSink) OpenParagraph(sink.Paragraph) error { c.cur.Reset(); return nil }
func (c *captureSink) CloseParagraph() error {
	c.paragraphs = append(c.paragraphs, c.cur.String())
	return nil
}

func (c *captureSink) OpenSpan(s sink.Span) error { c.lastSpanFont = s.Font.Name; return nil }
func (c *captureSink) CloseSpan() error           { return nil }

func (c *captureSink) OpenLink(string) error { return nil }
func (c *captureSink) CloseLink() error      { return nil }

func (c *captureSink) OpenTable(sink.Table) error    { return nil }
func (c *captureSink) CloseTable() error             { return nil }
func (c *captureSink) OpenTableRow(sink.Row) error   { return nil }
func (c *captureSink) CloseTableRow() error          { return nil }
func (c *captureSink) OpenTableCell(sink.Cell) error { return nil }
func (c *captureSink) CloseTableCell() error         { return nil }

func (c *captureSink) OpenListLevel(sink.Level) error { return nil }
func (c *captureSink) CloseListLevel() error          { return nil }
func (c *captureSink) OpenListElement() error         { return nil }
func (c *captureSink) CloseListElement() error        { return nil }

func (c *captureSink) OpenGroup() error  { return nil }
func (c *captureSink) CloseGroup() error { return nil }

func (c *captureSink) InsertChar(r rune) error          { c.cur.WriteRune(r); return nil }
func (c *captureSink) InsertTab() error                 { c.cur.WriteByte('\t'); return nil }
func (c *captureSink) InsertBreak(sink.Break) error     { return nil }
func (c *captureSink) InsertField(sink.Field) error     { return nil }
func (c *captureSink) InsertPicture(sink.Picture) error { return nil }

func (c *captureSink) DrawShape(sink.Shape) error   { return nil }
func (c *captureSink) DrawPath(sink.Path) error     { return nil }
func (c *captureSink) DrawBitmap(sink.Bitmap) error { return nil }

func TestParseAssemblesParagraphsAcrossZones(t *testing.T) {
	data := buildDataFork(5, "first\rsecond", "third")
	doc := &facade.Document{DataFork: bytesReaderAt(data), DataLength: int64(len(data))}

	ev := &captureSink{}
	if err := (&Format{}).Parse(doc, ev); err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	if len(ev.paragraphs) != len(want) {
		t.Fatalf("got %q", ev.paragraphs)
	}
	for i := range want {
		if ev.paragraphs[i] != want[i] {
			t.Fatalf("paragraph %d: got %q want %q", i, ev.paragraphs[i], want[i])
		}
	}
}

// fakeFS and fakeXattr let a test drive facade.Open with both a data
// fork and a resource fork, exercising the same discovery path a real
// extended-attribute-bearing filesystem would.
type fakeFS struct{ dataFork []byte }

func (f fakeFS) Open(name string) (io.ReaderAt, int64, error) {
	if name != "doc.cwk" {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return bytesReaderAt(f.dataFork), int64(len(f.dataFork)), nil
}

type fakeXattr struct{ resourceFork []byte }

func (x fakeXattr) Get(path, name string) ([]byte, error) {
	if name == xattr.ResourceForkAttr {
		return x.resourceFork, nil
	}
	return nil, xattr.ErrNotSupported
}

// buildResourceForkWithFontName assembles a minimal resource fork
// holding a single 'STR ' resource at id, matching the layout
// internal/resourcefork's own tests build.
func buildResourceForkWithFontName(id uint16, name string) []byte {
	strBlob := append([]byte{byte(len(name))}, []byte(name)...)

	var data []byte
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(strBlob)))
	data = append(data, sizeBuf[:]...)
	data = append(data, strBlob...)
	dataLen := len(data)

	const mapHeaderLen = 28
	typeListOffset := mapHeaderLen
	refListBase := 2 + 8 // one type record

	strRef := make([]byte, 12)
	binary.BigEndian.PutUint16(strRef[0:2], id)
	binary.BigEndian.PutUint16(strRef[2:4], 0xFFFF) // no name
	strRef[4], strRef[5], strRef[6] = 0, 0, 0        // data offset 0 into data area

	typeRec := make([]byte, 8)
	copy(typeRec[0:4], "STR ")
	binary.BigEndian.PutUint16(typeRec[4:6], 0) // 1 resource - 1
	binary.BigEndian.PutUint16(typeRec[6:8], uint16(refListBase))

	var typeList []byte
	typeList = binary.BigEndian.AppendUint16(typeList, 0) // 1 type - 1
	typeList = append(typeList, typeRec...)
	typeList = append(typeList, strRef...)

	nameListOffset := typeListOffset + len(typeList)

	var mapBuf []byte
	mapBuf = append(mapBuf, make([]byte, 24)...)
	mapBuf = binary.BigEndian.AppendUint16(mapBuf, uint16(typeListOffset))
	mapBuf = binary.BigEndian.AppendUint16(mapBuf, uint16(nameListOffset))
	mapBuf = append(mapBuf, typeList...)

	const headerLen = 16
	dataOffset := headerLen
	mapOffset := dataOffset + dataLen

	var fork []byte
	fork = binary.BigEndian.AppendUint32(fork, uint32(dataOffset))
	fork = binary.BigEndian.AppendUint32(fork, uint32(mapOffset))
	fork = binary.BigEndian.AppendUint32(fork, uint32(dataLen))
	fork = binary.BigEndian.AppendUint32(fork, uint32(len(mapBuf)))
	fork = append(fork, data...)
	fork = append(fork, mapBuf...)
	return fork
}

func TestParseResolvesFontNameFromResourceFork(t *testing.T) {
	data := buildDataFork(5, "hi")
	resFork := buildResourceForkWithFontName(1, "Palatino")

	doc, err := facade.Open(fakeFS{dataFork: data}, "doc.cwk", fakeXattr{resourceFork: resFork})
	if err != nil {
		t.Fatal(err)
	}

	ev := &captureSink{}
	f := &Format{}
	if err := f.Parse(doc, ev); err != nil {
		t.Fatal(err)
	}
	if ev.lastSpanFont != "Palatino" {
		t.Fatalf("got font %q, want Palatino", ev.lastSpanFont)
	}
}

func TestReadZonesStopsAtInconsistentLength(t *testing.T) {
	data := buildDataFork(5, "ok")
	data = append(data, []byte("TEXT")...)
	data = append(data, 0xFF, 0xFF, 0xFF, 0xFF) // length far beyond the buffer

	doc := &facade.Document{DataFork: bytesReaderAt(data), DataLength: int64(len(data))}
	zones, err := readZones(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(zones) != 1 {
		t.Fatalf("expected the scan to stop before the bad zone, got %d zones", len(zones))
	}
}
