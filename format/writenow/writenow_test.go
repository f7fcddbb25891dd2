// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package writenow

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/sink"
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

func buildDoc(text string) *facade.Document {
	var head [headerSize]byte
	binary.BigEndian.PutUint32(head[0:4], uint32(len(text)))
	data := append(head[:], []byte(text)...)
	return &facade.Document{DataFork: bytesReaderAt(data), DataLength: int64(len(data))}
}

func TestCheckHeaderAcceptsConsistentTextLength(t *testing.T) {
	doc := buildDoc("hello\rworld")
	ok, _ := (&Format{}).CheckHeader(doc, false)
	if !ok {
		t.Fatal("expected header to check out")
	}
}

func TestCheckHeaderRejectsShortFile(t *testing.T) {
	doc := &facade.Document{DataFork: bytesReaderAt([]byte{1, 2, 3}), DataLength: 3}
	ok, _ := (&Format{}).CheckHeader(doc, false)
	if ok {
		t.Fatal("expected header check to fail on short file")
	}
}

// captureSink implements just enough of sink.Sink to collect assembled
// paragraph text for assertions; every other method is a no-op.
type captureSink struct {
	paragraphs []string
	cur        strings.Builder
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

func (c *captureSink) OpenSpan(sink.Span) error { return nil }
func (c *captureSink) CloseSpan() error         { return nil }

func (c *captureSink) OpenLink(string) error { return nil }
func (c *captureSink) CloseLink() error      { return nil }

func (c *captureSink) OpenTable(sink.Table) error      { return nil }
func (c *captureSink) CloseTable() error               { return nil }
func (c *captureSink) OpenTableRow(sink.Row) error     { return nil }
func (c *captureSink) CloseTableRow() error            { return nil }
func (c *captureSink) OpenTableCell(sink.Cell) error   { return nil }
func (c *captureSink) CloseTableCell() error           { return nil }

func (c *captureSink) OpenListLevel(sink.Level) error { return nil }
func (c *captureSink) CloseListLevel() error          { return nil }
func (c *captureSink) OpenListElement() error         { return nil }
func (c *captureSink) CloseListElement() error        { return nil }

func (c *captureSink) OpenGroup() error  { return nil }
func (c *captureSink) CloseGroup() error { return nil }

func (c *captureSink) InsertChar(r rune) error            { c.cur.WriteRune(r); return nil }
func (c *captureSink) InsertTab() error                   { c.cur.WriteByte('\t'); return nil }
func (c *captureSink) InsertBreak(sink.Break) error       { return nil }
func (c *captureSink) InsertField(sink.Field) error       { return nil }
func (c *captureSink) InsertPicture(sink.Picture) error   { return nil }

func (c *captureSink) DrawShape(sink.Shape) error   { return nil }
func (c *captureSink) DrawPath(sink.Path) error     { return nil }
func (c *captureSink) DrawBitmap(sink.Bitmap) error { return nil }

func TestParseSplitsOnCR(t *testing.T) {
	doc := buildDoc("hello\rworld")
	ev := &captureSink{}
	if err := (&Format{}).Parse(doc, ev); err != nil {
		t.Fatal(err)
	}
	if len(ev.paragraphs) != 2 || ev.paragraphs[0] != "hello" || ev.paragraphs[1] != "world" {
		t.Fatalf("got %q", ev.paragraphs)
	}
}
