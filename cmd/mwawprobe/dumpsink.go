// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"fmt"
	"strings"

	"github.com/elliotnunn/mwawgo/internal/sink"
)

// dumpSink prints a plain-text walk of every event, indented by
// nesting depth, in the same direct fmt.Printf style the teacher's
// dumpFS walk uses rather than building a structured tree first.
type dumpSink struct {
	depth int
	text  strings.Builder
}

func (d *dumpSink) line(format string, args ...any) {
	fmt.Printf("    %s%s\n", strings.Repeat("  ", d.depth), fmt.Sprintf(format, args...))
}

func (d *dumpSink) flushText() {
	if d.text.Len() > 0 {
		d.line("text: %q", d.text.String())
		d.text.Reset()
	}
}

func (d *dumpSink) StartDocument() error { d.line("document"); d.depth++; return nil }
func (d *dumpSink) EndDocument() error   { d.flushText(); d.depth--; return nil }

func (d *dumpSink) StartPage() error { d.line("page"); d.depth++; return nil }
func (d *dumpSink) EndPage() error   { d.flushText(); d.depth--; return nil }

func (d *dumpSink) OpenSection(sink.Section) error { d.line("section"); d.depth++; return nil }
func (d *dumpSink) CloseSection() error            { d.flushText(); d.depth--; return nil }

func (d *dumpSink) OpenParagraph(sink.Paragraph) error { d.line("paragraph"); d.depth++; return nil }
func (d *dumpSink) CloseParagraph() error              { d.flushText(); d.depth--; return nil }

func (d *dumpSink) OpenSpan(sink.Span) error { d.depth++; return nil }
func (d *dumpSink) CloseSpan() error         { d.depth--; return nil }

func (d *dumpSink) OpenLink(target string) error { d.line("link %q", target); d.depth++; return nil }
func (d *dumpSink) CloseLink() error             { d.depth--; return nil }

func (d *dumpSink) OpenTable(sink.Table) error { d.line("table"); d.depth++; return nil }
func (d *dumpSink) CloseTable() error          { d.depth--; return nil }
func (d *dumpSink) OpenTableRow(sink.Row) error { d.depth++; return nil }
func (d *dumpSink) CloseTableRow() error        { d.depth--; return nil }
func (d *dumpSink) OpenTableCell(sink.Cell) error { d.depth++; return nil }
func (d *dumpSink) CloseTableCell() error         { d.depth--; return nil }

func (d *dumpSink) OpenListLevel(sink.Level) error { d.depth++; return nil }
func (d *dumpSink) CloseListLevel() error          { d.depth--; return nil }
func (d *dumpSink) OpenListElement() error         { d.line("* "); return nil }
func (d *dumpSink) CloseListElement() error        { return nil }

func (d *dumpSink) OpenGroup() error  { d.depth++; return nil }
func (d *dumpSink) CloseGroup() error { d.depth--; return nil }

func (d *dumpSink) InsertChar(r rune) error { d.text.WriteRune(r); return nil }
func (d *dumpSink) InsertTab() error        { d.text.WriteByte('\t'); return nil }
func (d *dumpSink) InsertBreak(sink.Break) error { d.flushText(); d.line("break"); return nil }
func (d *dumpSink) InsertField(f sink.Field) error { d.line("field %+v", f); return nil }
func (d *dumpSink) InsertPicture(p sink.Picture) error {
	d.line("picture %dx%d", p.Width, p.Height)
	return nil
}

func (d *dumpSink) DrawShape(s sink.Shape) error { d.line("shape %v %+v", s.Kind, s.Bounds); return nil }
func (d *dumpSink) DrawPath(sink.Path) error     { d.line("path"); return nil }
func (d *dumpSink) DrawBitmap(b sink.Bitmap) error {
	d.line("bitmap %dx%d", b.Width, b.Height)
	return nil
}
