// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import "github.com/elliotnunn/mwawgo/internal/sink"

// recordingSink is a minimal no-op sink.Sink that counts calls,
// enough to assert Emit drove the expected shape of events without
// pulling in the full Checked grammar enforcer.
type recordingSink struct {
	pages  int
	shapes int
}

func (r *recordingSink) StartDocument() error { return nil }
func (r *recordingSink) EndDocument() error   { return nil }

func (r *recordingSink) StartPage() error { r.pages++; return nil }
func (r *recordingSink) EndPage() error   { return nil }

func (r *recordingSink) OpenSection(sink.Section) error { return nil }
func (r *recordingSink) CloseSection() error            { return nil }

func (r *recordingSink) OpenParagraph(sink.Paragraph) error { return nil }
func (r *recordingSink) CloseParagraph() error              { return nil }

func (r *recordingSink) OpenSpan(sink.Span) error { return nil }
func (r *recordingSink) CloseSpan() error         { return nil }

func (r *recordingSink) OpenLink(string) error { return nil }
func (r *recordingSink) CloseLink() error      { return nil }

func (r *recordingSink) OpenTable(sink.Table) error { return nil }
func (r *recordingSink) CloseTable() error          { return nil }
func (r *recordingSink) OpenTableRow(sink.Row) error { return nil }
func (r *recordingSink) CloseTableRow() error        { return nil }
func (r *recordingSink) OpenTableCell(sink.Cell) error { return nil }
func (r *recordingSink) CloseTableCell() error         { return nil }

func (r *recordingSink) OpenListLevel(sink.Level) error { return nil }
func (r *recordingSink) CloseListLevel() error          { return nil }
func (r *recordingSink) OpenListElement() error         { return nil }
func (r *recordingSink) CloseListElement() error        { return nil }

func (r *recordingSink) OpenGroup() error  { return nil }
func (r *recordingSink) CloseGroup() error { return nil }

func (r *recordingSink) InsertChar(rune) error           { return nil }
func (r *recordingSink) InsertTab() error                { return nil }
func (r *recordingSink) InsertBreak(sink.Break) error    { return nil }
func (r *recordingSink) InsertField(sink.Field) error    { return nil }
func (r *recordingSink) InsertPicture(sink.Picture) error { return nil }

func (r *recordingSink) DrawShape(sink.Shape) error { r.shapes++; return nil }
func (r *recordingSink) DrawPath(sink.Path) error   { return nil }
func (r *recordingSink) DrawBitmap(sink.Bitmap) error { return nil }
