// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package sink

import "github.com/elliotnunn/mwawgo/internal/docmodel"

// Each Open* call captures the sticky properties in force at that point
// (spec §4.6: "each Open* captures the current sticky set into the
// event's property list"), so these types carry a full snapshot rather
// than a delta.

type Section struct {
	Props docmodel.Section
}

type Paragraph struct {
	Props docmodel.Paragraph
}

type Span struct {
	Font docmodel.Font
}

type Table struct {
	Columns []docmodel.Length
}

type Row struct {
	Height docmodel.Length
}

type Cell struct {
	ColSpan, RowSpan int
	Borders          docmodel.Edges
	Background       docmodel.Color
}

type Level struct {
	List  *docmodel.List
	Level int
}

// Picture references an already-decoded raster image by content, in the
// PICT decoder's (C5) RGBA output form.
type Picture struct {
	Width, Height int
	Pixels        []byte // RGBA, row-major, Width*Height*4 bytes
}

// Shape/Path/Bitmap are the vector and raster primitives a PICT opcode
// (C5) resolves to; a format parser calling these directly (rather than
// InsertPicture) is drawing a shape described by the format's own
// records, not one decoded from an embedded PICT blob.
type Shape struct {
	Kind    ShapeKind
	Bounds  Rect
	Fill    docmodel.Color
	Stroke  docmodel.Border
}

type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeRoundRect
	ShapeOval
	ShapeLine
	ShapePolygon
)

type Rect struct{ Left, Top, Right, Bottom int32 }

type Path struct {
	Points []Point
	Closed bool
	Fill   docmodel.Color
	Stroke docmodel.Border
}

type Point struct{ X, Y int32 }

type Bitmap struct {
	Width, Height int
	Pixels        []byte // RGBA
}
