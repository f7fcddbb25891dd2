// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package docmodel

// BorderStyle enumerates the line styles spec §3 closes the set to.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDot
	BorderLargeDot
	BorderDash
	BorderDouble
)

// Border is structurally comparable (spec §3: "Equality is structural");
// a zero-value Border (BorderNone) serializes to nothing.
type Border struct {
	Style       BorderStyle
	WidthPoints float64
	Color       Color
}

// IsVisible reports whether the border should be serialized at all.
func (b Border) IsVisible() bool { return b.Style != BorderNone }

// Edges names the four sides a Paragraph or Section border set can
// independently configure.
type Edges struct {
	Top, Bottom, Left, Right Border
}
