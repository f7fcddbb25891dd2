// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package docmodel holds the portable document-model value types shared
// by every format parser (C6 in the design notes): fonts, paragraphs,
// sections, lists, tabs, borders, colours, and lengths. Every value here
// is immutable once built except the per-list counters in List, which a
// parser mutates as it walks a document's list runs.
package docmodel

import "github.com/cockroachdb/errors"

// Unit names the unit a Length was recorded in. Conversions follow spec
// §4.6: 1in = 72pt = 1440twip.
type Unit int

const (
	Point Unit = iota
	Inch
	Twip
	Percent
	Generic
)

// Length is an absolute measurement in one of the units above. Percent
// and Generic lengths are not convertible to the physical units; calling
// Points on one panics, matching the spec's stance that format parsers,
// not this package, are responsible for never mixing incompatible units.
type Length struct {
	Value float64
	Unit  Unit
}

// Points converts a physical-unit Length to points.
func (l Length) Points() float64 {
	switch l.Unit {
	case Point:
		return l.Value
	case Inch:
		return l.Value * 72
	case Twip:
		return l.Value / 20
	default:
		panic(errors.Newf("docmodel: Points() called on non-physical unit %v", l.Unit))
	}
}

// Twips converts a physical-unit Length to twips (1/1440in), the unit
// most per-format record layouts use natively.
func (l Length) Twips() float64 {
	switch l.Unit {
	case Point:
		return l.Value * 20
	case Inch:
		return l.Value * 1440
	case Twip:
		return l.Value
	default:
		panic(errors.Newf("docmodel: Twips() called on non-physical unit %v", l.Unit))
	}
}

func Pt(v float64) Length { return Length{Value: v, Unit: Point} }
func In(v float64) Length { return Length{Value: v, Unit: Inch} }
func Tw(v float64) Length { return Length{Value: v, Unit: Twip} }
func Pct(v float64) Length { return Length{Value: v, Unit: Percent} }

// Color is a 24-bit RGB value plus an "unset" state meaning "inherit
// from whatever sticky value is already in force" (spec §4.6).
type Color struct {
	R, G, B uint8
	set     bool
}

// RGB builds a set Color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, set: true} }

// Unset is the zero value and the explicit "inherit" constructor.
func Unset() Color { return Color{} }

// IsSet reports whether the color carries an explicit value.
func (c Color) IsSet() bool { return c.set }
