// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import (
	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/stream"
)

// ErrUnknownOpcode classifies spec §7 UnknownOpcode: the decoder has
// no table entry for an id and the surrounding opcode gave it no way
// to determine how many bytes to skip.
var ErrUnknownOpcode = errors.New("pict: unknown opcode, cannot determine argument length")

// decodeArgs consumes id's arguments per def and folds the result into
// at most one Op. Most opcodes (pen/text/color state) have no visible
// drawing effect in this engine's event model and are consumed purely
// to keep the cursor advancing correctly.
func decodeArgs(s *stream.Stream, def OpcodeDef, known bool) (*Op, error) {
	if !known {
		return nil, errors.Wrapf(ErrUnknownOpcode, "no table entry")
	}

	switch def.Name {
	case "FrameRect", "PaintRect", "EraseRect", "InvertRect", "FillRect":
		r, err := readRect(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpShape, Shape: sink.Shape{Kind: sink.ShapeRect, Bounds: r}}, nil

	case "FrameRRect", "PaintRRect", "EraseRRect", "InvertRRect", "FillRRect":
		r, err := readRect(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpShape, Shape: sink.Shape{Kind: sink.ShapeRoundRect, Bounds: r}}, nil

	case "FrameOval", "PaintOval", "EraseOval", "InvertOval", "FillOval":
		r, err := readRect(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpShape, Shape: sink.Shape{Kind: sink.ShapeOval, Bounds: r}}, nil

	case "FrameArc", "PaintArc", "EraseArc", "InvertArc", "FillArc":
		r, err := readRect(s)
		if err != nil {
			return nil, err
		}
		if _, err := s.ReadI16(); err != nil { // start angle
			return nil, err
		}
		if _, err := s.ReadI16(); err != nil { // arc angle
			return nil, err
		}
		return &Op{Kind: OpShape, Shape: sink.Shape{Kind: sink.ShapeOval, Bounds: r}}, nil

	case "FramePoly", "PaintPoly", "ErasePoly", "InvertPoly", "FillPoly":
		pts, err := readPolygon(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpPath, Path: sink.Path{Points: pts, Closed: true}}, nil

	case "FrameRegion", "PaintRegion", "EraseRegion", "InvertRegion", "FillRegion":
		r, err := readRegion(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpShape, Shape: sink.Shape{Kind: sink.ShapeRect, Bounds: r}}, nil

	case "Line":
		from, err := readPoint(s)
		if err != nil {
			return nil, err
		}
		to, err := readPoint(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpPath, Path: sink.Path{Points: []sink.Point{from, to}}}, nil

	case "LineFrom":
		to, err := readPoint(s)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpPath, Path: sink.Path{Points: []sink.Point{to}}}, nil

	case "ShortLine":
		from, err := readPoint(s)
		if err != nil {
			return nil, err
		}
		dh, err := s.ReadI8()
		if err != nil {
			return nil, err
		}
		dv, err := s.ReadI8()
		if err != nil {
			return nil, err
		}
		to := sink.Point{X: from.X + int32(dh), Y: from.Y + int32(dv)}
		return &Op{Kind: OpPath, Path: sink.Path{Points: []sink.Point{from, to}}}, nil

	case "ShortLineFrom":
		if _, err := s.ReadI8(); err != nil {
			return nil, err
		}
		if _, err := s.ReadI8(); err != nil {
			return nil, err
		}
		return nil, nil

	case "BitsRect", "BitsRegion":
		bm, err := readBitmap(s, def.Name == "BitsRegion", false)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpBitmap, Bitmap: bm}, nil

	case "PackBitsRect", "PackBitsRegion":
		bm, err := readBitmap(s, def.Name == "PackBitsRegion", true)
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpBitmap, Bitmap: bm}, nil

	case "DirectBitsRect", "DirectBitsRegion":
		bm, err := readPixmap(s, def.Name == "DirectBitsRegion")
		if err != nil {
			return nil, err
		}
		return &Op{Kind: OpBitmap, Bitmap: bm}, nil

	case "LongText":
		if _, err := readPoint(s); err != nil {
			return nil, err
		}
		if _, err := s.ReadPString(); err != nil {
			return nil, err
		}
		return nil, nil

	case "DHText", "DVText":
		if _, err := s.ReadU8(); err != nil {
			return nil, err
		}
		if _, err := s.ReadPString(); err != nil {
			return nil, err
		}
		return nil, nil

	case "DHDVText":
		if _, err := s.ReadU8(); err != nil {
			return nil, err
		}
		if _, err := s.ReadU8(); err != nil {
			return nil, err
		}
		if _, err := s.ReadPString(); err != nil {
			return nil, err
		}
		return nil, nil

	case "LongComment":
		if _, err := s.ReadU16(); err != nil { // comment kind
			return nil, err
		}
		n, err := s.ReadU16()
		if err != nil {
			return nil, err
		}
		if _, err := s.ReadBytes(int(n)); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, consumeGenericArgs(s, def.Args)
	}
}

// consumeGenericArgs handles every opcode whose arguments have no
// visible effect in this engine's event model (pen state, text state,
// colors, patterns, comments) — they still have to be skipped
// correctly so later opcodes land on the right byte.
func consumeGenericArgs(s *stream.Stream, args []ArgType) error {
	for _, a := range args {
		switch a {
		case ArgNone:
		case ArgByte, ArgUByte:
			if _, err := s.ReadU8(); err != nil {
				return err
			}
		case ArgShort, ArgUShort:
			if _, err := s.ReadU16(); err != nil {
				return err
			}
		case ArgFixed:
			if _, err := s.ReadFixed3232(); err != nil {
				return err
			}
		case ArgVersion:
			if _, err := s.ReadU8(); err != nil {
				return err
			}
		case ArgPoint:
			if _, err := readPoint(s); err != nil {
				return err
			}
		case ArgRect:
			if _, err := readRect(s); err != nil {
				return err
			}
		case ArgPattern, ArgColorPattern:
			if _, err := s.ReadBytes(8); err != nil {
				return err
			}
		case ArgColor:
			if _, err := s.ReadBytes(6); err != nil { // RGB triple, 2 bytes/component
				return err
			}
		case ArgRegion:
			if _, err := readRegion(s); err != nil {
				return err
			}
		case ArgPolygon:
			if _, err := readPolygon(s); err != nil {
				return err
			}
		case ArgPString:
			if _, err := s.ReadPString(); err != nil {
				return err
			}
		case ArgLongString:
			n, err := s.ReadU16()
			if err != nil {
				return err
			}
			if _, err := s.ReadBytes(int(n)); err != nil {
				return err
			}
		default:
			return errors.Wrapf(ErrUnknownOpcode, "no decoder for argument type %d", a)
		}
	}
	return nil
}

func readPoint(s *stream.Stream) (sink.Point, error) {
	y, err := s.ReadI16()
	if err != nil {
		return sink.Point{}, err
	}
	x, err := s.ReadI16()
	if err != nil {
		return sink.Point{}, err
	}
	return sink.Point{X: int32(x), Y: int32(y)}, nil
}

// readRect reads QuickDraw's canonical (top, left, bottom, right) i16
// quadruple.
func readRect(s *stream.Stream) (sink.Rect, error) {
	top, err := s.ReadI16()
	if err != nil {
		return sink.Rect{}, err
	}
	left, err := s.ReadI16()
	if err != nil {
		return sink.Rect{}, err
	}
	bottom, err := s.ReadI16()
	if err != nil {
		return sink.Rect{}, err
	}
	right, err := s.ReadI16()
	if err != nil {
		return sink.Rect{}, err
	}
	return sink.Rect{Left: int32(left), Top: int32(top), Right: int32(right), Bottom: int32(bottom)}, nil
}

// readRegion reads a size-prefixed region (spec §4.5): a u16 byte
// count including itself, a bounding rect, then a row-scan
// sentinel-terminated point list the decoder preserves only enough to
// seek past.
func readRegion(s *stream.Stream) (sink.Rect, error) {
	size, err := s.ReadU16()
	if err != nil {
		return sink.Rect{}, err
	}
	bbox, err := readRect(s)
	if err != nil {
		return sink.Rect{}, err
	}
	remaining := int(size) - 2 - 8
	if remaining > 0 {
		if _, err := s.ReadBytes(remaining); err != nil {
			return sink.Rect{}, err
		}
	}
	return bbox, nil
}

// readPolygon reads a size-prefixed point list: a u16 byte count
// including itself and the bounding rect, the bounding rect, then
// points until the declared size is exhausted.
func readPolygon(s *stream.Stream) ([]sink.Point, error) {
	size, err := s.ReadU16()
	if err != nil {
		return nil, err
	}
	if _, err := readRect(s); err != nil { // bounding box, not separately exposed
		return nil, err
	}
	remaining := int(size) - 2 - 8
	var pts []sink.Point
	for remaining >= 4 {
		p, err := readPoint(s)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
		remaining -= 4
	}
	if remaining > 0 {
		if _, err := s.ReadBytes(remaining); err != nil {
			return nil, err
		}
	}
	return pts, nil
}
