// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import (
	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/stream"
)

// ErrBadBitmap classifies spec §7 InvalidStructure for a bitmap/pixmap
// whose row-size or dimensions are inconsistent with the data that
// follows.
var ErrBadBitmap = errors.New("pict: bitmap/pixmap structure inconsistent")

// greyscaleRamp is the foreground-ramp fallback spec §4.5/§9 document:
// an out-of-range colour-table index is filled from a grey ramp rather
// than treated as a hard error, to survive pathological files. This is
// a compatibility wart, not a design choice to emulate elsewhere.
func greyscaleRamp(index, tableSize int) (r, g, b uint8) {
	if tableSize <= 0 {
		tableSize = 1
	}
	v := uint8(255 - (index*255)/tableSize)
	return v, v, v
}

// readBitmap reads a (Packed)BitsRect/Region record: a row-bytes
// field, a bounds rect, a source rect, a destination rect, a transfer
// mode, then (region variant) a clipping region, then the packed or
// unpacked 1-bit-per-pixel rows (spec §4.5: PackBits applies whenever
// row_bytes >= 8).
func readBitmap(s *stream.Stream, hasRegion, forcePacked bool) (sink.Bitmap, error) {
	rowBytes, err := s.ReadU16()
	if err != nil {
		return sink.Bitmap{}, err
	}
	packed := forcePacked || rowBytes&0x8000 != 0 || rowBytes >= 8
	rowBytes &^= 0x8000

	bounds, err := readRect(s)
	if err != nil {
		return sink.Bitmap{}, err
	}
	if _, err := readRect(s); err != nil { // source rect
		return sink.Bitmap{}, err
	}
	if _, err := readRect(s); err != nil { // destination rect
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // transfer mode
		return sink.Bitmap{}, err
	}
	if hasRegion {
		if _, err := readRegion(s); err != nil {
			return sink.Bitmap{}, err
		}
	}

	width := int(bounds.Right - bounds.Left)
	height := int(bounds.Bottom - bounds.Top)
	if width < 0 || height < 0 || width > 1<<20 || height > 1<<20 {
		return sink.Bitmap{}, errors.Wrap(ErrBadBitmap, "unreasonable bitmap dimensions")
	}

	pixels := make([]byte, width*height*4)
	for row := 0; row < height; row++ {
		var rowData []byte
		var err error
		if packed {
			var n int
			if rowBytes <= 250 {
				b, e := s.ReadU8()
				err = e
				n = int(b)
			} else {
				u, e := s.ReadU16()
				err = e
				n = int(u)
			}
			if err != nil {
				return sink.Bitmap{}, err
			}
			raw, err := s.ReadBytes(n)
			if err != nil {
				return sink.Bitmap{}, err
			}
			rowData, err = Unpack(raw, int(rowBytes))
			if err != nil {
				return sink.Bitmap{}, err
			}
		} else {
			rowData, err = s.ReadBytes(int(rowBytes))
			if err != nil {
				return sink.Bitmap{}, err
			}
		}
		writeBilevelRow(pixels, row, width, rowData)
	}

	return sink.Bitmap{Width: width, Height: height, Pixels: pixels}, nil
}

// writeBilevelRow expands one row of 1-bit-per-pixel, MSB-first data
// (0 = white, 1 = black, QuickDraw's convention) into opaque RGBA.
func writeBilevelRow(pixels []byte, row, width int, rowData []byte) {
	for x := 0; x < width; x++ {
		byteIdx := x / 8
		if byteIdx >= len(rowData) {
			break
		}
		bit := (rowData[byteIdx] >> (7 - uint(x%8))) & 1
		v := byte(255)
		if bit == 1 {
			v = 0
		}
		off := (row*width + x) * 4
		pixels[off], pixels[off+1], pixels[off+2], pixels[off+3] = v, v, v, 255
	}
}

// readPixmap reads a DirectBits(Rect|Region) record: the pixmap
// header (row bytes with the high bit forced on, bounds, pixel type,
// pixel/component/plane sizing), a colour table when indexed, then
// src/dest rects, transfer mode, optional region, and the packed or
// raw pixel data.
func readPixmap(s *stream.Stream, hasRegion bool) (sink.Bitmap, error) {
	rowBytesField, err := s.ReadU16()
	if err != nil {
		return sink.Bitmap{}, err
	}
	packed := rowBytesField&0x8000 != 0
	rowBytes := int(rowBytesField &^ 0x8000)

	bounds, err := readRect(s)
	if err != nil {
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // pmVersion
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // packType
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // packSize
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // hRes
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // vRes
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // pixelType
		return sink.Bitmap{}, err
	}
	pixelSize, err := s.ReadU16()
	if err != nil {
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // cmpCount
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // cmpSize
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // planeBytes
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // pmTable handle
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU32(); err != nil { // pmReserved
		return sink.Bitmap{}, err
	}

	var colorTable [][3]uint8
	if pixelSize <= 8 {
		if _, err := s.ReadU32(); err != nil { // ctSeed
			return sink.Bitmap{}, err
		}
		if _, err := s.ReadU16(); err != nil { // ctFlags
			return sink.Bitmap{}, err
		}
		ctSize, err := s.ReadU16()
		if err != nil {
			return sink.Bitmap{}, err
		}
		colorTable = make([][3]uint8, int(ctSize)+1)
		for i := range colorTable {
			if _, err := s.ReadU16(); err != nil { // index
				return sink.Bitmap{}, err
			}
			r, err := s.ReadU16()
			if err != nil {
				return sink.Bitmap{}, err
			}
			g, err := s.ReadU16()
			if err != nil {
				return sink.Bitmap{}, err
			}
			b, err := s.ReadU16()
			if err != nil {
				return sink.Bitmap{}, err
			}
			colorTable[i] = [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		}
	}

	if _, err := readRect(s); err != nil { // source rect
		return sink.Bitmap{}, err
	}
	if _, err := readRect(s); err != nil { // destination rect
		return sink.Bitmap{}, err
	}
	if _, err := s.ReadU16(); err != nil { // transfer mode
		return sink.Bitmap{}, err
	}
	if hasRegion {
		if _, err := readRegion(s); err != nil {
			return sink.Bitmap{}, err
		}
	}

	width := int(bounds.Right - bounds.Left)
	height := int(bounds.Bottom - bounds.Top)
	if width < 0 || height < 0 || width > 1<<20 || height > 1<<20 {
		return sink.Bitmap{}, errors.Wrap(ErrBadBitmap, "unreasonable pixmap dimensions")
	}

	pixels := make([]byte, width*height*4)
	for row := 0; row < height; row++ {
		var rowData []byte
		var err error
		if packed && rowBytes >= 8 {
			var n int
			if rowBytes <= 250 {
				b, e := s.ReadU8()
				err = e
				n = int(b)
			} else {
				u, e := s.ReadU16()
				err = e
				n = int(u)
			}
			if err != nil {
				return sink.Bitmap{}, err
			}
			raw, err := s.ReadBytes(n)
			if err != nil {
				return sink.Bitmap{}, err
			}
			rowData, err = Unpack(raw, rowBytes)
			if err != nil {
				return sink.Bitmap{}, err
			}
		} else {
			rowData, err = s.ReadBytes(rowBytes)
			if err != nil {
				return sink.Bitmap{}, err
			}
		}
		writeIndexedRow(pixels, row, width, int(pixelSize), rowData, colorTable)
	}

	return sink.Bitmap{Width: width, Height: height, Pixels: pixels}, nil
}

// writeIndexedRow expands one packed-pixel row into RGBA, consulting
// colorTable for indexed pixel sizes and falling back to a greyscale
// ramp for any index colorTable doesn't cover (spec §4.5/§9's
// documented compatibility wart).
func writeIndexedRow(pixels []byte, row, width, pixelSize int, rowData []byte, colorTable [][3]uint8) {
	for x := 0; x < width; x++ {
		var r, g, b uint8
		switch pixelSize {
		case 1, 2, 4, 8:
			perByte := 8 / pixelSize
			byteIdx := x / perByte
			if byteIdx >= len(rowData) {
				return
			}
			shift := uint(8 - pixelSize*(x%perByte+1))
			mask := byte(1<<uint(pixelSize) - 1)
			index := int((rowData[byteIdx] >> shift) & mask)
			if index < len(colorTable) {
				c := colorTable[index]
				r, g, b = c[0], c[1], c[2]
			} else {
				r, g, b = greyscaleRamp(index, len(colorTable))
			}
		case 16:
			off := x * 2
			if off+1 >= len(rowData) {
				return
			}
			v := uint16(rowData[off])<<8 | uint16(rowData[off+1])
			r = uint8((v>>10)&0x1F) << 3
			g = uint8((v>>5)&0x1F) << 3
			b = uint8(v&0x1F) << 3
		case 32:
			off := x * 4
			if off+3 >= len(rowData) {
				return
			}
			r, g, b = rowData[off+1], rowData[off+2], rowData[off+3]
		}
		out := (row*width + x) * 4
		pixels[out], pixels[out+1], pixels[out+2], pixels[out+3] = r, g, b, 255
	}
}
