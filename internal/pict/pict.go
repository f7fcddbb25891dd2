// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package pict implements C5, the QuickDraw PICT decoder: an
// opcode-driven interpreter for both PICT v1 (8-bit opcode ids) and
// PICT v2 (16-bit opcode ids, word-aligned arguments), plus a
// PICT1->PICT2 transcoder. Decoding is two-staged on purpose: Decode
// produces a self-contained Decoded value with no sink dependency (so
// the opcode table and argument decoders are unit-testable in
// isolation per spec §9's design note), and Emit separately drives a
// sink.Sink with the decoded drawing operations.
package pict

import (
	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/stream"
)

// ErrFormat classifies spec §7 FormatMismatch for a PICT stream this
// decoder cannot make sense of at all (not merely an unknown opcode
// inside an otherwise valid stream).
var ErrFormat = errors.New("pict: not a valid PICT stream")

// OpKind distinguishes the three drawing primitives a decoded PICT
// resolves to.
type OpKind int

const (
	OpShape OpKind = iota
	OpPath
	OpBitmap
)

// Op is one decoded drawing operation, in document order.
type Op struct {
	Kind   OpKind
	Shape  sink.Shape
	Path   sink.Path
	Bitmap sink.Bitmap
}

// Decoded is a fully-parsed PICT picture.
type Decoded struct {
	Size         uint16
	BBox         sink.Rect
	Version      int // 1 or 2
	Ops          []Op
	EndOfPicture bool
}

// Decode parses data as a PICT v1 or v2 stream (spec §4.5): a 2-byte
// size, a 4x i16 bounding rect, then opcodes until EndOfPicture or
// end of stream. Version is detected from the v2 header signature
// (`00 11 02 FF 0C 00 ...`); its absence means v1.
func Decode(data []byte) (*Decoded, error) {
	s := stream.New(bytesReaderAt(data), int64(len(data)))

	size, err := s.ReadU16()
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "pict: size field truncated")
	}
	bbox, err := readRect(s)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "pict: bounding rect truncated")
	}

	d := &Decoded{Size: size, BBox: bbox, Version: 1}

	isV2, err := peekV2Header(s)
	if err != nil {
		return nil, err
	}
	if isV2 {
		d.Version = 2
		// Consume the version-2 signature opcode (00 11) and its four
		// data bytes (02 FF 0C 00) before the regular opcode stream.
		if _, err := s.ReadU16(); err != nil {
			return nil, errors.Wrap(ErrFormat, "pict: truncated v2 signature")
		}
		if _, err := s.ReadBytes(4); err != nil {
			return nil, errors.Wrap(ErrFormat, "pict: truncated v2 signature")
		}
	}

	for {
		if s.AtEOF() {
			break
		}
		var id uint16
		if d.Version == 1 {
			b, err := s.ReadU8()
			if err != nil {
				return nil, errors.Wrap(ErrFormat, "pict: opcode id truncated")
			}
			id = uint16(b)
		} else {
			v, err := s.ReadU16()
			if err != nil {
				return nil, errors.Wrap(ErrFormat, "pict: opcode id truncated")
			}
			id = v
		}

		if id == 0xFF {
			d.EndOfPicture = true
			break
		}

		def, known := opcodeTable[id]
		op, err := decodeArgs(s, def, known)
		if err != nil {
			return nil, err
		}
		if op != nil {
			d.Ops = append(d.Ops, *op)
		}

		if d.Version == 2 && s.Tell()%2 != 0 {
			if _, err := s.ReadBytes(1); err != nil {
				break
			}
		}
	}

	return d, nil
}

// peekV2Header reports whether the bytes at the stream's current
// position spell the PICT v2 introducer `00 11 02 FF 0C 00`, without
// consuming them.
func peekV2Header(s *stream.Stream) (bool, error) {
	save := s.Tell()
	defer func() { _ = s.Seek(save, stream.SeekSet) }()

	hdr, err := s.ReadBytes(6)
	if err != nil {
		return false, nil // too short to be v2; treat as v1, not an error
	}
	return hdr[0] == 0x00 && hdr[1] == 0x11 && hdr[2] == 0x02 && hdr[3] == 0xFF &&
		hdr[4] == 0x0C && hdr[5] == 0x00, nil
}

// Emit drives sink with a decoded picture's drawing operations,
// bracketed by StartPage/EndPage so the picture occupies its own page
// in the surrounding document (spec §8 scenario S2: a bare version +
// EndOfPicture still yields a page-sized event).
func Emit(d *Decoded, s sink.Sink) error {
	if err := s.StartPage(); err != nil {
		return errors.Wrap(sink.ErrSinkRejected, "pict: StartPage")
	}
	for _, op := range d.Ops {
		var err error
		switch op.Kind {
		case OpShape:
			err = s.DrawShape(op.Shape)
		case OpPath:
			err = s.DrawPath(op.Path)
		case OpBitmap:
			err = s.DrawBitmap(op.Bitmap)
		}
		if err != nil {
			_ = s.EndPage()
			return errors.Wrap(sink.ErrSinkRejected, "pict: drawing op")
		}
	}
	if err := s.EndPage(); err != nil {
		return errors.Wrap(sink.ErrSinkRejected, "pict: EndPage")
	}
	return nil
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, errShortRead
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, errShortRead
	}
	return n, nil
}

var errShortRead = errors.New("pict: read past end of buffer")
