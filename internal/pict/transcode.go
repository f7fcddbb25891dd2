// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/stream"
)

// v2Signature is the fixed byte sequence a PICT2 stream opens with
// after its size and bounding rect (spec §4.5): version-2 introducer
// opcode 00 11, sub-opcode 02, then the four fixed bytes FF 0C 00 FF,
// FF FF FF, and a trailing 00 00.
var v2Signature = []byte{0x00, 0x11, 0x02, 0xFF, 0x0C, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00}

// Transcode rewrites a PICT1 stream (8-bit opcode ids) into PICT2 form
// (16-bit opcode ids, even-aligned arguments), for callers whose
// downstream renderer only understands PICT2. Opcodes `0x2E`
// (GlyphState) and `0xA5` (the long-comment variant) are dropped
// rather than translated, per spec §4.5.
func Transcode(data []byte) ([]byte, error) {
	s := stream.New(bytesReaderAt(data), int64(len(data)))

	size, err := s.ReadU16()
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "pict: size field truncated")
	}
	bbox, err := readRect(s)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "pict: bounding rect truncated")
	}

	var out bytes.Buffer
	writeU16(&out, size)
	writeRect(&out, bbox)
	out.Write(v2Signature)

	for {
		if s.AtEOF() {
			break
		}
		idByte, err := s.ReadU8()
		if err != nil {
			return nil, errors.Wrap(ErrFormat, "pict: opcode id truncated")
		}
		id := uint16(idByte)

		if id == 0xFF {
			writeU16(&out, 0xFF)
			out.WriteByte(0)
			out.WriteByte(0)
			break
		}

		def, known := opcodeTable[id]
		start := s.Tell()
		if _, err := decodeArgs(s, def, known); err != nil {
			return nil, err
		}
		end := s.Tell()

		if droppedByTranscoder[id] {
			continue
		}

		raw, err := rereadRange(data, start, end)
		if err != nil {
			return nil, err
		}

		writeU16(&out, id)
		out.Write(raw)
		if len(raw)%2 != 0 {
			out.WriteByte(0)
		}
	}

	if out.Len()%2 != 0 {
		out.WriteByte(0)
	}
	return out.Bytes(), nil
}

func rereadRange(data []byte, start, end int64) ([]byte, error) {
	if start < 0 || end < start || end > int64(len(data)) {
		return nil, errors.Wrap(ErrFormat, "pict: opcode argument range out of bounds")
	}
	return data[start:end], nil
}

func writeU16(b *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.Write(tmp[:])
}

func writeRect(b *bytes.Buffer, r sink.Rect) {
	writeU16(b, uint16(int16(r.Top)))
	writeU16(b, uint16(int16(r.Left)))
	writeU16(b, uint16(int16(r.Bottom)))
	writeU16(b, uint16(int16(r.Right)))
}
