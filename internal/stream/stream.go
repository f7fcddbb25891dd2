// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package stream is the primitive byte/bit reader shared by every decoder
// in this module (C1 in the design notes): big-endian fixed-width
// integers, Pascal strings, and borrowed sub-streams over an io.ReaderAt.
//
// Every multi-byte read is big-endian, matching the on-disk byte order of
// every format this module decodes (resource forks, QuickDraw PICT,
// most per-format record layouts). The exceptions are OLE2 compound
// files and the Word documents they carry, which the ole2 and
// format/msword packages read with binary.LittleEndian directly.
package stream

import (
	"io"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrShortRead is wrapped into the error returned by any read that could
// not find every byte it asked for. It classifies as spec §7's
// TruncatedInput.
var ErrShortRead = errors.New("stream: short read")

// ErrOutOfRange classifies spec §7's InvalidStructure when it originates
// from a seek or sub-stream request outside the stream's bounds.
var ErrOutOfRange = errors.New("stream: seek out of range")

// Whence mirrors io.Seek{Start,Current,End} without importing the exact
// numeric values into call sites.
type Whence int

const (
	SeekSet Whence = iota
	SeekCur
	SeekEnd
)

// Stream is a random-access cursor over a byte range. Streams are not
// thread-safe: a second cursor into the same bytes is a second Stream,
// typically created with SubStream.
type Stream struct {
	r      io.ReaderAt
	base   int64 // offset of byte 0 of this stream within r
	length int64
	pos    int64
}

// New wraps r, treating it as a stream of the given length starting at
// r's offset 0.
func New(r io.ReaderAt, length int64) *Stream {
	return &Stream{r: r, length: length}
}

// Length returns the stream's total byte count.
func (s *Stream) Length() int64 { return s.length }

// Tell returns the current offset.
func (s *Stream) Tell() int64 { return s.pos }

// AtEOF reports whether the cursor has reached the end of the stream.
func (s *Stream) AtEOF() bool { return s.pos >= s.length }

// CheckPos reports whether p is a valid position to seek or read from
// (0 <= p <= Length()).
func (s *Stream) CheckPos(p int64) bool { return p >= 0 && p <= s.length }

// Seek moves the cursor. It fails (without moving the cursor) if the
// resulting position would be negative or beyond Length().
func (s *Stream) Seek(offset int64, whence Whence) error {
	var target int64
	switch whence {
	case SeekSet:
		target = offset
	case SeekCur:
		target = s.pos + offset
	case SeekEnd:
		target = s.length + offset
	default:
		return errors.Newf("stream: bad whence %d", whence)
	}
	if !s.CheckPos(target) {
		return errors.Wrapf(ErrOutOfRange, "seek to %d in stream of length %d", target, s.length)
	}
	s.pos = target
	return nil
}

// readFull reads exactly len(p) bytes at the cursor, advancing it by
// however many bytes were actually read, even on failure — this keeps
// Tell() accurate per the invariant in spec §8 property 2.
func (s *Stream) readFull(p []byte) error {
	if s.pos < 0 || s.pos > s.length {
		return errors.Wrapf(ErrOutOfRange, "read at %d in stream of length %d", s.pos, s.length)
	}
	avail := s.length - s.pos
	want := int64(len(p))
	n := want
	var short bool
	if avail < want {
		n = avail
		short = true
	}
	if n > 0 {
		got, err := s.r.ReadAt(p[:n], s.base+s.pos)
		s.pos += int64(got)
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrapf(err, "stream: read at %d", s.base+s.pos-int64(got))
		}
	}
	if short {
		return errors.Wrapf(ErrShortRead, "wanted %d bytes, only %d available", want, avail)
	}
	return nil
}

// ReadBytes returns a freshly allocated copy of the next n bytes.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Stream) ReadU8() (uint8, error) {
	var b [1]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Stream) ReadI8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

func (s *Stream) ReadU16() (uint16, error) {
	var b [2]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (s *Stream) ReadI16() (int16, error) {
	v, err := s.ReadU16()
	return int16(v), err
}

func (s *Stream) ReadU32() (uint32, error) {
	var b [4]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (s *Stream) ReadI32() (int32, error) {
	v, err := s.ReadU32()
	return int32(v), err
}

// ReadFixed3232 reads a 4-byte fixed-point number as a float64. Despite
// the name, the wire form is 16.16: a single big-endian i32 whose high
// 16 bits are the signed whole part and whose low 16 bits are the
// fraction, so the result is that i32 divided by 2^16.
func (s *Stream) ReadFixed3232() (float64, error) {
	whole, err := s.ReadI32()
	if err != nil {
		return 0, err
	}
	return float64(whole) / 65536.0, nil
}

// ReadPString reads a Pascal string: one length byte followed by that
// many bytes of (MacRoman-encoded) text.
func (s *Stream) ReadPString() ([]byte, error) {
	n, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	return s.ReadBytes(int(n))
}

// SubStream borrows the byte range [begin, end) of s as an independent
// cursor. It shares the backing reader but not the position; writes to
// the sub-stream's cursor never affect s's.
func (s *Stream) SubStream(begin, end int64) (*Stream, error) {
	if begin < 0 || end < begin || end > s.length {
		return nil, errors.Wrapf(ErrOutOfRange, "substream [%d,%d) of stream of length %d", begin, end, s.length)
	}
	return &Stream{r: s.r, base: s.base + begin, length: end - begin}, nil
}

// Reader returns an io.Reader reading forward from the current position
// to the end of the stream, for callers that want to hand the rest of a
// zone to a stdlib decompressor or similar.
func (s *Stream) Reader() io.Reader {
	return io.NewSectionReader(readerAtFrom(s), 0, math.MaxInt64)
}

// readerAtFrom adapts the remainder of s (from its current position) to
// an io.ReaderAt with its own offset space starting at 0.
func readerAtFrom(s *Stream) io.ReaderAt {
	return &offsetReaderAt{r: s.r, base: s.base + s.pos, limit: s.length - s.pos}
}

type offsetReaderAt struct {
	r     io.ReaderAt
	base  int64
	limit int64
}

func (o *offsetReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= o.limit {
		return 0, io.EOF
	}
	if max := o.limit - off; int64(len(p)) > max {
		p = p[:max]
		n, err := o.r.ReadAt(p, o.base+off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return o.r.ReadAt(p, o.base+off)
}
