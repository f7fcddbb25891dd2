// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import (
	"bytes"
	"testing"
)

// TestDecodeVersionThenEndOfPicture is spec §8 scenario S2: a bare
// version opcode followed immediately by EndOfPicture still produces a
// well-formed zero-content page at the declared bounds.
func TestDecodeVersionThenEndOfPicture(t *testing.T) {
	raw := []byte{
		0x00, 0x0A, // size
		0x00, 0x00, 0x00, 0x00, 0x00, 0x64, 0x00, 0x64, // bbox 0,0,100,100
		0x11, 0x01, // Version, sub-version 1
		0xFF, // EndOfPicture
	}
	d, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !d.EndOfPicture {
		t.Fatal("expected EndOfPicture to be set")
	}
	if d.BBox.Bottom != 100 || d.BBox.Right != 100 {
		t.Fatalf("expected 100x100 bbox, got %+v", d.BBox)
	}
	if len(d.Ops) != 0 {
		t.Fatalf("expected no drawing ops, got %d", len(d.Ops))
	}
	if d.Version != 1 {
		t.Fatalf("expected version 1, got %d", d.Version)
	}
}

// TestUnpackLiteralAndRepeatRuns exercises both PackBits control-byte
// interpretations named in spec §4.5: a non-negative count selects a
// literal run, a negative count (other than -128) selects a repeat
// run of the single byte that follows.
func TestUnpackLiteralAndRepeatRuns(t *testing.T) {
	// FE = -2 -> repeat next byte (1-(-2))=3 times: AA AA AA
	// 02 = literal run of 3 bytes: 01 02 03
	src := []byte{0xFE, 0xAA, 0x02, 0x01, 0x02, 0x03}
	want := []byte{0xAA, 0xAA, 0xAA, 0x01, 0x02, 0x03}

	got, err := Unpack(src, len(want))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Unpack = % x, want % x", got, want)
	}
}

func TestUnpackNoOpControlByte(t *testing.T) {
	src := []byte{0x80, 0x01, 0x01, 0x02} // -128 no-op, then literal run of 2
	got, err := Unpack(src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02}) {
		t.Fatalf("Unpack = % x", got)
	}
}

func TestUnpackShortInputIsTruncatedInput(t *testing.T) {
	if _, err := Unpack([]byte{0x02, 0x01}, 4); err == nil {
		t.Fatal("expected truncated-input error")
	}
}

// TestFrameRectProducesShape exercises the data-driven opcode table
// with a real drawing opcode, end to end through Decode and Emit.
func TestFrameRectProducesShape(t *testing.T) {
	raw := []byte{
		0x00, 0x20,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x0A, // bbox
		0x30,                                           // FrameRect
		0x00, 0x01, 0x00, 0x02, 0x00, 0x08, 0x00, 0x09, // rect top,left,bottom,right
		0xFF,
	}
	d, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Ops) != 1 || d.Ops[0].Kind != OpShape {
		t.Fatalf("expected a single shape op, got %+v", d.Ops)
	}
	r := d.Ops[0].Shape.Bounds
	if r.Top != 1 || r.Left != 2 || r.Bottom != 8 || r.Right != 9 {
		t.Fatalf("unexpected rect %+v", r)
	}

	rec := &recordingSink{}
	if err := Emit(d, rec); err != nil {
		t.Fatal(err)
	}
	if rec.pages != 1 || rec.shapes != 1 {
		t.Fatalf("expected 1 page and 1 shape, got pages=%d shapes=%d", rec.pages, rec.shapes)
	}
}

// TestTranscodeDropsGlyphState is spec §4.5: opcode 0x2E is dropped by
// the transcoder rather than translated.
func TestTranscodeDropsGlyphState(t *testing.T) {
	raw := []byte{
		0x00, 0x10,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x0A,
		0x2E, 0x00, 0x01, // GlyphState, one short arg
		0xFF,
	}
	out, err := Transcode(raw)
	if err != nil {
		t.Fatal(err)
	}
	// The v2 stream must contain the v2 signature but no 0x002E opcode.
	if !bytes.Contains(out, v2Signature) {
		t.Fatal("expected v2 signature in transcoded output")
	}
	if bytes.Contains(out, []byte{0x00, 0x2E}) {
		t.Fatal("expected GlyphState opcode to be dropped")
	}
}

// TestTranscodeDropsLongCommentVariant is spec §4.5: opcode 0xA5, the
// non-standard long-comment variant, is dropped rather than
// translated, and must not make the transcoder fail with
// ErrUnknownOpcode along the way.
func TestTranscodeDropsLongCommentVariant(t *testing.T) {
	raw := []byte{
		0x00, 0x14,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x0A,
		0xA5, 0x00, 0x01, 0x00, 0x03, 'x', 'y', 'z', // LongComment????, kind + 3-byte body
		0xFF,
	}
	out, err := Transcode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, v2Signature) {
		t.Fatal("expected v2 signature in transcoded output")
	}
	if bytes.Contains(out, []byte{0x00, 0xA5}) {
		t.Fatal("expected LongComment???? opcode to be dropped")
	}
}
