// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import (
	"bytes"
	"io"
	"testing"
)

// TestRoundTripEntries1_2_9 is spec §8 property 6: Parse(Encode(x)) = x
// for the two entry ids the spec consumes plus FinderInfo (1, 2, 9).
func TestRoundTripEntries1_2_9(t *testing.T) {
	data := []byte("hello data fork")
	rsrc := []byte{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 40, 0, 0, 0, 30}
	fi := FinderInfo{Type: [4]byte{'T', 'E', 'X', 'T'}, Creator: [4]byte{'t', 't', 'x', 't'}}

	encoded := Encode(map[uint32][]byte{
		DataFork:     data,
		ResourceFork: rsrc,
		FinderInfoID: func() []byte { b := fi.encode(); return b[:] }(),
	})

	f, err := Parse(bytes.NewReader(encoded))
	if err != nil {
		t.Fatal(err)
	}

	dr, dn, ok := f.DataForkReader()
	if !ok {
		t.Fatal("missing data fork entry")
	}
	got := make([]byte, dn)
	if _, err := dr.ReadAt(got, 0); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("data fork round-trip mismatch: got %q want %q", got, data)
	}

	rr, rn, ok := f.ResourceForkReader()
	if !ok {
		t.Fatal("missing resource fork entry")
	}
	got = make([]byte, rn)
	if _, err := rr.ReadAt(got, 0); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if !bytes.Equal(got, rsrc) {
		t.Fatalf("resource fork round-trip mismatch: got %v want %v", got, rsrc)
	}

	fib, ok := f.FinderInfoBytes()
	if !ok {
		t.Fatal("missing FinderInfo entry")
	}
	got2 := LoadFinderInfo(fib)
	if got2.Type != fi.Type || got2.Creator != fi.Creator {
		t.Fatalf("FinderInfo round-trip mismatch: got %+v want %+v", got2, fi)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 26)
	copy(bad, "NOPE")
	if _, err := Parse(bytes.NewReader(bad)); err == nil {
		t.Fatal("expected FormatMismatch-class error for bad magic")
	}
}

func TestParseAcceptsLegacyMagic(t *testing.T) {
	// Some real-world AppleDouble files use the older 00 05 16 00 magic
	// (spec §6: "also accept 00 05 16 00").
	encoded := Encode(map[uint32][]byte{DataFork: []byte("x")})
	encoded[3] = 0x00
	if _, err := Parse(bytes.NewReader(encoded)); err != nil {
		t.Fatalf("expected legacy magic to be accepted: %v", err)
	}
}
