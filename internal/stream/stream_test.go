// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package stream

import (
	"bytes"
	"io"
	"testing"
)

func TestPrimitives(t *testing.T) {
	data := []byte{0x01, 0xFF, 0x00, 0x64, 0x00, 0x01, 0x00, 0x00, 0x80, 0x00, 3, 'a', 'b', 'c'}
	s := New(bytes.NewReader(data), int64(len(data)))

	u8, err := s.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8 = %d, %v", u8, err)
	}
	i8, err := s.ReadI8()
	if err != nil || i8 != -1 {
		t.Fatalf("ReadI8 = %d, %v", i8, err)
	}
	u16, err := s.ReadU16()
	if err != nil || u16 != 100 {
		t.Fatalf("ReadU16 = %d, %v", u16, err)
	}
	i16, err := s.ReadI16()
	if err != nil || i16 != 1 {
		t.Fatalf("ReadI16 = %d, %v", i16, err)
	}
	fx, err := s.ReadFixed3232()
	if err != nil {
		t.Fatal(err)
	}
	if fx != 0.5 {
		t.Fatalf("ReadFixed3232 = %v, want 0.5", fx)
	}
	pstr, err := s.ReadPString()
	if err != nil || string(pstr) != "abc" {
		t.Fatalf("ReadPString = %q, %v", pstr, err)
	}
	if !s.AtEOF() {
		t.Fatalf("expected EOF at end of fixture")
	}
}

func TestTellAdvancesOnShortRead(t *testing.T) {
	data := []byte{1, 2, 3}
	s := New(bytes.NewReader(data), int64(len(data)))

	_, err := s.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Tell() != 2 {
		t.Fatalf("Tell() = %d, want 2", s.Tell())
	}

	_, err = s.ReadBytes(5)
	if err == nil {
		t.Fatal("expected short-read error")
	}
	if s.Tell() != 3 {
		t.Fatalf("after short read Tell() = %d, want 3 (EOF)", s.Tell())
	}
	if !s.AtEOF() {
		t.Fatal("expected AtEOF after short read ran to the end")
	}
}

func TestSeekOutOfRange(t *testing.T) {
	s := New(bytes.NewReader([]byte{1, 2, 3}), 3)
	if err := s.Seek(10, SeekSet); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if s.Tell() != 0 {
		t.Fatalf("failed seek must not move the cursor, got %d", s.Tell())
	}
	if err := s.Seek(-4, SeekEnd); err == nil {
		t.Fatal("expected out-of-range error for Seek -4 from end landing at -1")
	}
}

func TestSubStreamIsIndependent(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	parent := New(bytes.NewReader(data), int64(len(data)))
	parent.Seek(5, SeekSet)

	sub, err := parent.SubStream(2, 6)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sub.ReadBytes(4)
	if err != nil || !bytes.Equal(b, []byte{2, 3, 4, 5}) {
		t.Fatalf("SubStream bytes = %v, %v", b, err)
	}
	if parent.Tell() != 5 {
		t.Fatalf("parent cursor disturbed by substream read: %d", parent.Tell())
	}

	if _, err := parent.SubStream(8, 20); err == nil {
		t.Fatal("expected out-of-range substream error")
	}
}

func TestReaderExposesRemainder(t *testing.T) {
	data := []byte("hello world")
	s := New(bytes.NewReader(data), int64(len(data)))
	s.Seek(6, SeekSet)

	got, err := io.ReadAll(s.Reader())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "world" {
		t.Fatalf("Reader() = %q, want %q", got, "world")
	}
}
