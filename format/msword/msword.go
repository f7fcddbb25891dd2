// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package msword implements the C9 contract for Microsoft Word 6/8
// binary ".doc" documents: an OLE2 compound file (internal/ole2)
// carrying a WordDocument stream (the FIB plus the piece table) and a
// Table stream (the 0Table or 1Table named by the FIB's fWhichTblStm
// flag). Grounded on the TalentFormula msdoc example pack's fib/pcd/plc
// structures, adapted to drive a sink.Sink instead of a standalone
// reader API.
package msword

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/audit"
	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/parser"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/sink"
)

func init() {
	parser.Register(probe.TagMicrosoftWord, func() parser.Format { return &Format{} })
	parser.Register(probe.TagWord6, func() parser.Format { return &Format{} })
	parser.Register(probe.TagWord8, func() parser.Format { return &Format{} })
}

// ErrFormat classifies spec §7 FormatMismatch for a WordDocument
// stream whose FIB signature or structure doesn't check out.
var ErrFormat = errors.New("msword: not a recognized Word binary document")

// wIdentWord is the FIB's fixed magic number (0xA5EC, little-endian on
// the wire) that every Word 6/7/8/97 binary document opens with.
const wIdentWord = 0xA5EC

// Format implements parser.Format for binary .doc documents. Audit,
// when set by the caller before Parse, receives the C10 trail of
// stream offsets; a nil Audit is a complete no-op.
type Format struct {
	fib   *fib
	Audit *audit.Log
}

// fib is the subset of the File Information Block this parser reads:
// enough to locate the piece table and the main document text range.
type fib struct {
	nFib        uint16
	fWhichTblStm bool // true: 1Table stream; false: 0Table stream
	ccpText     uint32
	fcClx       uint32
	lcbClx      uint32
}

func parseFIB(data []byte) (*fib, error) {
	if len(data) < 32 {
		return nil, errors.Wrap(ErrFormat, "WordDocument stream too short for FibBase")
	}
	wIdent := binary.LittleEndian.Uint16(data[0:2])
	if wIdent != wIdentWord {
		return nil, errors.Wrap(ErrFormat, "bad FIB wIdent")
	}
	nFib := binary.LittleEndian.Uint16(data[2:4])
	flags1 := binary.LittleEndian.Uint16(data[10:12])
	fWhichTblStm := flags1&0x0200 != 0

	const (
		fibBaseSize = 32
		cswSize     = 2
		fibRgWSize  = 28
		cslwSize    = 2
		fibRgLwSize = 88
	)
	lwOffset := fibBaseSize + cswSize + fibRgWSize + cslwSize
	if len(data) < lwOffset+fibRgLwSize+2 {
		return nil, errors.Wrap(ErrFormat, "FIB too short for FibRgLw97")
	}
	ccpText := binary.LittleEndian.Uint32(data[lwOffset+4 : lwOffset+8])

	cbRgFcLcbOffset := lwOffset + fibRgLwSize
	cbRgFcLcb := binary.LittleEndian.Uint16(data[cbRgFcLcbOffset : cbRgFcLcbOffset+2])
	blobOffset := cbRgFcLcbOffset + 2
	blobSize := int(cbRgFcLcb) * 8
	if len(data) < blobOffset+blobSize {
		return nil, errors.Wrap(ErrFormat, "FIB too short for RgFcLcb97")
	}
	blob := data[blobOffset : blobOffset+blobSize]

	const fcClxOffset = 0x108 // within RgFcLcb97, Word 97's nFib 0xC1 layout
	var fcClx, lcbClx uint32
	if len(blob) >= fcClxOffset+8 {
		fcClx = binary.LittleEndian.Uint32(blob[fcClxOffset:])
		lcbClx = binary.LittleEndian.Uint32(blob[fcClxOffset+4:])
	}

	return &fib{
		nFib:         nFib,
		fWhichTblStm: fWhichTblStm,
		ccpText:      ccpText,
		fcClx:        fcClx,
		lcbClx:       lcbClx,
	}, nil
}

// CheckHeader reads just enough of the WordDocument stream to confirm
// the FIB signature.
func (f *Format) CheckHeader(doc *facade.Document, strict bool) (bool, int) {
	ole, ok := doc.OLE()
	if !ok {
		return false, 0
	}
	raw, err := ole.Open("WordDocument")
	if err != nil {
		return false, 0
	}
	fb, err := parseFIB(raw)
	if err != nil {
		return false, 0
	}
	f.fib = fb
	return true, int(fb.nFib)
}

// Parse assembles the document's text from the piece table (PLC/PCD)
// in the Table stream and drives a single flat paragraph sequence into
// ev. Character and paragraph formatting runs (CHPX/PAPX, FKP-indexed)
// are out of scope for this dialect instance; text assembly from the
// piece table is the shared mechanism every richer feature builds on.
func (f *Format) Parse(doc *facade.Document, ev sink.Sink) error {
	ole, ok := doc.OLE()
	if !ok {
		return errors.Wrap(ErrFormat, "document is not an OLE2 container")
	}

	wordDoc, err := ole.Open("WordDocument")
	if err != nil {
		return errors.Wrap(err, "msword: opening WordDocument stream")
	}

	fb := f.fib
	if fb == nil {
		fb, err = parseFIB(wordDoc)
		if err != nil {
			return err
		}
	}

	tableName := "0Table"
	if fb.fWhichTblStm {
		tableName = "1Table"
	}
	table, err := ole.Open(tableName)
	if err != nil {
		return errors.Wrapf(err, "msword: opening %s stream", tableName)
	}

	if fb.lcbClx == 0 || int(fb.fcClx)+int(fb.lcbClx) > len(table) {
		return errors.Wrap(ErrFormat, "clx range out of bounds in table stream")
	}
	clx := table[fb.fcClx : fb.fcClx+fb.lcbClx]
	f.Audit.AddBlob(int64(fb.fcClx), clx, "Clx, inside "+tableName)

	plcPCD, err := findPlcPcd(clx)
	if err != nil {
		return err
	}
	pieces, err := parsePlcPcd(plcPCD)
	if err != nil {
		return err
	}
	f.Audit.AddNote("PlcPcd decoded into %d piece(s)", len(pieces))

	if err := ev.StartDocument(); err != nil {
		return sink.ErrSinkRejected
	}
	if err := ev.OpenParagraph(sink.Paragraph{}); err != nil {
		return sink.ErrSinkRejected
	}
	for _, p := range pieces {
		text, err := readPieceText(wordDoc, p)
		if err != nil {
			return err
		}
		for _, r := range text {
			if r == '\r' {
				if err := ev.CloseParagraph(); err != nil {
					return sink.ErrSinkRejected
				}
				if err := ev.OpenParagraph(sink.Paragraph{}); err != nil {
					return sink.ErrSinkRejected
				}
				continue
			}
			if err := ev.InsertChar(r); err != nil {
				return sink.ErrSinkRejected
			}
		}
	}
	if err := ev.CloseParagraph(); err != nil {
		return sink.ErrSinkRejected
	}
	return ev.EndDocument()
}

// pieceDescriptor is a decoded 8-byte PCD: whether the piece's text is
// stored as UTF-16 or CP1252/MacRoman bytes, and where it starts in
// the WordDocument stream.
type pieceDescriptor struct {
	startCP   uint32
	endCP     uint32
	fc        uint32
	isUnicode bool
}

// findPlcPcd locates the piece-table sub-structure within the Clx
// (the complex-format table): a sequence of grpprl blocks followed by
// a 0x0002-tagged Pcdt block whose payload is the PlcPcd.
func findPlcPcd(clx []byte) ([]byte, error) {
	i := 0
	for i < len(clx) {
		switch clx[i] {
		case 1: // Prc: a property modifier block, skip it
			if i+3 > len(clx) {
				return nil, errors.Wrap(ErrFormat, "truncated Prc in Clx")
			}
			size := int(binary.LittleEndian.Uint16(clx[i+1 : i+3]))
			i += 3 + size
		case 2: // Pcdt
			if i+5 > len(clx) {
				return nil, errors.Wrap(ErrFormat, "truncated Pcdt in Clx")
			}
			size := int(binary.LittleEndian.Uint32(clx[i+1 : i+5]))
			start := i + 5
			if start+size > len(clx) {
				return nil, errors.Wrap(ErrFormat, "Pcdt payload out of bounds")
			}
			return clx[start : start+size], nil
		default:
			return nil, errors.Wrap(ErrFormat, "unrecognized Clx block tag")
		}
	}
	return nil, errors.Wrap(ErrFormat, "no Pcdt block found in Clx")
}

// parsePlcPcd decodes a PlcPcd: (n+1) 4-byte CPs followed by n 8-byte
// PCDs.
func parsePlcPcd(data []byte) ([]pieceDescriptor, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(ErrFormat, "PlcPcd too short")
	}
	n := (len(data) - 4) / 12
	if n <= 0 || 4+n*12 != len(data) {
		return nil, errors.Wrap(ErrFormat, "PlcPcd size inconsistent with 4+12n")
	}

	cps := make([]uint32, n+1)
	for i := range cps {
		cps[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}

	pieces := make([]pieceDescriptor, n)
	pcdStart := (n + 1) * 4
	for i := 0; i < n; i++ {
		rec := data[pcdStart+i*8 : pcdStart+i*8+8]
		fcRaw := binary.LittleEndian.Uint32(rec[2:6])
		fCompressed := fcRaw&0x40000000 != 0 // set: single-byte ANSI text; clear: UTF-16
		fc := fcRaw &^ 0x40000000
		if fCompressed {
			fc /= 2
		}
		pieces[i] = pieceDescriptor{
			startCP:   cps[i],
			endCP:     cps[i+1],
			fc:        fc,
			isUnicode: !fCompressed,
		}
	}
	return pieces, nil
}

// readPieceText reads and decodes one piece's text run from the
// WordDocument stream, starting at p.fc as a byte offset: two bytes
// per character for Unicode pieces, one for ANSI pieces (whose fc
// parsePlcPcd has already divided by two).
func readPieceText(wordDoc []byte, p pieceDescriptor) (string, error) {
	count := int(p.endCP - p.startCP)
	if count < 0 {
		return "", errors.Wrap(ErrFormat, "piece has negative length")
	}
	if p.isUnicode {
		start := int(p.fc)
		end := start + count*2
		if end > len(wordDoc) {
			return "", errors.Wrap(ErrFormat, "unicode piece runs past end of WordDocument stream")
		}
		runes := make([]rune, count)
		for i := 0; i < count; i++ {
			runes[i] = rune(binary.LittleEndian.Uint16(wordDoc[start+i*2:]))
		}
		return string(runes), nil
	}

	start := int(p.fc)
	end := start + count
	if end > len(wordDoc) {
		return "", errors.Wrap(ErrFormat, "ansi piece runs past end of WordDocument stream")
	}
	runes := make([]rune, count)
	for i, b := range wordDoc[start:end] {
		runes[i] = rune(b) // CP1252/MacRoman byte as its Unicode code point: good enough for ASCII text
	}
	return string(runes), nil
}
