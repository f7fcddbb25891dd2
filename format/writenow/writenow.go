// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package writenow implements the C9 contract for WriteNow documents:
// pure data-fork magic-number sniff (no resource fork, no OLE2
// container), exercising that branch of C8 on its own. WriteNow stores
// a small fixed document header followed by a flat run of paragraphs
// separated by carriage returns; this instance decodes that much and
// nothing of the format's style runs or ruler records.
package writenow

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/audit"
	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/parser"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/textenc"
)

func init() {
	parser.Register(probe.TagWriteNow, func() parser.Format { return &Format{} })
}

// ErrFormat classifies spec §7 FormatMismatch for a data fork whose
// header doesn't carry the WriteNow document-length field this
// instance relies on.
var ErrFormat = errors.New("writenow: header not recognized")

const headerSize = 32

// Format implements parser.Format for WriteNow documents. Audit, when
// set by the caller before Parse, receives the C10 trail of header and
// body offsets; a nil Audit is a complete no-op.
type Format struct {
	Audit *audit.Log
}

// CheckHeader confirms the data fork is large enough to carry a
// WriteNow header and that its declared text length fits the file,
// the cheapest check that doesn't require decoding the body.
func (f *Format) CheckHeader(doc *facade.Document, strict bool) (bool, int) {
	if doc.DataLength < headerSize {
		return false, 0
	}
	head := make([]byte, headerSize)
	if _, err := doc.DataFork.ReadAt(head, 0); err != nil {
		return false, 0
	}
	textLen := int64(binary.BigEndian.Uint32(head[0:4]))
	if textLen < 0 || headerSize+textLen > doc.DataLength {
		return false, 0
	}
	return true, 0
}

// Parse reads the fixed header's text-length field, then decodes that
// many bytes of MacRoman text as a flat run of paragraphs.
func (f *Format) Parse(doc *facade.Document, ev sink.Sink) error {
	if doc.DataLength < headerSize {
		return errors.Wrap(ErrFormat, "data fork too short for header")
	}
	head := make([]byte, headerSize)
	if _, err := doc.DataFork.ReadAt(head, 0); err != nil {
		return errors.Wrap(err, "writenow: reading header")
	}
	textLen := int64(binary.BigEndian.Uint32(head[0:4]))
	if textLen < 0 || headerSize+textLen > doc.DataLength {
		return errors.Wrap(ErrFormat, "declared text length runs past end of file")
	}

	f.Audit.AddBlob(0, head, "32-byte header")

	raw := make([]byte, textLen)
	if textLen > 0 {
		if _, err := doc.DataFork.ReadAt(raw, headerSize); err != nil {
			return errors.Wrap(err, "writenow: reading text body")
		}
	}
	text, err := textenc.Decode(raw, textenc.MacRoman)
	if err != nil {
		return errors.Wrap(err, "writenow: decoding text body")
	}
	f.Audit.AddBlob(headerSize, raw, "text body, MacRoman")

	if err := ev.StartDocument(); err != nil {
		return sink.ErrSinkRejected
	}
	if err := ev.OpenParagraph(sink.Paragraph{}); err != nil {
		return sink.ErrSinkRejected
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
	if err := ev.CloseParagraph(); err != nil {
		return sink.ErrSinkRejected
	}
	return ev.EndDocument()
}
