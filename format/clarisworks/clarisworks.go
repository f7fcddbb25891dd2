// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package clarisworks implements the C9 contract for ClarisWorks and
// AppleWorks text documents: a resource fork carrying the document's
// `STR `/`vers` producer strings and `styl`/font resources, plus a
// data fork organized as a flat list of tagged zones (spec §4.9's
// create_zones/zone-discovery phase, generalized here to a 4-byte tag
// plus 4-byte big-endian length record framing). Each zone is either a
// TEXT run (paragraphs separated by carriage return), a PICT zone
// decoded through internal/pict, or an unrecognized zone skipped over
// wholesale — the recoverable-error stance spec §7 describes for a
// corrupt zone ("emit what we have and skip to the next zone").
package clarisworks

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/audit"
	"github.com/elliotnunn/mwawgo/internal/cache"
	"github.com/elliotnunn/mwawgo/internal/docmodel"
	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/parser"
	"github.com/elliotnunn/mwawgo/internal/pict"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/textenc"
)

func init() {
	parser.Register(probe.TagClarisWorks, func() parser.Format { return &Format{} })
}

// ErrFormat classifies spec §7 FormatMismatch for a data fork whose
// zone list doesn't frame consistently.
var ErrFormat = errors.New("clarisworks: zone list is not well-formed")

const (
	zoneTag  = "TEXT"
	pictTag  = "PICT"
	headerTag = "CWKH"
)

// Format implements parser.Format for ClarisWorks/AppleWorks text
// documents. Audit, when set by the caller before Parse, receives the
// C10 trail of zone offsets and kinds; a nil Audit is a complete no-op.
type Format struct {
	Audit *audit.Log

	pictCache *cache.Blobs[*pict.Decoded]
}

// CheckHeader confirms the data fork opens with a CWKH header zone,
// without doing the work of walking every zone.
func (f *Format) CheckHeader(doc *facade.Document, strict bool) (bool, int) {
	head := make([]byte, 8)
	n, err := doc.DataFork.ReadAt(head, 0)
	if err != nil || n < 8 {
		return false, 0
	}
	if string(head[0:4]) != headerTag {
		return false, 0
	}
	version := int(binary.BigEndian.Uint32(head[4:8]))
	return true, version
}

type zone struct {
	tag     string
	begin   int64
	payload []byte
}

// readZones walks the flat zone list, framing each record as a 4-byte
// tag followed by a 4-byte big-endian payload length. A zone whose
// declared length runs past the data fork is dropped and the scan
// stops there, rather than failing the whole parse.
func readZones(doc *facade.Document) ([]zone, error) {
	length := doc.DataLength
	if length < 8 {
		return nil, errors.Wrap(ErrFormat, "data fork too short for a header zone")
	}

	var zones []zone
	var pos int64 = 8 // skip the CWKH header zone's own 8-byte tag+version
	for pos+8 <= length {
		var hdr [8]byte
		if _, err := doc.DataFork.ReadAt(hdr[:], pos); err != nil {
			break
		}
		tag := string(hdr[0:4])
		size := int64(binary.BigEndian.Uint32(hdr[4:8]))
		if size < 0 || pos+8+size > length {
			break
		}
		payload := make([]byte, size)
		if size > 0 {
			if _, err := doc.DataFork.ReadAt(payload, pos+8); err != nil {
				break
			}
		}
		zones = append(zones, zone{tag: tag, begin: pos, payload: payload})
		pos += 8 + size
	}
	return zones, nil
}

// Parse walks the zone list and drives ev. Each TEXT zone becomes a
// sequence of paragraphs; each PICT zone is decoded and its drawing
// ops re-emitted directly (Decode/Emit is shared with every other
// caller of internal/pict, not duplicated here).
func (f *Format) Parse(doc *facade.Document, ev sink.Sink) error {
	zones, err := readZones(doc)
	if err != nil {
		return err
	}

	fonts, nFonts := documentFontTable(doc)
	f.Audit.AddPos(0)
	f.Audit.AddNote("resolved %d font-name resource(s) for this document", nFonts)

	if err := ev.StartDocument(); err != nil {
		return sink.ErrSinkRejected
	}
	for i, z := range zones {
		switch z.tag {
		case zoneTag:
			f.Audit.AddBlob(z.begin, z.payload, "TEXT zone")
			if err := emitTextZone(ev, z.payload, fonts); err != nil {
				return err
			}
		case pictTag:
			f.Audit.AddBlob(z.begin, z.payload, "PICT zone")
			if err := f.emitPictZone(ev, z.payload, i); err != nil {
				return err
			}
		default:
			f.Audit.AddBlob(z.begin, z.payload, z.tag+" zone, not decoded by this dialect instance")
		}
	}
	return ev.EndDocument()
}

// documentFontTable builds a docmodel.FontTable from the document's
// 'STR ' resources (C3), the same lookup spec §4.3's style/font-name
// resources use, so the PICT-free text path genuinely exercises the
// resource fork rather than only the probe doing so.
func documentFontTable(doc *facade.Document) (*docmodel.FontTable, int) {
	table := docmodel.NewFontTable()
	m, err := doc.ResourceMap()
	if err != nil {
		return table, 0
	}
	resolved := 0
	for _, e := range m.Entries("STR ") {
		if name, ok := m.GetString(e.ID); ok {
			table.Add(int(e.ID), name)
			resolved++
		}
	}
	return table, resolved
}

func emitTextZone(ev sink.Sink, payload []byte, fonts *docmodel.FontTable) error {
	text, err := textenc.Decode(payload, textenc.MacRoman)
	if err != nil {
		return errors.Wrap(err, "clarisworks: decoding TEXT zone")
	}

	span := sink.Span{Font: docmodel.Font{Name: fonts.Resolve(1, "Geneva")}}
	if err := ev.OpenParagraph(sink.Paragraph{}); err != nil {
		return sink.ErrSinkRejected
	}
	if err := ev.OpenSpan(span); err != nil {
		return sink.ErrSinkRejected
	}
	for _, r := range text {
		if r == '\r' || r == '\n' {
			if err := ev.CloseSpan(); err != nil {
				return sink.ErrSinkRejected
			}
			if err := ev.CloseParagraph(); err != nil {
				return sink.ErrSinkRejected
			}
			if err := ev.OpenParagraph(sink.Paragraph{}); err != nil {
				return sink.ErrSinkRejected
			}
			if err := ev.OpenSpan(span); err != nil {
				return sink.ErrSinkRejected
			}
			continue
		}
		if err := ev.InsertChar(r); err != nil {
			return sink.ErrSinkRejected
		}
	}
	if err := ev.CloseSpan(); err != nil {
		return sink.ErrSinkRejected
	}
	return ev.CloseParagraph()
}

// emitPictZone decodes payload through internal/pict, admitting the
// result into f.pictCache keyed by a hash of the zone's payload so a
// picture repeated later in the same zone list (spec §2's "same
// graphic from two zones" case) is decoded once.
func (f *Format) emitPictZone(ev sink.Sink, payload []byte, zoneIndex int) error {
	if f.pictCache == nil {
		f.pictCache = cache.New[*pict.Decoded](64)
	}
	// The payload's content hash stands in for the document identity,
	// so identical PICT payloads share one cache entry.
	key := cache.Key{DocumentID: xxhash.Sum64(payload), FourCC: [4]byte{'P', 'I', 'C', 'T'}}

	d, ok := f.pictCache.Get(key)
	if !ok {
		var err error
		d, err = pict.Decode(payload)
		if err != nil {
			// A zone with a corrupt embedded picture is recoverable: skip
			// the graphic, keep the rest of the document.
			f.Audit.AddNote("PICT zone failed to decode, skipping: %v", err)
			return nil
		}
		f.pictCache.Add(key, d)
	}
	return pict.Emit(d, ev)
}
