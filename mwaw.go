// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package mwaw decodes legacy Macintosh word-processing and drawing
// documents (ClarisWorks/AppleWorks, Microsoft Word 6/8 binary .doc,
// WriteNow, and others the probe recognizes without a registered
// decoder) and emits a stream of portable document-model events to a
// caller-supplied sink.Sink. It ties together the input facade (C4),
// the format probe (C8), and the per-format parser registry (C9):
// everything a caller needs is Probe and Parse.
package mwaw

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/parser"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/sink"
	"github.com/elliotnunn/mwawgo/internal/xattr"

	_ "github.com/elliotnunn/mwawgo/format/clarisworks"
	_ "github.com/elliotnunn/mwawgo/format/msword"
	_ "github.com/elliotnunn/mwawgo/format/writenow"
)

// ErrNotRecognized means the probe proposed no format tag at all for
// the document (distinct from parser.ErrNoParser, which means a tag
// was recognized but no C9 decoder is registered for it).
var ErrNotRecognized = errors.New("mwaw: document format not recognized")

// Tag re-exports probe.Tag so callers of this package's Probe don't
// need to import internal/probe directly.
type Tag = probe.Tag

// dirFS adapts an OS directory to facade.FileSystem, resolving name
// relative to dir.
type dirFS struct{ dir string }

func (d dirFS) Open(name string) (io.ReaderAt, int64, error) {
	f, err := os.Open(filepath.Join(d.dir, name))
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// openDocument resolves a facade.Document for an OS file path, trying
// xattr.Default for the platform's extended-attribute fork discovery.
func openDocument(path string) (*facade.Document, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return facade.Open(dirFS{dir}, base, xattr.Default)
}

// Probe runs C8's full cascade against the file at path and returns
// the candidate format tags, without decoding the document.
func Probe(path string) (probe.Result, error) {
	doc, err := openDocument(path)
	if err != nil {
		return probe.Result{}, err
	}
	result := probe.Run(doc)
	if len(result.Tags) == 0 {
		return result, ErrNotRecognized
	}
	return result, nil
}

// Parse probes the file at path, then runs the best-matching
// registered C9 parser, driving ev with the document's events.
func Parse(path string, ev sink.Sink) error {
	doc, err := openDocument(path)
	if err != nil {
		return err
	}
	result := probe.Run(doc)
	if len(result.Tags) == 0 {
		return ErrNotRecognized
	}
	return parser.ParseBest(doc, result, ev)
}
