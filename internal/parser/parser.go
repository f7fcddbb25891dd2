// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package parser implements C9: the per-format parser contract and a
// static registry of constructors keyed by the format tags probe
// (internal/probe) returns.
package parser

import (
	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/sink"
)

// ErrNoParser reports that probe identified a tag this build has no
// registered Format for.
var ErrNoParser = errors.New("parser: no registered format for tag")

// Format is the contract every document dialect package implements.
// CheckHeader lets the registry disambiguate when probe returns
// several candidate tags for the same document (spec §9's "header
// confirms before committing" design note); Parse drives a sink.Sink
// through the full document.
type Format interface {
	// CheckHeader inspects the already-open document's structure (its
	// resource fork, OLE streams, or data-fork header, whichever the
	// format uses) far enough to confirm or reject the tag without
	// doing the work of a full parse. version is format-specific and
	// meaningless when ok is false.
	CheckHeader(doc *facade.Document, strict bool) (ok bool, version int)

	// Parse runs the format's full decode, driving ev with C7 events.
	Parse(doc *facade.Document, ev sink.Sink) error
}

// constructor builds a fresh Format instance; formats are
// stateless across documents but constructing per-call avoids any
// accidental cross-document state leak.
type constructor func() Format

var registry = map[probe.Tag]constructor{}

// Register adds a format constructor under tag. Called from each
// format package's init, following the teacher's static
// table-of-constructors pattern.
func Register(tag probe.Tag, ctor func() Format) {
	registry[tag] = ctor
}

// Lookup returns a fresh Format for tag, or ErrNoParser if nothing is
// registered under it.
func Lookup(tag probe.Tag) (Format, error) {
	ctor, ok := registry[tag]
	if !ok {
		return nil, errors.Wrapf(ErrNoParser, "tag %q", string(tag))
	}
	return ctor(), nil
}

// ParseBest tries each candidate tag in result.Tags in turn, using
// CheckHeader to pick the first that confirms, then runs Parse against
// it. This is the shape spec §4.9 describes for resolving a probe
// that returned more than one tag.
func ParseBest(doc *facade.Document, result probe.Result, ev sink.Sink) error {
	var lastErr error
	for _, tag := range result.Tags {
		f, err := Lookup(tag)
		if err != nil {
			lastErr = err
			continue
		}
		if ok, _ := f.CheckHeader(doc, false); !ok {
			continue
		}
		return f.Parse(doc, ev)
	}
	if lastErr == nil {
		lastErr = errors.New("parser: no candidate tag confirmed its header")
	}
	return lastErr
}
