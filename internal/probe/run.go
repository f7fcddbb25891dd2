// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package probe

import (
	"io"

	"github.com/elliotnunn/mwawgo/internal/facade"
)

// Run executes the full spec §4.8 cascade against an already-opened
// facade.Document: FinderInfo table, then 'vers' producer strings,
// then data-fork magic numbers, then (if the data fork turned out to
// be OLE2) a CLSID re-probe. It stops at the first step that yields a
// tag, as property 7 (determinism) requires: a given document always
// proposes the same tags, independent of probe order across runs.
func Run(doc *facade.Document) Result {
	if fi, ok := doc.FinderInfo(); ok {
		styl128 := false
		if m, err := doc.ResourceMap(); err == nil {
			styl128 = m.HasEntry("styl", 128)
		}
		if res := FromFinderInfo(fi.Creator, fi.Type, styl128); len(res.Tags) > 0 {
			return res
		}
	}

	if m, err := doc.ResourceMap(); err == nil {
		if res := FromResourceVersions(m); len(res.Tags) > 0 {
			return res
		}
	}

	head := make([]byte, 20)
	n, _ := doc.DataFork.ReadAt(head, 0)
	head = head[:n]

	var tail []byte
	if doc.DataLength >= 4 {
		tail = make([]byte, 4)
		tn, err := doc.DataFork.ReadAt(tail, doc.DataLength-4)
		if err != nil && err != io.EOF {
			tail = nil
		} else {
			tail = tail[:tn]
		}
	}

	if res := FromDataFork(head, tail); len(res.Tags) > 0 {
		if ole, ok := doc.OLE(); ok {
			return FromOLE(ole)
		}
		return res
	}

	return Result{}
}
