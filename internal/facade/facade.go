// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package facade implements C4, the Input facade: a single view over a
// legacy Mac document regardless of how its two forks survived being
// copied off a Macintosh. Spec §4.4 names the discovery cascade this
// package follows, in order, stopping at the first that yields a
// resource fork:
//
//  1. a platform extended attribute (com.apple.ResourceFork / .FinderInfo)
//  2. a sibling AppleDouble file (._NAME, or __MACOSX/._NAME inside an archive)
//  3. a legacy "FINDER.DAT"-style resource-fork-only sidecar
//  4. none: the document has a data fork only
//
// If the data fork itself turns out to be an OLE2 compound file
// (Microsoft's container for Word/Excel/PowerPoint documents), its
// named streams are exposed as an additional, orthogonal way to reach
// sub-parts of the document; C4 does not choose between "resource
// fork" and "OLE2 streams" for a given document, since no real format
// uses both at once.
package facade

import (
	"io"
	"path"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/mwawgo/internal/appledouble"
	"github.com/elliotnunn/mwawgo/internal/ole2"
	"github.com/elliotnunn/mwawgo/internal/resourcefork"
	"github.com/elliotnunn/mwawgo/internal/sectionreader"
	"github.com/elliotnunn/mwawgo/internal/xattr"
)

// ErrResourceForkMissing is returned by ResourceMap when no discovery
// strategy produced a resource fork, classifying spec §7's
// ResourceMissing.
var ErrResourceForkMissing = errors.New("facade: no resource fork found by any discovery strategy")

// FileSystem is the minimal filesystem capability the facade needs to
// locate AppleDouble siblings: opening a file for reading and
// reporting its size. A caller driving the facade over an archive
// member or an in-memory blob can implement this without touching the
// real filesystem.
type FileSystem interface {
	Open(name string) (io.ReaderAt, int64, error)
}

// Document is the resolved pair of forks for one logical document,
// plus whichever optional extras were discovered along the way.
type Document struct {
	DataFork     io.ReaderAt
	DataLength   int64
	resourceMap  *resourcefork.Map
	finderInfo   appledouble.FinderInfo
	hasFinderInfo bool
	ole          *ole2.Reader
}

// Open resolves a Document for the file at name within fsys, trying
// each discovery strategy in spec §4.4's order. A data-fork-only
// document (no resource fork found by any strategy) is not an error:
// callers ask ResourceMap only when they need one.
func Open(fsys FileSystem, name string, xr xattr.Reader) (*Document, error) {
	data, dataLen, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "facade: opening data fork of %q", name)
	}
	doc := &Document{DataFork: data, DataLength: dataLen}

	if xr != nil {
		if rsrc, err := xr.Get(name, xattr.ResourceForkAttr); err == nil && len(rsrc) > 0 {
			if m, err := resourcefork.Open(bytesReaderAt(rsrc), int64(len(rsrc))); err == nil {
				doc.resourceMap = m
			}
		}
		if fi, err := xr.Get(name, xattr.FinderInfoAttr); err == nil && len(fi) >= 32 {
			var buf [32]byte
			copy(buf[:], fi)
			doc.finderInfo = appledouble.LoadFinderInfo(buf)
			doc.hasFinderInfo = true
		}
	}

	if doc.resourceMap == nil {
		if ad, ok := openAppleDoubleSibling(fsys, name); ok {
			if r, n, ok := ad.ResourceForkReader(); ok {
				if m, err := resourcefork.Open(r, n); err == nil {
					doc.resourceMap = m
				}
			}
			if fi, ok := ad.FinderInfoBytes(); ok {
				doc.finderInfo = appledouble.LoadFinderInfo(fi)
				doc.hasFinderInfo = true
			}
		}
	}

	if doc.resourceMap == nil {
		if r, n, err := fsys.Open(path.Join(path.Dir(name), "FINDER.DAT")); err == nil {
			if m, err := resourcefork.Open(r, n); err == nil {
				doc.resourceMap = m
			}
		}
	}

	// sectionreader.Section collapses an already-sectioned reader
	// (e.g. a facade caller that handed us an *io.SectionReader) rather
	// than stacking another wrapper on top of it.
	if ole, err := ole2.Open(sectionreader.Section(data, 0, dataLen)); err == nil {
		doc.ole = ole
	}

	return doc, nil
}

// openAppleDoubleSibling tries "._NAME" next to name, then
// "__MACOSX/._NAME" (the layout zip archives produced on a Mac use),
// per spec §4.4.
func openAppleDoubleSibling(fsys FileSystem, name string) (*appledouble.File, bool) {
	dir, base := path.Split(name)
	for _, candidate := range []string{
		path.Join(dir, "._"+base),
		path.Join(dir, "__MACOSX", "._"+base),
	} {
		r, n, err := fsys.Open(candidate)
		if err != nil {
			continue
		}
		ad, err := appledouble.Parse(io.NewSectionReader(r, 0, n))
		if err != nil {
			continue
		}
		return ad, true
	}
	return nil, false
}

// ResourceMap returns the document's resource fork, if any discovery
// strategy found one.
func (d *Document) ResourceMap() (*resourcefork.Map, error) {
	if d.resourceMap == nil {
		return nil, ErrResourceForkMissing
	}
	return d.resourceMap, nil
}

// FinderInfo returns the document's FinderInfo (creator/type codes),
// if discovered.
func (d *Document) FinderInfo() (appledouble.FinderInfo, bool) {
	return d.finderInfo, d.hasFinderInfo
}

// OLE returns the data fork's OLE2 compound-file reader, if the data
// fork is itself an OLE2 container (Word/Excel/PowerPoint's carrier
// format).
func (d *Document) OLE() (*ole2.Reader, bool) {
	return d.ole, d.ole != nil
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
