// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// mwawprobe identifies, and optionally decodes, legacy Macintosh
// documents named by a doublestar glob. Run with no flags to just
// print the probe's format tags for each match; add -parse to drive
// the matching C9 parser and print a plain-text walk of the resulting
// sink.Sink events, in the teacher's direct dumpFS style.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elliotnunn/mwawgo/internal/facade"
	"github.com/elliotnunn/mwawgo/internal/parser"
	"github.com/elliotnunn/mwawgo/internal/probe"
	"github.com/elliotnunn/mwawgo/internal/xattr"

	_ "github.com/elliotnunn/mwawgo/format/clarisworks"
	_ "github.com/elliotnunn/mwawgo/format/msword"
	_ "github.com/elliotnunn/mwawgo/format/writenow"
)

func main() {
	doParse := flag.Bool("parse", false, "drive the matching parser and dump its sink events")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: mwawprobe [-parse] <doublestar-glob>...")
		os.Exit(2)
	}

	status := 0
	for _, pattern := range flag.Args() {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", pattern, err)
			status = 1
			continue
		}
		for _, m := range matches {
			if err := probeOne(m, *doParse); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", m, err)
				status = 1
			}
		}
	}
	os.Exit(status)
}

func probeOne(fullPath string, doParse bool) error {
	dir, base := filepath.Split(fullPath)
	doc, err := facade.Open(dirFS{dir}, base, xattr.Default)
	if err != nil {
		return err
	}

	result := probe.Run(doc)
	fmt.Printf("%s:\n", fullPath)
	if len(result.Tags) == 0 {
		fmt.Println("    (unrecognized)")
		return nil
	}
	for _, tag := range result.Tags {
		fmt.Printf("    tag=%q\n", string(tag))
	}

	if !doParse {
		return nil
	}

	ev := &dumpSink{}
	if err := parser.ParseBest(doc, result, ev); err != nil {
		fmt.Printf("    (parse failed: %v)\n", err)
		return nil
	}
	return nil
}

// dirFS adapts a plain filesystem directory to facade.FileSystem.
type dirFS struct{ dir string }

func (d dirFS) Open(name string) (r io.ReaderAt, size int64, err error) {
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
