// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package cache is an admission cache for the PICT decoder (C5) and the
// resource-map reader (C3): decoding a packed PICT pixmap or a large
// resource blob can be revisited from more than one zone (a common
// pattern: a graphic referenced by both a frame record and a style
// zone), and a TinyLFU cache avoids redoing that work.
//
// Grounded directly in the teacher's own use of go-tinylfu in
// internal/spinner (spinner.go's blkCache, concurrent.go's bcache):
// same library, same New/Get/Add shape, applied to decoded-blob keys
// instead of file-block keys.
package cache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// Key identifies a cacheable decode result: which resource or embedded
// PICT, inside which input. Two zones referencing the same (fourcc, id)
// inside the same document hash identically.
type Key struct {
	DocumentID uint64 // fileid-style identity of the input, caller-assigned
	FourCC     [4]byte
	ID         int16
}

func hashKey(k Key) uint64 {
	var h xxhash.Digest
	h.Write([]byte{
		byte(k.DocumentID >> 56), byte(k.DocumentID >> 48), byte(k.DocumentID >> 40), byte(k.DocumentID >> 32),
		byte(k.DocumentID >> 24), byte(k.DocumentID >> 16), byte(k.DocumentID >> 8), byte(k.DocumentID),
	})
	h.Write(k.FourCC[:])
	h.Write([]byte{byte(k.ID >> 8), byte(k.ID)})
	return h.Sum64()
}

// Blobs is a fixed-capacity cache from Key to an arbitrary decoded
// value (decoded PICT pixels, a resolved STR, a Version list). One
// Blobs is typically shared across an entire parse() run, not per-zone.
type Blobs[V any] struct {
	t *tinylfu.T[Key, V]
}

// New returns a cache admitting up to size entries, sampling 10x that
// many candidates for eviction decisions (the ratio the teacher's
// spinner package uses throughout).
func New[V any](size int) *Blobs[V] {
	return &Blobs[V]{t: tinylfu.New[Key, V](size, size*10, hashKey)}
}

// Get returns the cached value for k, if present.
func (b *Blobs[V]) Get(k Key) (V, bool) {
	return b.t.Get(k)
}

// Add inserts or updates the cached value for k.
func (b *Blobs[V]) Add(k Key, v V) {
	b.t.Add(k, v)
}
