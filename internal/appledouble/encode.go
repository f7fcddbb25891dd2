// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import (
	"encoding/binary"
	"io"
	"slices"
)

// Encode builds an AppleDouble container from the given entry-id-keyed
// byte contents. It is used by the round-trip test (spec §8 property 6)
// and by any caller that wants to synthesize a sidecar for a bare data
// fork plus a decoded resource fork / FinderInfo.
func Encode(records map[uint32][]byte) []byte {
	var keys []uint32
	for k := range records {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	buf := make([]byte, 26+12*len(keys))
	copy(buf, magicV2[:])
	binary.BigEndian.PutUint32(buf[4:8], version2)
	binary.BigEndian.PutUint16(buf[24:26], uint16(len(keys)))

	for i, key := range keys {
		rec := buf[26+12*i : 26+12*i+12]
		data := records[key]
		binary.BigEndian.PutUint32(rec[0:4], key)
		binary.BigEndian.PutUint32(rec[4:8], uint32(len(buf)))
		binary.BigEndian.PutUint32(rec[8:12], uint32(len(data)))
		buf = append(buf, data...)
	}
	return buf
}

// EncodeReader is a convenience over Encode for callers building a
// full AppleDouble sidecar from an in-memory data fork, resource fork,
// and FinderInfo.
func EncodeReader(dataFork, resourceFork []byte, fi FinderInfo) io.Reader {
	fiBytes := fi.encode()
	records := map[uint32][]byte{
		FinderInfoID: fiBytes[:],
	}
	if dataFork != nil {
		records[DataFork] = dataFork
	}
	if resourceFork != nil {
		records[ResourceFork] = resourceFork
	}
	return sliceReader(Encode(records))
}

type sliceReaderT struct {
	data []byte
	pos  int
}

func sliceReader(b []byte) io.Reader { return &sliceReaderT{data: b} }

func (r *sliceReaderT) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
