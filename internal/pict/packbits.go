// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

import "github.com/cockroachdb/errors"

// ErrShortPacked classifies spec §7 TruncatedInput for a PackBits
// stream that runs out of control or literal bytes before producing
// the requested number of output bytes.
var ErrShortPacked = errors.New("pict: packbits stream truncated")

// Unpack decodes a PackBits-compressed row (spec §4.5): a signed byte
// n is read; n >= 0 copies the next n+1 literal bytes; n < 0 (and
// n != -128, a no-op) repeats the next byte 1-n times. Decoding stops
// once want output bytes have been produced, which is how a
// fixed-row-size bitmap decoder knows it is done without a trailing
// length.
func Unpack(src []byte, want int) ([]byte, error) {
	out := make([]byte, 0, want)
	i := 0
	for len(out) < want {
		if i >= len(src) {
			return nil, errors.Wrapf(ErrShortPacked, "ran out of input wanting %d more bytes", want-len(out))
		}
		n := int8(src[i])
		i++
		switch {
		case n >= 0:
			count := int(n) + 1
			if i+count > len(src) {
				return nil, errors.Wrap(ErrShortPacked, "literal run truncated")
			}
			out = append(out, src[i:i+count]...)
			i += count
		case n == -128:
			// No-op control byte.
		default:
			count := 1 - int(n)
			if i >= len(src) {
				return nil, errors.Wrap(ErrShortPacked, "repeat run missing its byte")
			}
			b := src[i]
			i++
			for k := 0; k < count; k++ {
				out = append(out, b)
			}
		}
	}
	if len(out) > want {
		out = out[:want]
	}
	return out, nil
}

// bytesConsumed reports how many source bytes Unpack would read to
// produce want output bytes, used by callers that need to advance a
// shared cursor past a packed row without re-deriving the count by
// hand.
func bytesConsumed(src []byte, want int) (int, error) {
	produced := 0
	i := 0
	for produced < want {
		if i >= len(src) {
			return 0, errors.Wrap(ErrShortPacked, "ran out of input")
		}
		n := int8(src[i])
		i++
		switch {
		case n >= 0:
			count := int(n) + 1
			if i+count > len(src) {
				return 0, errors.Wrap(ErrShortPacked, "literal run truncated")
			}
			i += count
			produced += count
		case n == -128:
		default:
			if i >= len(src) {
				return 0, errors.Wrap(ErrShortPacked, "repeat run missing its byte")
			}
			i++
			produced += 1 - int(n)
		}
	}
	return i, nil
}
