// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package docmodel

import "github.com/cockroachdb/errors"

// MaxListLevels is the spec §3 ceiling ("an immutable ordered family of
// <= 9 levels").
const MaxListLevels = 9

// ListType enumerates a level's numbering scheme. ListNone at level 0
// means "not in a list" per spec §3.
type ListType int

const (
	ListNone ListType = iota
	ListBullet
	ListDecimal
	ListLowerAlpha
	ListUpperAlpha
	ListLowerRoman
	ListUpperRoman
)

// ListLevel is one 1-indexed rung of a List's ladder.
type ListLevel struct {
	Type        ListType
	BulletChar  rune
	Prefix      string
	Suffix      string
	StartValue  int
	LabelIndent Length
	LabelWidth  Length
}

// List is an immutable family of up to MaxListLevels levels plus a
// stable id, with a mutable per-level counter (SPEC_FULL §3: "a list's
// per-level counters are owned by the list, not the paragraph, and
// persist across non-contiguous paragraphs that reuse the same list
// id"). The zero value is not usable; build with NewList.
type List struct {
	ID       int
	levels   [MaxListLevels + 1]ListLevel // index 0 unused (level 0 = "no list")
	counters [MaxListLevels + 1]int
}

// NewList builds a List with the given id. levels is 1-indexed; levels[0]
// is ignored if present.
func NewList(id int, levels map[int]ListLevel) (*List, error) {
	l := &List{ID: id}
	for lvl, def := range levels {
		if lvl < 1 || lvl > MaxListLevels {
			return nil, errors.Newf("docmodel: list level %d out of range [1,%d]", lvl, MaxListLevels)
		}
		l.levels[lvl] = def
		l.counters[lvl] = def.StartValue
	}
	return l, nil
}

// Level returns the immutable definition for a 1-indexed level.
func (l *List) Level(n int) ListLevel {
	if n < 1 || n > MaxListLevels {
		return ListLevel{}
	}
	return l.levels[n]
}

// Restart resets level n's counter to its StartValue. Called when the
// level is (re)opened, or when the immediately-containing higher level
// opens (spec §4.6's "List indices restart at start_value...").
func (l *List) Restart(n int) {
	if n < 1 || n > MaxListLevels {
		return
	}
	l.counters[n] = l.levels[n].StartValue
	// Opening a higher level restarts every level nested beneath it.
	for deeper := n + 1; deeper <= MaxListLevels; deeper++ {
		l.counters[deeper] = l.levels[deeper].StartValue
	}
}

// Next advances level n's counter and returns the new value, for
// numbering types that need a running count (decimal, alpha, roman).
// Bullet levels ignore the return value.
func (l *List) Next(n int) int {
	if n < 1 || n > MaxListLevels {
		return 0
	}
	l.counters[n]++
	return l.counters[n]
}

// Current returns level n's counter without advancing it.
func (l *List) Current(n int) int {
	if n < 1 || n > MaxListLevels {
		return 0
	}
	return l.counters[n]
}
