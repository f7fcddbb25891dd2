// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package docmodel

import "github.com/cockroachdb/errors"

// Column is one column of a Section's layout.
type Column struct {
	Width                                Length
	MarginLeft, MarginRight              Length
	MarginTop, MarginBottom              Length
}

// Section mirrors spec §3: sum(column.Width) must not exceed Width once
// both are expressed in the same unit (checked by Validate, not the
// constructor, since a parser may build a Section incrementally).
type Section struct {
	Width             Length
	Columns           []Column
	ColumnSeparator   Border
	BalanceText       bool
	Background        Color
}

// Validate checks spec §3's column-width invariant. Columns and Width
// must already share a unit; callers convert beforehand (docmodel does
// not silently convert units across a sum).
func (s Section) Validate() error {
	if len(s.Columns) == 0 {
		return nil
	}
	unit := s.Width.Unit
	var sum float64
	for i, c := range s.Columns {
		if c.Width.Unit != unit {
			return errors.Newf("docmodel: section column %d unit %v does not match section width unit %v", i, c.Width.Unit, unit)
		}
		sum += c.Width.Value
	}
	if sum > s.Width.Value {
		return errors.Newf("docmodel: section columns sum to %v, exceeding section width %v", sum, s.Width.Value)
	}
	return nil
}

// DefaultBalance derives the SPEC_FULL §3 "balance-text" default: a
// section balances its text to the foot of the page by default only
// when the caller has recorded 0 or 1 explicit page breaks within it,
// following the original implementation's MWAWSection.cxx heuristic for
// ClarisWorks-style linked text frames.
func DefaultBalance(explicitBreaks int) bool {
	return explicitBreaks <= 1
}
