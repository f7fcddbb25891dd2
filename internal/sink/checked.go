// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package sink

import "github.com/cockroachdb/errors"

// ErrMismatchedNesting classifies a grammar violation caught by Checked:
// a Close* call with no matching Open*, or EndDocument with containers
// still open. Spec §4.6 calls this "a programmer error in C9... must be
// caught by tests" (S6).
var ErrMismatchedNesting = errors.New("sink: mismatched open/close nesting")

type frame int

const (
	frDocument frame = iota
	frPage
	frSection
	frParagraph
	frSpan
	frLink
	frTable
	frTableRow
	frTableCell
	frListLevel
	frListElement
	frGroup
)

// Checked wraps a Sink and enforces spec §4.6's grammar: every Open* is
// matched by exactly one Close* in the correct order. It does not
// implement the full nesting grammar (e.g. Span only inside Paragraph) —
// that would duplicate what every format parser's tests already check —
// it only enforces the structural invariant spec §8 property 1 names:
// Open/Close pairs balance and close in LIFO order.
type Checked struct {
	Sink
	stack []frame
}

// NewChecked wraps s.
func NewChecked(s Sink) *Checked { return &Checked{Sink: s} }

func (c *Checked) push(f frame) { c.stack = append(c.stack, f) }

func (c *Checked) pop(want frame) error {
	if len(c.stack) == 0 || c.stack[len(c.stack)-1] != want {
		return errors.Wrapf(ErrMismatchedNesting, "close frame %v with stack %v", want, c.stack)
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// Balanced reports whether every opened frame has been closed. Call
// after EndDocument (or after an early abort) to verify spec §7's
// requirement that a parser "leave the sink in a well-nested state on
// early exit."
func (c *Checked) Balanced() bool { return len(c.stack) == 0 }

func (c *Checked) StartDocument() error { c.push(frDocument); return c.Sink.StartDocument() }
func (c *Checked) EndDocument() error {
	if err := c.pop(frDocument); err != nil {
		return err
	}
	return c.Sink.EndDocument()
}

func (c *Checked) StartPage() error { c.push(frPage); return c.Sink.StartPage() }
func (c *Checked) EndPage() error {
	if err := c.pop(frPage); err != nil {
		return err
	}
	return c.Sink.EndPage()
}

func (c *Checked) OpenSection(s Section) error { c.push(frSection); return c.Sink.OpenSection(s) }
func (c *Checked) CloseSection() error {
	if err := c.pop(frSection); err != nil {
		return err
	}
	return c.Sink.CloseSection()
}

func (c *Checked) OpenParagraph(p Paragraph) error {
	c.push(frParagraph)
	return c.Sink.OpenParagraph(p)
}
func (c *Checked) CloseParagraph() error {
	if err := c.pop(frParagraph); err != nil {
		return err
	}
	return c.Sink.CloseParagraph()
}

func (c *Checked) OpenSpan(s Span) error { c.push(frSpan); return c.Sink.OpenSpan(s) }
func (c *Checked) CloseSpan() error {
	if err := c.pop(frSpan); err != nil {
		return err
	}
	return c.Sink.CloseSpan()
}

func (c *Checked) OpenLink(target string) error { c.push(frLink); return c.Sink.OpenLink(target) }
func (c *Checked) CloseLink() error {
	if err := c.pop(frLink); err != nil {
		return err
	}
	return c.Sink.CloseLink()
}

func (c *Checked) OpenTable(t Table) error { c.push(frTable); return c.Sink.OpenTable(t) }
func (c *Checked) CloseTable() error {
	if err := c.pop(frTable); err != nil {
		return err
	}
	return c.Sink.CloseTable()
}

func (c *Checked) OpenTableRow(r Row) error { c.push(frTableRow); return c.Sink.OpenTableRow(r) }
func (c *Checked) CloseTableRow() error {
	if err := c.pop(frTableRow); err != nil {
		return err
	}
	return c.Sink.CloseTableRow()
}

func (c *Checked) OpenTableCell(cell Cell) error {
	c.push(frTableCell)
	return c.Sink.OpenTableCell(cell)
}
func (c *Checked) CloseTableCell() error {
	if err := c.pop(frTableCell); err != nil {
		return err
	}
	return c.Sink.CloseTableCell()
}

func (c *Checked) OpenListLevel(l Level) error {
	c.push(frListLevel)
	return c.Sink.OpenListLevel(l)
}
func (c *Checked) CloseListLevel() error {
	if err := c.pop(frListLevel); err != nil {
		return err
	}
	return c.Sink.CloseListLevel()
}

func (c *Checked) OpenListElement() error {
	c.push(frListElement)
	return c.Sink.OpenListElement()
}
func (c *Checked) CloseListElement() error {
	if err := c.pop(frListElement); err != nil {
		return err
	}
	return c.Sink.CloseListElement()
}

func (c *Checked) OpenGroup() error { c.push(frGroup); return c.Sink.OpenGroup() }
func (c *Checked) CloseGroup() error {
	if err := c.pop(frGroup); err != nil {
		return err
	}
	return c.Sink.CloseGroup()
}
