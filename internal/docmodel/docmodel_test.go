// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package docmodel

import "testing"

func TestTabListSortsAndDedups(t *testing.T) {
	var tabs TabList
	tabs.Insert(Tab{Position: Pt(100), Alignment: TabLeft})
	tabs.Insert(Tab{Position: Pt(50), Alignment: TabCenter})
	tabs.Insert(Tab{Position: Pt(100), Alignment: TabDecimal}) // duplicate position

	got := tabs.Tabs()
	if len(got) != 2 {
		t.Fatalf("got %d tabs, want 2", len(got))
	}
	if got[0].Position.Value != 50 || got[1].Position.Value != 100 {
		t.Fatalf("tabs not sorted: %+v", got)
	}
	if got[1].Alignment != TabDecimal {
		t.Fatalf("duplicate insert did not keep last-inserted alignment: %+v", got[1])
	}
}

func TestListRestartCascadesToDeeperLevels(t *testing.T) {
	l, err := NewList(1, map[int]ListLevel{
		1: {Type: ListDecimal, StartValue: 1},
		2: {Type: ListLowerAlpha, StartValue: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	l.Next(1)
	l.Next(2)
	l.Next(2)
	if l.Current(2) != 3 {
		t.Fatalf("Current(2) = %d, want 3", l.Current(2))
	}
	l.Restart(1)
	if l.Current(1) != 1 || l.Current(2) != 1 {
		t.Fatalf("Restart(1) did not cascade: level1=%d level2=%d", l.Current(1), l.Current(2))
	}
}

func TestBorderStructuralEquality(t *testing.T) {
	a := Border{Style: BorderSingle, WidthPoints: 1, Color: RGB(0, 0, 0)}
	b := Border{Style: BorderSingle, WidthPoints: 1, Color: RGB(0, 0, 0)}
	if a != b {
		t.Fatalf("expected structural equality: %+v != %+v", a, b)
	}
	if Border{}.IsVisible() {
		t.Fatal("zero-value border must not be visible")
	}
}

func TestSectionColumnWidthInvariant(t *testing.T) {
	s := Section{
		Width: Pt(400),
		Columns: []Column{
			{Width: Pt(200)},
			{Width: Pt(250)},
		},
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected column-width-exceeds-section error")
	}
}

func TestLengthConversions(t *testing.T) {
	if Tw(1440).Points() != 72 {
		t.Fatalf("1440 twip should be 72pt, got %v", Tw(1440).Points())
	}
	if In(1).Twips() != 1440 {
		t.Fatalf("1in should be 1440 twip, got %v", In(1).Twips())
	}
}
