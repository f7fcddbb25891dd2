// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package cache

import "testing"

func TestAddAndGetRoundTrip(t *testing.T) {
	c := New[string](16)
	k := Key{DocumentID: 1, FourCC: [4]byte{'P', 'I', 'C', 'T'}, ID: 5}

	if _, ok := c.Get(k); ok {
		t.Fatal("expected miss before Add")
	}

	c.Add(k, "decoded")
	v, ok := c.Get(k)
	if !ok || v != "decoded" {
		t.Fatalf("got %q, %v; want \"decoded\", true", v, ok)
	}
}

func TestDistinctKeysDoNotCollide(t *testing.T) {
	c := New[int](16)
	a := Key{DocumentID: 1, FourCC: [4]byte{'P', 'I', 'C', 'T'}, ID: 1}
	b := Key{DocumentID: 1, FourCC: [4]byte{'P', 'I', 'C', 'T'}, ID: 2}

	c.Add(a, 100)
	c.Add(b, 200)

	va, _ := c.Get(a)
	vb, _ := c.Get(b)
	if va != 100 || vb != 200 {
		t.Fatalf("got %d, %d; want 100, 200", va, vb)
	}
}
