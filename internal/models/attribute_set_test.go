package models

import "testing"

func TestNormalizeAttributeSet(t *testing.T) {
	input := AttributeSet{
		{Name: " size ", Value: " M "},
		{Name: "Color", Value: "Red"},
		{Name: "size", Value: "L"},
		{Name: "", Value: "ignored"},
		{Name: "fit", Value: ""},
	}
	got := NormalizeAttributeSet(input)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Color" || got[0].Value != "Red" {
		t.Fatalf("unexpected first pair: %+v", got[0])
	}
	if got[1].Name != "size" || got[1].Value != "L" {
		t.Fatalf("expected duplicate name to keep last value, got: %+v", got[1])
	}
}

func TestAttributeSetCanonical(t *testing.T) {
	a := AttributeSet{{Name: "Size", Value: "M"}, {Name: "Color", Value: "Red"}}
	b := AttributeSet{{Name: "color", Value: "Red"}, {Name: "size", Value: "M"}}
	if a.Canonical() != b.Canonical() {
		t.Fatalf("expected order-insensitive canonical form, got %q vs %q", a.Canonical(), b.Canonical())
	}
	if a.Canonical() != "color=Red|size=M" {
		t.Fatalf("unexpected canonical form: %q", a.Canonical())
	}
}

func TestAttributeSetCovers(t *testing.T) {
	variant := AttributeSet{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}}
	if !variant.Covers(AttributeSet{{Name: "size", Value: "m"}}) {
		t.Fatalf("expected case-insensitive cover")
	}
	if variant.Covers(AttributeSet{{Name: "Size", Value: "L"}}) {
		t.Fatalf("expected mismatched value to fail")
	}
	if variant.Covers(AttributeSet{{Name: "Fit", Value: "Slim"}}) {
		t.Fatalf("expected unknown name to fail")
	}
}

func TestAttributeSetLabel(t *testing.T) {
	set := AttributeSet{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}}
	if got := set.Label(); got != "Color: Red, Size: M" {
		t.Fatalf("unexpected label: %q", got)
	}
}
