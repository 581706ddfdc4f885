package catalog

import "testing"

func TestReverseTypeBidirectional(t *testing.T) {
	for _, e := range All() {
		if !e.Bidirectional {
			continue
		}
		if got := ReverseType(e.Value); got != e.Value {
			t.Fatalf("ReverseType(%q) = %q, want itself", e.Value, got)
		}
	}
}

func TestReverseTypePairsAreSymmetric(t *testing.T) {
	for _, e := range All() {
		if e.Reverse == "" {
			continue
		}
		if got := ReverseType(e.Value); got != e.Reverse {
			t.Fatalf("ReverseType(%q) = %q, want %q", e.Value, got, e.Reverse)
		}
		if back := ReverseType(e.Reverse); back != e.Value {
			t.Fatalf("ReverseType(%q) = %q, want %q: pairing is not symmetric", e.Reverse, back, e.Value)
		}
	}
}

func TestReverseTypeIdentityFallback(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "no declared inverse", value: "member_of"},
		{name: "unknown type", value: "worships"},
		{name: "custom", value: "custom"},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReverseType(tt.value); got != tt.value {
				t.Fatalf("ReverseType(%q) = %q, want identity", tt.value, got)
			}
		})
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "catalog label", value: "lives_in", want: "Lives in"},
		{name: "asymmetric pair label", value: "child_of", want: "Child of"},
		{name: "humanized fallback", value: "sworn_enemy_of", want: "Sworn enemy of"},
		{name: "single word fallback", value: "worships", want: "Worships"},
		{name: "empty", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelFor(tt.value); got != tt.want {
				t.Fatalf("LabelFor(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("parent_of")
	if !ok {
		t.Fatal("parent_of missing from catalog")
	}
	if e.Reverse != "child_of" {
		t.Fatalf("parent_of reverse = %q, want child_of", e.Reverse)
	}

	if _, ok := Lookup("worships"); ok {
		t.Fatal("worships should not be in the catalog")
	}
}

func TestAllValuesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range All() {
		if seen[e.Value] {
			t.Fatalf("duplicate catalog entry %q", e.Value)
		}
		seen[e.Value] = true
	}
	if len(seen) == 0 {
		t.Fatal("catalog is empty")
	}
}
