package search

import "testing"

func named(name, typ string) Result {
	return Result{Name: name, Type: typ}
}

func TestRankPrefixBeforeSubstring(t *testing.T) {
	results := []Result{
		named("Baragorn", "character"),
		named("Aragorn", "character"),
	}
	Rank(results, "Ara")

	if results[0].Name != "Aragorn" {
		t.Fatalf("prefix match should rank first, got %q", results[0].Name)
	}
	if results[1].Name != "Baragorn" {
		t.Fatalf("substring match should rank second, got %q", results[1].Name)
	}
}

func TestRankIsCaseInsensitive(t *testing.T) {
	results := []Result{
		named("barrow downs", "place"),
		named("ARAGORN", "character"),
		named("aragorn's camp", "place"),
	}
	Rank(results, "ara")

	if results[0].Name != "ARAGORN" {
		t.Fatalf("unexpected first result %q", results[0].Name)
	}
	if results[1].Name != "aragorn's camp" {
		t.Fatalf("unexpected second result %q", results[1].Name)
	}
	if results[2].Name != "barrow downs" {
		t.Fatalf("unexpected third result %q", results[2].Name)
	}
}

func TestRankAlphabeticalTieBreak(t *testing.T) {
	results := []Result{
		named("Redhollow", "place"),
		named("Redbrook", "place"),
		named("Redacre", "place"),
	}
	Rank(results, "Red")

	want := []string{"Redacre", "Redbrook", "Redhollow"}
	for i, name := range want {
		if results[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, results[i].Name, name)
		}
	}
}

func TestGroupByPluralizedType(t *testing.T) {
	results := []Result{
		named("Theron", "character"),
		named("Redhollow", "place"),
		named("Mira", "character"),
		named("Session 3", "session"),
	}

	grouped := Group(results)

	if len(grouped["characters"]) != 2 {
		t.Fatalf("characters group has %d entries, want 2", len(grouped["characters"]))
	}
	if len(grouped["places"]) != 1 {
		t.Fatalf("places group has %d entries, want 1", len(grouped["places"]))
	}
	if len(grouped["sessions"]) != 1 {
		t.Fatalf("sessions group has %d entries, want 1", len(grouped["sessions"]))
	}
	if _, ok := grouped["items"]; ok {
		t.Fatal("empty groups must be omitted")
	}
}

func TestGroupPreservesRankOrder(t *testing.T) {
	results := []Result{
		named("Aragorn", "character"),
		named("Baragorn", "character"),
	}
	Rank(results, "Ara")
	grouped := Group(results)

	chars := grouped["characters"]
	if chars[0].Name != "Aragorn" || chars[1].Name != "Baragorn" {
		t.Fatalf("group order broken: %q, %q", chars[0].Name, chars[1].Name)
	}
}

func TestNodeURL(t *testing.T) {
	tests := []struct {
		name     string
		nodeType string
		want     string
	}{
		{name: "character", nodeType: "character", want: "/campaigns/lost-mines/characters/theron"},
		{name: "place", nodeType: "place", want: "/campaigns/lost-mines/places/theron"},
		{name: "plot", nodeType: "plot", want: "/campaigns/lost-mines/plots/theron"},
		{name: "unknown falls back to campaign", nodeType: "deity", want: "/campaigns/lost-mines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NodeURL("lost-mines", tt.nodeType, "theron")
			if got != tt.want {
				t.Fatalf("NodeURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionURL(t *testing.T) {
	if got := SessionURL("lost-mines", 0); got != "/campaigns/lost-mines/sessions/0" {
		t.Fatalf("SessionURL = %q", got)
	}
}

func TestSessionName(t *testing.T) {
	title := "The Goblin Ambush"
	if got := SessionName(&title, 3); got != "The Goblin Ambush" {
		t.Fatalf("SessionName with title = %q", got)
	}
	empty := ""
	if got := SessionName(&empty, 3); got != "Session 3" {
		t.Fatalf("SessionName with empty title = %q", got)
	}
	if got := SessionName(nil, 0); got != "Session 0" {
		t.Fatalf("SessionName with nil title = %q", got)
	}
}
