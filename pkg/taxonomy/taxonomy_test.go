package taxonomy

import "testing"

func TestValidSubtype(t *testing.T) {
	tests := []struct {
		name    string
		typ     NodeType
		subtype string
		want    bool
	}{
		{name: "character pc", typ: NodeCharacter, subtype: "pc", want: true},
		{name: "character villain", typ: NodeCharacter, subtype: "villain", want: true},
		{name: "place city", typ: NodePlace, subtype: "city", want: true},
		{name: "faction arcane", typ: NodeFaction, subtype: "arcane", want: true},
		{name: "plot mystery", typ: NodePlot, subtype: "mystery", want: true},
		{name: "subtype from wrong type", typ: NodeCharacter, subtype: "city", want: false},
		{name: "unknown subtype", typ: NodeItem, subtype: "spaceship", want: false},
		{name: "unknown type", typ: NodeType("deity"), subtype: "greater", want: false},
		{name: "empty subtype", typ: NodePlace, subtype: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidSubtype(tt.typ, tt.subtype); got != tt.want {
				t.Fatalf("ValidSubtype(%q, %q) = %v, want %v", tt.typ, tt.subtype, got, tt.want)
			}
		})
	}
}

func TestEverySubtypeHasALabel(t *testing.T) {
	for _, typ := range NodeTypes() {
		for _, opt := range Subtypes(typ) {
			if opt.Value == "" || opt.Label == "" {
				t.Fatalf("incomplete subtype entry for %q: %+v", typ, opt)
			}
		}
	}
}

func TestValidNodeType(t *testing.T) {
	for _, typ := range NodeTypes() {
		if !ValidNodeType(string(typ)) {
			t.Fatalf("ValidNodeType(%q) = false", typ)
		}
	}
	if ValidNodeType("session") {
		t.Fatal("session is not a node type")
	}
	if ValidNodeType("") {
		t.Fatal("empty string is not a node type")
	}
}

func TestValidConfidence(t *testing.T) {
	for _, value := range []string{"canon", "likely", "rumor", "unknown"} {
		if !ValidConfidence(value) {
			t.Fatalf("ValidConfidence(%q) = false", value)
		}
	}
	if ValidConfidence("certain") {
		t.Fatal("certain is not a confidence level")
	}
}

func TestStatusVocabularies(t *testing.T) {
	if !ValidCampaignStatus("setup") || !ValidCampaignStatus("completed") {
		t.Fatal("missing campaign status")
	}
	if ValidCampaignStatus("archived") {
		t.Fatal("archived is not a campaign status")
	}
	if !ValidSessionStatus("in_progress") {
		t.Fatal("missing session status")
	}
	if ValidSessionStatus("cancelled") {
		t.Fatal("cancelled is not a session status")
	}
}

func TestPlural(t *testing.T) {
	if got := Plural("character"); got != "characters" {
		t.Fatalf("Plural(character) = %q", got)
	}
	if got := Plural("session"); got != "sessions" {
		t.Fatalf("Plural(session) = %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("character"); got != "Characters" {
		t.Fatalf("Label(character) = %q", got)
	}
	if got := Label("place"); got != "Places" {
		t.Fatalf("Label(place) = %q", got)
	}
	if got := Label(""); got != "" {
		t.Fatalf("Label(\"\") = %q", got)
	}
}
