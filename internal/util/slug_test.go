package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple name",
			input: "Redhollow",
			want:  "redhollow",
		},
		{
			name:  "spaces become hyphens",
			input: "Lost Mines of Phandelver",
			want:  "lost-mines-of-phandelver",
		},
		{
			name:  "punctuation collapses",
			input: "The  King's -- Road!",
			want:  "the-king-s-road",
		},
		{
			name:  "leading and trailing junk trimmed",
			input: "  ~Theron~  ",
			want:  "theron",
		},
		{
			name:  "digits survive",
			input: "Sector 7G",
			want:  "sector-7g",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "?!?",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected slug: got %q, want %q", got, tt.want)
			}
		})
	}
}
