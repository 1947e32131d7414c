package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already clean",
			input: "Willow Creek",
			want:  "Willow Creek",
		},
		{
			name:  "leading and trailing whitespace",
			input: "  Willow Creek  ",
			want:  "Willow Creek",
		},
		{
			name:  "internal whitespace runs collapse",
			input: "Willow   Creek \t Stables",
			want:  "Willow Creek Stables",
		},
		{
			name:  "newlines and tabs",
			input: "Willow\nCreek\tStables",
			want:  "Willow Creek Stables",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: " \t\n ",
			want:  "",
		},
		{
			name:  "casing preserved",
			input: "  McGregor's Barn  ",
			want:  "McGregor's Barn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "spaces stripped and lowercased",
			input: "Wash Stall",
			want:  "washstall",
		},
		{
			name:  "hyphenated variant indexes identically",
			input: "wash-stall",
			want:  "washstall",
		},
		{
			name:  "digits kept",
			input: "Arena 2",
			want:  "arena2",
		},
		{
			name:  "unicode letters kept",
			input: "Reitplatz Süd",
			want:  "reitplatzsüd",
		},
		{
			name:  "punctuation stripped",
			input: "turn-out (east)!",
			want:  "turnouteast",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCity(t *testing.T) {
	if got := NormalizeCity("  Portland  "); got != "portland" {
		t.Errorf("NormalizeCity() = %q, want %q", got, "portland")
	}
}
