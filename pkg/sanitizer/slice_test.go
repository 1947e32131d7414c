package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeCities(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "normalizes and deduplicates",
			input: []string{"Portland", "  portland ", "Bend"},
			want:  []string{"portland", "bend"},
		},
		{
			name:  "drops entries that normalize to empty",
			input: []string{"Portland", "   ", "!!!"},
			want:  []string{"portland"},
		},
		{
			name:  "preserves first-seen order",
			input: []string{"Bend", "Portland", "bend"},
			want:  []string{"bend", "portland"},
		},
		{
			name:  "nil input yields empty slice",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCities(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCities(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTackLabels(t *testing.T) {
	got := NormalizeTackLabels([]string{"Dressage Saddle", "dressage-saddle", "Bridle"})
	want := []string{"dressagesaddle", "bridle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTackLabels() = %v, want %v", got, want)
	}
}

func TestNormalizeHorseIDs(t *testing.T) {
	got := NormalizeHorseIDs([]string{
		" 65f000000000000000000020 ",
		"65f000000000000000000020",
		"65f000000000000000000021",
		"",
	})
	want := []string{"65f000000000000000000020", "65f000000000000000000021"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeHorseIDs() = %v, want %v", got, want)
	}
}
