package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeSkillTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "duplicates after normalization",
			input:    []string{"Plumbing", "plumbing", " PLUMBING "},
			expected: []string{"plumbing"},
		},
		{
			name:     "empties dropped",
			input:    []string{"", "  ", "electrical"},
			expected: []string{"electrical"},
		},
		{
			name:     "order preserved",
			input:    []string{"Cleaning", "Gardening", "cleaning"},
			expected: []string{"cleaning", "gardening"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkillTags(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("NormalizeSkillTags(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDedupeTokens(t *testing.T) {
	got := DedupeTokens([]string{"tok-a", "tok-b", "tok-a", "", "tok-c"})
	expected := []string{"tok-a", "tok-b", "tok-c"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("DedupeTokens = %v, want %v", got, expected)
	}
}

func TestDedupeTokens_PreservesCase(t *testing.T) {
	// Tokens are opaque; "Tok" and "tok" are distinct devices.
	got := DedupeTokens([]string{"Tok", "tok"})
	if len(got) != 2 {
		t.Errorf("expected case-sensitive dedupe to keep both tokens, got %v", got)
	}
}
