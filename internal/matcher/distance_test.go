// file: internal/matcher/distance_test.go
// version: 1.0.0
// guid: f8f2825e-21ec-4c67-a2fd-fadf36ce9751

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"abc", "abc", 0},
		{"ABC", "abc", 3}, // no normalization here
		{"héllo", "hello", 1},
		{"pepsy", "pepsi", 1},
	}
	for _, tt := range tests {
		got := EditDistance(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCharSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, charSimilarity("", ""))
	assert.InDelta(t, 0.8, charSimilarity("pepsy", "pepsi"), 1e-9)
	assert.Equal(t, 0.0, charSimilarity("abc", "xyz"))
	// Multi-byte runes count once.
	assert.InDelta(t, 0.8, charSimilarity("héllo", "hello"), 1e-9)
}
