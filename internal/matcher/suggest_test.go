// file: internal/matcher/suggest_test.go
// version: 1.0.0
// guid: da102b85-845c-49e7-842e-e3dd1de00862

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func suggestRecords() []Record {
	return []Record{
		{"name": "Pepsi"},
		{"name": "Pepsi Max"},
		{"name": "Coca Cola"},
		{"name": "Fanta"},
		{"name": "PEPSI"},
		{"name": nil},
	}
}

func TestSuggest_SubsequenceFirst(t *testing.T) {
	got := DefaultMatcher().Suggest(suggestRecords(), "psi", nameField(), 5)
	assert.Equal(t, []string{"Pepsi", "Pepsi Max"}, got)
}

func TestSuggest_Limit(t *testing.T) {
	got := DefaultMatcher().Suggest(suggestRecords(), "psi", nameField(), 1)
	assert.Equal(t, []string{"Pepsi"}, got)
}

func TestSuggest_FallsBackToScore(t *testing.T) {
	// No candidate holds a "y", so ranking comes from the cascade alone.
	got := DefaultMatcher().Suggest(suggestRecords(), "Pepsy", nameField(), 5)
	assert.Equal(t, []string{"Pepsi", "Pepsi Max"}, got)
}

func TestSuggest_Empty(t *testing.T) {
	m := DefaultMatcher()
	assert.Nil(t, m.Suggest(suggestRecords(), "  ", nameField(), 5))
	assert.Nil(t, m.Suggest(suggestRecords(), "psi", nameField(), 0))
	assert.Nil(t, m.Suggest(nil, "psi", nameField(), 5))
	assert.Nil(t, m.Suggest(suggestRecords(), "psi", []FieldPath{{"missing"}}, 5))
}
