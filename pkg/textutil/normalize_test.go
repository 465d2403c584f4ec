package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "zahar", FoldDiacritics("zahăr"))
	assert.Equal(t, "lecitina", FoldDiacritics("lecitină"))
	assert.Equal(t, "contine", FoldDiacritics("conține"))
	assert.Equal(t, "plain", FoldDiacritics("plain"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Zahăr brun  ", "zahar brun"},
		{"E330 (acid citric)", "e330 acid citric"},
		{"ulei de floarea-soarelui", "ulei de floarea-soarelui"},
		{"sare,   iodată.", "sare iodata"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"floarea", "soarelui"}, Words("floarea-soarelui"))
	assert.Equal(t, []string{"soy", "lecithin"}, Words("soy lecithin"))
	assert.Nil(t, Words("   "))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("suc de grapefruit", "grapefruit"))
	assert.False(t, ContainsWord("grape juice", "grapefruit"))
	assert.True(t, ContainsWord("Lecitină de soia", "soia"))
}
