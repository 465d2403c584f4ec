package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmenter_LeadInMarker(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("Ingrediente: lapte, zahăr, sare")
	assert.ElementsMatch(t, []string{"lapte", "zahăr", "sare"}, got)
}

func TestSegmenter_EnglishMarker(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("Ingredients: milk; sugar; salt\nStore in a cool place.")
	assert.ElementsMatch(t, []string{"milk", "sugar", "salt"}, got)
}

func TestSegmenter_MarkerSpanStopsAtNewline(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("Ingrediente: lapte, cacao\nValori nutritionale: grasimi 10g")
	assert.ElementsMatch(t, []string{"lapte", "cacao"}, got)
}

func TestSegmenter_ShortFragmentsDropped(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("Ingrediente: ou, lapte, ulei de palmier")
	// "ou" has length 2 and is discarded
	assert.ElementsMatch(t, []string{"lapte", "ulei de palmier"}, got)
}

func TestSegmenter_KeywordWithoutMarker(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("acest produs contine lapte, soia si alune")
	assert.Contains(t, got, "acest produs contine lapte")
	assert.Contains(t, got, "soia si alune")
}

func TestSegmenter_FallbackStripsNoise(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("lapte 30%, zahăr (brun), **bio** cacao, apa")
	assert.Contains(t, got, "lapte")
	assert.Contains(t, got, "zahăr brun")
	assert.Contains(t, got, "cacao")
	assert.NotContains(t, got, "apa", "stop words are dropped in the fallback tier")
}

func TestSegmenter_Dedupes(t *testing.T) {
	s := NewSegmenter()

	got := s.Extract("Ingrediente: sare, lapte, sare")
	assert.ElementsMatch(t, []string{"sare", "lapte"}, got)
}

func TestSegmenter_EmptyInput(t *testing.T) {
	s := NewSegmenter()

	assert.Empty(t, s.Extract(""))
	assert.Empty(t, s.Extract("   \n  "))
}
