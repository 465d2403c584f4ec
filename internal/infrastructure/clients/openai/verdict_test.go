package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

func TestParseVerdict_Accepted(t *testing.T) {
	raw := []byte(`{
		"is_ingredient": true,
		"name": "Soy Lecithin",
		"ro_name": "lecitină de soia",
		"description": "An emulsifier derived from soybeans.",
		"ro_description": "Un emulgator derivat din boabe de soia.",
		"risk_level": "low",
		"nova_score": 4,
		"confidence": 0.92
	}`)

	verdict, err := parseVerdict(raw, "lecitina de soia")
	require.NoError(t, err)

	assert.True(t, verdict.IsIngredient)
	assert.Equal(t, "soy lecithin", verdict.Name)
	assert.Equal(t, "lecitină de soia", verdict.RoName)
	assert.Equal(t, entities.RiskLow, verdict.RiskLevel)
	assert.Equal(t, 4, verdict.NovaScore)
	assert.Equal(t, 0.92, verdict.Confidence)
}

func TestParseVerdict_RejectedClearsEnrichment(t *testing.T) {
	raw := []byte(`{
		"is_ingredient": false,
		"reason": "additive",
		"name": "emulsifier",
		"risk_level": "high",
		"nova_score": 4,
		"confidence": 0.8
	}`)

	verdict, err := parseVerdict(raw, "emulgator")
	require.NoError(t, err)

	assert.False(t, verdict.IsIngredient)
	assert.Equal(t, "additive", verdict.Reason)
	assert.Empty(t, verdict.Name)
	assert.Equal(t, "emulgator", verdict.RoName, "localized name falls back to the input")
	assert.Equal(t, entities.RiskUnknown, verdict.RiskLevel)
	assert.Zero(t, verdict.NovaScore)
}

func TestParseVerdict_DefensiveCoercion(t *testing.T) {
	raw := []byte(`{
		"is_ingredient": "true",
		"name": "sugar",
		"ro_name": "zahăr",
		"risk_level": "VERY_BAD",
		"nova_score": "7",
		"confidence": 1.8
	}`)

	verdict, err := parseVerdict(raw, "zahar")
	require.NoError(t, err)

	assert.True(t, verdict.IsIngredient)
	assert.Equal(t, entities.RiskUnknown, verdict.RiskLevel, "unrecognized risk becomes unknown")
	assert.Zero(t, verdict.NovaScore, "out-of-range score becomes unknown")
	assert.Equal(t, 1.0, verdict.Confidence, "confidence is clipped to [0,1]")
}

func TestParseVerdict_MissingNameDemotesToRejection(t *testing.T) {
	raw := []byte(`{"is_ingredient": true, "confidence": 0.5}`)

	verdict, err := parseVerdict(raw, "ceva")
	require.NoError(t, err)

	assert.False(t, verdict.IsIngredient)
	assert.Equal(t, "not specific", verdict.Reason)
	assert.Equal(t, "ceva", verdict.RoName)
}

func TestParseVerdict_Malformed(t *testing.T) {
	_, err := parseVerdict([]byte(`not json at all`), "x")
	assert.Error(t, err)
}

func TestStripMarkdownFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences(`{"a":1}`))
}

func TestParseCandidateList_JSONArray(t *testing.T) {
	got := parseCandidateList(`["Lapte", "zahăr", "sare", "ap"]`)
	assert.Equal(t, []string{"lapte", "zahăr", "sare"}, got, "short fragments are dropped")
}

func TestParseCandidateList_FallbackQuoted(t *testing.T) {
	got := parseCandidateList(`The ingredients are "milk", "sugar" and "salt".`)
	assert.Equal(t, []string{"milk", "sugar", "salt"}, got)
}

func TestParseCandidateList_FallbackCommas(t *testing.T) {
	got := parseCandidateList(`1. lapte, 2. zahăr, sare`)
	assert.Equal(t, []string{"lapte", "zahăr", "sare"}, got, "numbering prefixes are stripped")
}

func TestParseCandidateList_CapsAtTen(t *testing.T) {
	got := parseCandidateList(`["aaa","bbb","ccc","ddd","eee","fff","ggg","hhh","iii","jjj","kkk","lll"]`)
	assert.Len(t, got, 10)
}

func TestParseCandidateList_Dedupes(t *testing.T) {
	got := parseCandidateList(`["milk", "Milk", " milk "]`)
	assert.Equal(t, []string{"milk"}, got)
}
