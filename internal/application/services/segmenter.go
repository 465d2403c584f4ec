package services

import (
	"regexp"
	"strings"
)

// Segmenter extracts candidate ingredient substrings from a raw
// declaration string. It is intentionally lossy: precision is
// delegated to the blacklist and the match engine.
type Segmenter struct{}

// NewSegmenter creates a new text segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

var (
	// Lead-in markers, Romanian and English, span up to a newline,
	// period or end of text.
	leadInRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)ingrediente:\s*(.*?)(?:\n|\.|$)`),
		regexp.MustCompile(`(?is)ingredients:\s*(.*?)(?:\n|\.|$)`),
		regexp.MustCompile(`(?is)conține:\s*(.*?)(?:\n|\.|$)`),
		regexp.MustCompile(`(?is)contine:\s*(.*?)(?:\n|\.|$)`),
		regexp.MustCompile(`(?is)contains:\s*(.*?)(?:\n|\.|$)`),
	}

	leadInKeywords = []string{"ingrediente", "ingredients", "conține", "contine", "contains"}

	separatorRe    = regexp.MustCompile(`[,;.]`)
	parentheticalRe = regexp.MustCompile(`\(([^)]*)\)`)
	percentRe      = regexp.MustCompile(`\d+(\.\d+)?\s*%`)
	boldRe         = regexp.MustCompile(`\*\*.*?\*\*`)
)

// segmentStopWords drop generic fragments in the last-resort tier.
var segmentStopWords = map[string]struct{}{
	"apa": {}, "water": {}, "suc": {}, "juice": {},
	"concentrat": {}, "concentrate": {}, "agent": {}, "acidifiant": {},
	"arome": {}, "indulcitori": {}, "corector": {}, "conservanti": {},
	"stabilizatori": {}, "coloranti": {}, "emulgatori": {},
	"dioxid": {}, "carbon": {}, "acid": {}, "esteri": {}, "glicerici": {},
	"rasinilor": {}, "lemn": {}, "contine": {}, "sursa": {}, "fenilalamina": {},
}

// Extract returns the deduplicated candidate list for a declaration.
// Empty input yields an empty slice.
func (s *Segmenter) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = strings.ToLower(text)

	// Tier 1: a lead-in marker pins down the ingredient span.
	var candidates []string
	for _, re := range leadInRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidates = append(candidates, splitFragments(m[1])...)
		}
	}

	// Tier 2: a keyword appears somewhere but not as a marker.
	if len(candidates) == 0 && containsAny(text, leadInKeywords) {
		candidates = splitFragments(text)
	}

	// Tier 3: no indicator at all. Split everything and scrub noise.
	if len(candidates) == 0 {
		for _, part := range separatorRe.Split(text, -1) {
			part = parentheticalRe.ReplaceAllString(part, "$1")
			part = percentRe.ReplaceAllString(part, "")
			part = boldRe.ReplaceAllString(part, "")
			part = strings.TrimSpace(part)
			if len(part) <= 2 {
				continue
			}
			if _, stop := segmentStopWords[part]; stop {
				continue
			}
			candidates = append(candidates, part)
		}
	}

	return dedupe(candidates)
}

func splitFragments(span string) []string {
	var out []string
	for _, part := range separatorRe.Split(span, -1) {
		part = strings.TrimSpace(part)
		if len(part) > 2 {
			out = append(out, part)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func dedupe(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
