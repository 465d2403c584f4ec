package entities

import (
	"time"
)

// MatchMethod records how a candidate was resolved to a directory record.
type MatchMethod string

const (
	MatchExact     MatchMethod = "exact"
	MatchFuzzy     MatchMethod = "fuzzy"
	MatchAIResolved MatchMethod = "ai-resolved"
	// MatchDuplicate marks a candidate resolved through the writer
	// finding an already-present record during AI insertion.
	MatchDuplicate MatchMethod = "duplicate-resolved"
)

// MatchResult ties an extracted candidate to a directory record. It is
// transient: produced per candidate and folded into the snapshot.
type MatchResult struct {
	Candidate    string      `json:"candidate"`
	IngredientID string      `json:"ingredient_id"`
	MatchedName  string      `json:"matched_name"`
	Score        int         `json:"score"` // 0-100 similarity
	Method       MatchMethod `json:"method"`
	NovaScore    int         `json:"nova_score"`
	Visible      bool        `json:"visible"`
}

// ResolutionStatus is the explicit state of a product's resolution.
type ResolutionStatus string

const (
	ResolutionUnresolved ResolutionStatus = "unresolved"
	ResolutionComplete   ResolutionStatus = "complete"
	ResolutionIncomplete ResolutionStatus = "incomplete"
)

// ResolutionSnapshot records how a product's ingredient text was
// segmented, matched and, if needed, AI-resolved. Overwritten on
// reprocessing; reused when already complete and AI-derived.
type ResolutionSnapshot struct {
	Candidates []string         `json:"candidates"`
	Matches    []MatchResult    `json:"matches"`
	NovaScores []int            `json:"nova_scores"` // visible matches only
	Status     ResolutionStatus `json:"status"`
	AIDerived  bool             `json:"ai_derived"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
}

// IsComplete reports whether every extracted candidate has a visible
// match. An empty candidate list with at least one prior match still
// counts as complete for AI-derived snapshots.
func (s *ResolutionSnapshot) IsComplete() bool {
	if s == nil {
		return false
	}
	visible := 0
	for _, m := range s.Matches {
		if m.Visible {
			visible++
		}
	}
	return len(s.Candidates) > 0 && visible >= len(s.Candidates)
}
