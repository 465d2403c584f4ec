package entities

// ScoreSource tags where a sub-score came from.
type ScoreSource string

const (
	// ScoreSourceAPI means the external reference service answered and
	// its value was preferred over local derivation.
	ScoreSourceAPI ScoreSource = "api"
	// ScoreSourceLocal means the value was derived from stored data.
	ScoreSourceLocal ScoreSource = "local"
)

// SubScore is a nullable 0-100 score with provenance.
type SubScore struct {
	Value  *int        `json:"value"`
	Source ScoreSource `json:"source,omitempty"`
}

// ScoreSet holds the per-product sub-scores and the aggregated result.
// Final is defined iff all three sub-scores are defined and the
// product's resolution snapshot is complete.
type ScoreSet struct {
	Nutri    SubScore `json:"nutri"`
	Additive SubScore `json:"additive"`
	Nova     SubScore `json:"nova"`
	Final    *int     `json:"final"`
	Display  *int     `json:"display"`
}

// IntPtr is a small helper for building nullable scores.
func IntPtr(v int) *int {
	return &v
}
