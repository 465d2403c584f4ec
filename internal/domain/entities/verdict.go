package entities

// Verdict is the classifier's structured answer for one candidate.
// Fields arrive from an untrusted model response and are only valid
// after the coercion step in the classifier client.
type Verdict struct {
	IsIngredient  bool      `json:"is_ingredient"`
	Reason        string    `json:"reason,omitempty"`
	Name          string    `json:"name"`
	RoName        string    `json:"ro_name"`
	Description   string    `json:"description,omitempty"`
	RoDescription string    `json:"ro_description,omitempty"`
	RiskLevel     RiskLevel `json:"risk_level"`
	NovaScore     int       `json:"nova_score"` // 1-4, 0 = unknown
	Confidence    float64   `json:"confidence"` // clipped to [0,1]
}
