package openai

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

// rawVerdict mirrors the model's answer before coercion. The model is
// not trusted to emit well-typed fields, so anything that has drifted
// in practice is decoded loosely.
type rawVerdict struct {
	IsIngredient  interface{} `json:"is_ingredient"`
	Reason        string      `json:"reason"`
	Name          string      `json:"name"`
	RoName        string      `json:"ro_name"`
	Description   string      `json:"description"`
	RoDescription string      `json:"ro_description"`
	RiskLevel     *string     `json:"risk_level"`
	NovaScore     interface{} `json:"nova_score"`
	Confidence    interface{} `json:"confidence"`
}

// parseVerdict decodes and coerces a classification answer. candidate
// is the original input, used as the localized-name fallback when the
// model rejects the term.
func parseVerdict(raw []byte, candidate string) (*entities.Verdict, error) {
	var rv rawVerdict
	if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, err
	}

	verdict := &entities.Verdict{
		IsIngredient:  coerceBool(rv.IsIngredient),
		Reason:        strings.TrimSpace(rv.Reason),
		Name:          strings.ToLower(strings.TrimSpace(rv.Name)),
		RoName:        strings.ToLower(strings.TrimSpace(rv.RoName)),
		Description:   strings.TrimSpace(rv.Description),
		RoDescription: strings.TrimSpace(rv.RoDescription),
		RiskLevel:     coerceRiskLevel(rv.RiskLevel),
		NovaScore:     coerceNovaScore(rv.NovaScore),
		Confidence:    coerceConfidence(rv.Confidence),
	}

	// A positive verdict without a canonical name is unusable.
	if verdict.IsIngredient && verdict.Name == "" {
		verdict.IsIngredient = false
		if verdict.Reason == "" {
			verdict.Reason = "not specific"
		}
	}

	if !verdict.IsIngredient {
		verdict.Name = ""
		verdict.Description = ""
		verdict.RoDescription = ""
		verdict.RiskLevel = entities.RiskUnknown
		verdict.NovaScore = 0
		if verdict.RoName == "" {
			verdict.RoName = strings.ToLower(strings.TrimSpace(candidate))
		}
	}

	return verdict, nil
}

func coerceBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val)))
		return err == nil && b
	case float64:
		return val != 0
	}
	return false
}

func coerceRiskLevel(v *string) entities.RiskLevel {
	if v == nil {
		return entities.RiskUnknown
	}
	level := strings.ToLower(strings.TrimSpace(*v))
	if entities.ValidRiskLevel(level) {
		return entities.RiskLevel(level)
	}
	return entities.RiskUnknown
}

func coerceNovaScore(v interface{}) int {
	var score int
	switch val := v.(type) {
	case float64:
		score = int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		score = n
	default:
		return 0
	}
	if score < 1 || score > 4 {
		return 0
	}
	return score
}

func coerceConfidence(v interface{}) float64 {
	var conf float64
	switch val := v.(type) {
	case float64:
		conf = val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		conf = f
	default:
		return 0
	}
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

const maxDerivedCandidates = 10

var (
	quotedRe    = regexp.MustCompile(`"([^"]+)"`)
	numberingRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

// parseCandidateList decodes a model-produced ingredient list. A
// well-formed JSON array is preferred; malformed output falls back to
// quoted-substring extraction, then to comma splitting.
func parseCandidateList(raw string) []string {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		names = fallbackCandidates(raw)
	}

	out := make([]string, 0, maxDerivedCandidates)
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(numberingRe.ReplaceAllString(name, "")))
		if len(name) <= 2 || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == maxDerivedCandidates {
			break
		}
	}
	return out
}

func fallbackCandidates(raw string) []string {
	matches := quotedRe.FindAllStringSubmatch(raw, -1)
	if len(matches) > 0 {
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m[1])
		}
		return names
	}
	return strings.Split(raw, ",")
}
