package services

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/pkg/textutil"
)

const (
	// DefaultMatchThreshold is the minimum similarity for a fuzzy hit.
	DefaultMatchThreshold = 90

	fuzzyCandidateLimit = 5
)

// matchSkipWords are short tokens that name roles, element fragments
// or chemistry stems rather than ingredients; they never enter
// matching on their own.
var matchSkipWords = makeSet(
	"apa", "water", "suc", "juice", "concentrat", "concentrate", "agent",
	"acidifiant", "arome", "indulcitori", "corector", "conservanti",
	"stabilizatori", "coloranti", "emulgatori", "dioxid", "carbon",
	"acid", "esteri", "glicerici", "rasinilor", "lemn", "contine",
	"sursa", "fenilalamina", "potasiu", "sodiu", "calciu", "magneziu",
	"fosfat", "carbonat", "bicarbonat", "nitrit", "nitrat", "benzoat",
	"sorbat", "propionat", "galat", "glutamat", "inosinat", "guanylat",
	"ribonucleotide", "alginat", "carragenan", "agar", "guma", "arabica",
	"xantan", "guar", "locust", "tara", "gellan", "celuloza",
	"metilceluloza", "hidroxipropil", "carboximetilceluloza",
	"microcristalina", "praf", "fibra", "gel", "ester", "eter",
	"acetat", "butirat", "palmitat", "stearat", "oleat",
)

// directoryKey is one lookup key (lowercased English or Romanian name)
// pointing at its record.
type directoryKey struct {
	key        string // raw lowercase form, returned in results
	normalized string // folded form used for scoring
	record     *entities.IngredientRecord
}

// MatchEngine fuzzy-matches candidates against the directory's key
// set. Keys come from visible records only; hidden records never match.
type MatchEngine struct {
	keys      []directoryKey
	index     map[string]int // normalized key -> position in keys
	threshold int
}

// NewMatchEngine builds an engine over the given records. Records that
// are not visible are skipped at key-build time.
func NewMatchEngine(records []*entities.IngredientRecord, threshold int) *MatchEngine {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	engine := &MatchEngine{
		index:     make(map[string]int),
		threshold: threshold,
	}
	for _, record := range records {
		engine.Add(record)
	}
	return engine
}

// Add registers a record's keys. Also used mid-run after the directory
// writer inserts a new record, so follow-up candidates can match it
// without a reload. Hidden records are ignored.
func (e *MatchEngine) Add(record *entities.IngredientRecord) {
	if record == nil || !record.Visible {
		return
	}
	e.addKey(record.Name, record)
	e.addKey(record.RoName, record)
}

func (e *MatchEngine) addKey(name string, record *entities.IngredientRecord) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	normalized := textutil.Normalize(key)
	if _, exists := e.index[normalized]; exists {
		return
	}
	e.keys = append(e.keys, directoryKey{
		key:        key,
		normalized: normalized,
		record:     record,
	})
	e.index[normalized] = len(e.keys) - 1
}

type scoredKey struct {
	idx   int
	score int
}

// Match resolves one candidate, or returns nil when nothing qualifies.
func (e *MatchEngine) Match(candidate string) *entities.MatchResult {
	normalized := textutil.Normalize(candidate)
	if len(normalized) < 3 {
		return nil
	}
	if _, skip := matchSkipWords[normalized]; skip {
		return nil
	}

	// Exact match wins outright; fuzzy logic never runs.
	if idx, ok := e.index[normalized]; ok {
		return e.result(candidate, idx, 100, entities.MatchExact)
	}

	// Top-N fuzzy candidates above the threshold.
	var scored []scoredKey
	for i := range e.keys {
		score := similarityRatio(normalized, e.keys[i].normalized)
		if score >= e.threshold {
			scored = append(scored, scoredKey{idx: i, score: score})
		}
	}
	if len(scored) == 0 {
		return nil
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > fuzzyCandidateLimit {
		scored = scored[:fuzzyCandidateLimit]
	}

	// Validation rules, evaluated in fixed order per pair.
	var valid []scoredKey
	for _, sk := range scored {
		if pairIsValid(normalized, e.keys[sk.idx].normalized, sk.score) {
			valid = append(valid, sk)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	best := e.pickBest(normalized, valid)
	return e.result(candidate, best.idx, best.score, entities.MatchFuzzy)
}

func pairIsValid(candidate, key string, score int) bool {
	for _, rule := range matchRules {
		if !rule.valid(candidate, key, score) {
			return false
		}
	}
	return true
}

// pickBest applies the tie-break policy: fewest words within 2 points,
// then the lecithin and plain-sugar overrides within 5 points.
func (e *MatchEngine) pickBest(candidate string, valid []scoredKey) scoredKey {
	best := valid[0]
	for _, sk := range valid {
		if textutil.WordCount(e.keys[sk.idx].normalized) < textutil.WordCount(e.keys[best.idx].normalized) &&
			sk.score >= best.score-2 {
			best = sk
		}
	}

	if strings.Contains(candidate, "lecitina") || strings.Contains(candidate, "lecithin") {
		for _, sk := range valid {
			if strings.Contains(e.keys[sk.idx].normalized, "lecithin") && sk.score >= best.score-5 {
				best = sk
				break
			}
		}
	}

	if candidate == "zahar" {
		for _, sk := range valid {
			if e.keys[sk.idx].normalized == "sugar" && sk.score >= best.score-5 {
				best = sk
				break
			}
		}
	}

	return best
}

func (e *MatchEngine) result(candidate string, idx, score int, method entities.MatchMethod) *entities.MatchResult {
	dk := e.keys[idx]
	return &entities.MatchResult{
		Candidate:    candidate,
		IngredientID: dk.record.ID,
		MatchedName:  dk.key,
		Score:        score,
		Method:       method,
		NovaScore:    dk.record.NovaScore,
		Visible:      dk.record.Visible,
	}
}

// similarityRatio is an edit-distance ratio on a 0-100 scale.
func similarityRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}
