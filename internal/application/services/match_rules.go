package services

import (
	"strings"

	"github.com/apetrei/foodscore/backend/pkg/textutil"
)

// matchRule is one disambiguation rule. valid reports whether the
// candidate/key pair is acceptable at the given similarity score.
// Rules run in a fixed order; the first rejection wins. All inputs are
// normalized (lowercase, diacritics folded).
type matchRule struct {
	name  string
	valid func(candidate, key string, score int) bool
}

// matchRules guard against the fuzzy matcher's known failure modes.
var matchRules = []matchRule{
	{
		// Short fragments fuzz-match almost anything.
		name: "short-candidate",
		valid: func(candidate, key string, score int) bool {
			return len(candidate) >= 5 || score >= 95
		},
	},
	{
		// Preservative names must never land on botanical "sorb"
		// stems (serviceberry, sorb apple), no matter the score.
		name: "sorbate-vs-botanical",
		valid: func(candidate, key string, score int) bool {
			if strings.Contains(candidate, "sorbat") || strings.Contains(candidate, "sorbitol") {
				if strings.Contains(key, "serviceberry") || strings.Contains(key, "sorb") {
					return false
				}
			}
			return true
		},
	},
	{
		// Lecithin candidates must resolve to a lecithin key, and a
		// named source (soy, sunflower) must carry over.
		name: "lecithin-family",
		valid: func(candidate, key string, score int) bool {
			if !strings.Contains(candidate, "lecitina") && !strings.Contains(candidate, "lecithin") {
				return true
			}
			if score >= 95 {
				return true
			}
			if !strings.Contains(key, "lecithin") {
				return false
			}
			if strings.Contains(candidate, "soia") && !strings.Contains(key, "soy") {
				return false
			}
			if strings.Contains(candidate, "floarea soarelui") || strings.Contains(candidate, "floarea-soarelui") {
				if !strings.Contains(key, "sunflower") {
					return false
				}
			}
			return true
		},
	},
	{
		// A named food must appear in the key too; stops generic
		// over-matching like "grapefruit" onto unrelated terms.
		name: "food-indicator-presence",
		valid: func(candidate, key string, score int) bool {
			if score >= 95 {
				return true
			}
			for _, word := range textutil.Words(candidate) {
				if _, specific := specificFoodWords[word]; specific {
					if !textutil.ContainsWord(key, word) {
						return false
					}
				}
			}
			return true
		},
	},
	{
		// Additive-class terms must not land on food-class keys and
		// vice versa.
		name: "additive-vs-food-class",
		valid: func(candidate, key string, score int) bool {
			if score >= 95 {
				return true
			}
			candAdditive := hasWordFrom(candidate, additiveClassWords)
			candFood := hasWordFrom(candidate, foodClassWords)
			keyAdditive := hasWordFrom(key, additiveClassWords)
			keyFood := hasWordFrom(key, foodClassWords)
			if candAdditive && keyFood {
				return false
			}
			if candFood && keyAdditive {
				return false
			}
			return true
		},
	},
	{
		// Coffee/cocoa context must not collapse onto a bare "bean"
		// key (or the reverse) except at near-identity.
		name: "coffee-vs-bean",
		valid: func(candidate, key string, score int) bool {
			if score >= 98 {
				return true
			}
			candCoffee := hasWordFrom(candidate, coffeeContextWords)
			keyCoffee := hasWordFrom(key, coffeeContextWords)
			candBean := isBareBean(candidate)
			keyBean := isBareBean(key)
			if candCoffee && keyBean {
				return false
			}
			if candBean && keyCoffee {
				return false
			}
			return true
		},
	},
}

func hasWordFrom(s string, vocabulary map[string]struct{}) bool {
	for _, w := range textutil.Words(s) {
		if _, ok := vocabulary[w]; ok {
			return true
		}
	}
	return false
}

func isBareBean(s string) bool {
	for _, w := range textutil.Words(s) {
		if w != "bean" && w != "beans" {
			return false
		}
	}
	return len(textutil.Words(s)) > 0
}

func makeSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// specificFoodWords name a concrete food; a fuzzy key missing the word
// is suspect. Stored diacritic-folded.
var specificFoodWords = makeSet(
	"grepfruit", "grapefruit", "portocala", "orange", "lamaie", "lemon",
	"morcov", "carrot", "cartof", "potato", "rosie", "tomato", "ceapa", "onion",
	"usturoi", "garlic", "piper", "pepper", "ardei", "chili", "boia", "paprika",
)

// additiveClassWords mark chemical/additive naming stems.
var additiveClassWords = makeSet(
	"acid", "acidic", "citric", "malic", "tartaric", "fumaric", "adipic",
	"succinic", "gluconic", "lactic", "acetic", "fosforic", "sulfuric",
	"clorhidric", "hidroxid", "carbonat", "bicarbonat", "fosfat", "glutamat",
	"inosinat", "guanylat", "ribonucleotide", "alginat", "carragenan",
	"agar", "guma", "xantan", "guar", "locust", "gellan",
	"celuloza", "metilceluloza", "carboximetilceluloza", "benzoat",
	"sorbat", "propionat", "nitrit", "nitrat", "aspartam", "sacharina",
	"acesulfam", "sucraloza", "neotam", "advantam", "ciclamat",
)

// foodClassWords mark whole-food naming stems.
var foodClassWords = makeSet(
	"mar", "apple", "banana", "portocala", "orange", "strugure", "grape",
	"capsuna", "strawberry", "afina", "blueberry", "zmeura", "raspberry",
	"mura", "blackberry", "visina", "cherry", "piersica", "peach",
	"para", "pear", "pruna", "plum", "caisa", "apricot",
	"nectarina", "nectarine", "mango", "ananas", "pineapple", "kiwi",
	"papaya", "guava", "fructul", "fruit", "rosie", "tomato",
	"castravete", "cucumber", "morcov", "carrot", "ceapa", "onion",
	"usturoi", "garlic", "cartof", "potato", "ardei", "broccoli",
	"conopida", "cauliflower", "varza", "cabbage", "spanac", "spinach",
	"salata", "lettuce", "rucola", "arugula", "sparanghel", "asparagus",
	"anghinare", "artichoke", "telina", "celery", "fenicul", "fennel",
	"praz", "leek", "salota", "shallot", "arpagic", "chive",
	"orez", "rice", "grau", "wheat", "ovaz", "oats", "orz", "barley",
	"quinoa", "mei", "millet", "hrisca", "buckwheat", "secara", "rye",
	"porumb", "corn", "migdala", "almond", "nuca", "walnut",
	"caju", "cashew", "arahida", "peanut", "pistachiu", "pistachio",
	"pecan", "macadamia", "aluna", "hazelnut", "castana", "chestnut",
	"seminte", "seed", "fasole", "bean", "linte", "lentil",
	"naut", "chickpea", "soia", "soybean", "mazare", "pea",
	"lapte", "milk", "smantana", "cream", "ou", "egg",
	"pui", "chicken", "vita", "beef", "porc", "pork",
	"miel", "lamb", "curcan", "turkey", "peste", "fish",
	"somon", "salmon", "ton", "tuna", "cod", "creveti", "shrimp",
	"rac", "crab", "homar", "lobster", "midii", "mussel",
	"stridie", "oyster", "calamar", "squid", "caracatita", "octopus",
	"sepie", "cuttlefish", "melc", "snail",
)

// coffeeContextWords flag coffee or cocoa context around "bean".
var coffeeContextWords = makeSet(
	"coffee", "cafea", "espresso", "cocoa", "cacao",
)
