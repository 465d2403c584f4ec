package services

import (
	"regexp"
	"strings"

	"github.com/apetrei/foodscore/backend/pkg/textutil"
)

// Blacklist rejects generic, role-only and process-description terms
// before they reach matching or the language model, and again after
// classification in case the model echoes one back as a canonical name.
type Blacklist struct {
	terms    map[string]struct{}
	patterns []*regexp.Regexp
	phrases  []string
}

// NewBlacklist builds the curated rule set. Terms are matched exactly,
// patterns as prefixes, phrases as substrings, all on the diacritic-
// folded lowercase form.
func NewBlacklist() *Blacklist {
	terms := make(map[string]struct{}, len(blacklistTerms))
	for _, t := range blacklistTerms {
		terms[t] = struct{}{}
	}

	patterns := make([]*regexp.Regexp, 0, len(blacklistPatterns))
	for _, p := range blacklistPatterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}

	return &Blacklist{
		terms:    terms,
		patterns: patterns,
		phrases:  invalidPhrases,
	}
}

// Rejects reports whether a candidate must never become an ingredient.
// Empty input is rejected.
func (b *Blacklist) Rejects(candidate string) bool {
	folded := textutil.FoldDiacritics(strings.ToLower(strings.TrimSpace(candidate)))
	if folded == "" {
		return true
	}

	if _, ok := b.terms[folded]; ok {
		return true
	}

	for _, re := range b.patterns {
		if re.MatchString(folded) {
			return true
		}
	}

	for _, phrase := range b.phrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}

	return false
}

// blacklistTerms are exact matches. Grouped by what they describe, not
// alphabetically, so additions land next to their kin.
var blacklistTerms = []string{
	// process descriptions
	"prajita", "prajite", "praji", "fried", "pasteurizat", "pasteurize",
	"obtinut", "obtinute", "presare", "presat", "presate",
	"concentrat", "concentrate", "concentrated",
	"purificat", "purificata", "purified",
	"obtinut din", "obtinut prin",
	"prajire", "incalzire", "macinate", "vopsit", "vopsita",

	// label boilerplate
	"nu contine alergeni", "poate contine urme de", "poate contine urme",
	"produs in", "produs pasteurizat", "produs in ue",
	"origine din", "tara de provenienta",
	"in special", "in special a",
	"nuante", "nuante de", "culoarea", "culoarea rosie", "culoarea naturala",
	"continut de fructe", "continut",
	"valoare energetica", "valori nutritionale", "nutritional values",
	"alte valori", "alte valori nutritionale",
	"atmosfera protectoare", "certificat ecologic", "eticheta de calitate ecologica",
	"norme reglementate", "inspectii regulate", "din ue", "din u.e.",

	// packaging and non-food materials
	"hartie", "paie", "plase", "packaging", "ambalaj",
	"folie termosudata", "caserola", "sticla",

	// generic categories
	"cereale", "cereale integrale", "legume", "minerale", "minerals",
	"vitamine", "vitamin", "vitamins", "vitamin e",
	"fructe", "fructe cu coaja", "fructe cu coaja lemnoasa",
	"substante nutritive", "aditivi", "organs", "seafood", "seafood mix",
	"fruit mix", "dehydrated vegetables", "vegetable fats", "vegetable fiber",
	"animal protein", "animal proteins",

	// bare minerals from nutrition panels
	"magneziu", "magnesium", "zinc", "fier", "iron", "fosfor", "phosphorus",

	// role-only additive names
	"coloranti", "colorants", "colorant", "vopsea", "vopsele",
	"emulsifiant", "emulsifianti", "emulsifiers",
	"agent de ingrosare", "agent de umezare", "agent", "foaming agent",
	"corector de aciditate", "corector",
	"conservant", "conservanti", "preservatives", "preservative", "nitrogen",
	"stabilizator", "stabilizatori", "stabilizers", "stabilizer",
	"acidifianti", "acidity regulators", "acidity regulator",
	"regulator de aciditate", "regulator aciditate",
	"antioxidant", "antioxidants",
	"sweeteners", "sweetener", "humectant", "thickeners",
	"flavorings", "flavoring", "aroma", "arome",
	"smoke flavoring", "smoke flavor", "spice extract", "spice extracts",
	"leavening agents",
	"blend", "blend special", "mix",
	"ingrosare", "ngrosare",

	// too-generic staples; specific forms are kept ("mineral water")
	"apa", "apa potabila", "water",
	"wine", "vin",
	"ulei", "suc", "nectar",
	"oua", "ou", "eggs",
	"coffee", "tea", "ceai", "cola",
	"pasta", "pulpa", "piele", "skin", "femur", "os", "liver", "peel",
	"melasa", "slanina", "jambon", "carnati", "bio",

	// coffee bean marketing names
	"boabe robusta", "boabe arabica", "boabe prajite",
	"robusta", "arabica", "coffee beans", "robusta coffee beans",

	// compound descriptions that need extraction
	"flori de tei", "flori de hibiscus", "flori de musetel",
	"flori de lavanda", "flori din soc",
	"frunze de paducel", "rosemary leaves",
	"radacina de lemn dulce", "ierburi de provence",
	"crupe de ovaz", "fulgi de ovaz",
	"faina integrala de grau", "faina de grau", "faina",
	"grasime vegetala de palmier",
	"nectar de piersici", "suc de mandarine", "multifruit concentrate",
	"pulpa de vita", "carnea de vita", "carne vita", "burta de vita",
	"ficat de rata", "pipote", "pipote de rata", "inimi",
	"ciocolata", "ciocolata alba", "white chocolate", "ruby chocolate",
	"rata", "rata afumata", "smoked duck", "vita", "manzat",
	"grau", "triticale", "palmier",
	"musculatura", "spinari", "aripi", "aripioare", "copanele", "ciocanele",
	"pulpa de capsuni", "crema de vanilie",
	"pandispan", "biscuits", "biscuiti", "sponge cake", "wafers",
	"smoothie", "smoothie mix", "smoothie bowl",
	"whipped cream", "whipped cream powder", "peanut filling",
	"vanilla pasta", "tomato pasta", "pork cracklings", "fried seaweed",

	// specific compounds rejected as standalone entries
	"sodium polyphosphates", "propylene glycol", "anthocyanin",
	"carob gum", "calcium carbonate", "diphosphates", "invert sugar",
	"processed eucheuma seaweed", "curcumin",
	"polyglycerol esters of fatty acids", "sodium acetate", "gum arabic",
	"capsicum extract", "acetic acid esters", "carotene", "beta-carotene",
	"potassium citrates", "ammonium bicarbonate", "plant broth",
	"dextrin", "sodium lactate", "sorbitol syrup", "potassium chloride",
	"calcium lactate", "carmine", "beetroot red", "sodium erythorbate",
	"brilliant blue fcf", "fish roe",
}

// blacklistPatterns are prefix (or anchored) rejections.
var blacklistPatterns = []string{
	`^poate contine`,
	`^nu contine`,
	`^produs in`,
	`^origine`,
	`^tara de`,
	`^in special`,
	`^culoarea`,
	`^continut de`,
	`^obtinut`,
	`^purificat`,
	`^concentrat`,
	`^presare`,
	`^pasteurizat`,
	`^prajit`,
	`^timp\s+\d+`,
	`^maturat`,
	`^maturare`,
	`^flori de`,
	`^frunze`,
	`^radacina de`,
	`^boabe`,
	`^crupe de`,
	`^fulgi de`,
	`^faina`,
	`^grasime`,
	`^nectar de`,
	`^suc de`,
	`^pulpa de`,
	`^pasta de`,
	`^carnea de`,
	`^carne`,
	`^ficat de`,
	`^ciocolata`,
	`^agent de`,
	`^corector de`,
	`^regulator`,
	`^vitamin`,
	`^minerale`,
	`^cereale`,
	`^legume`,
	`^colorant`,
	`^emulsifiant`,
	`^conservant`,
	`^preservativ`,
	`^vopsea`,
	`^hartie`,
	`^paie`,
	`^plase`,
	`^apa potabila`,
	`^\d+\s+foi`,
	`^wine$`,
	`^vin$`,
	`^water$`,
	`^oua$`,
	`^ou$`,
	`^rata$`,
	`^vita$`,
	`^manzat$`,
	`\bproteins?\s+from\b`,
}

// invalidPhrases reject on substring presence anywhere in the term.
var invalidPhrases = []string{
	"contine", "nu contine", "poate contine",
	"produs", "origine", "tara de",
	"obtinut", "purificat", "concentrat",
	"culoarea", "nuante", "continut",
	"in special", "valori nutritionale",
	"delicatese", "delicatesa",
	"timp", "maturat",
	"aer si soare",
}
