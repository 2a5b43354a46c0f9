package matching

import (
	"strings"
	"unicode"
)

// AliasTable maps normalized participant names to their canonical short form
// (typically city+mascot to mascot-only). Loaded once at startup and shared
// by reference; the normalizer never mutates it.
type AliasTable map[string]string

// DefaultAliases returns the built-in alias table covering the major US
// leagues plus a handful of international club names that show up with
// different surface forms across platforms.
func DefaultAliases() AliasTable {
	return AliasTable{
		// NBA
		"los angeles lakers":     "lakers",
		"la lakers":              "lakers",
		"golden state warriors":  "warriors",
		"boston celtics":         "celtics",
		"miami heat":             "heat",
		"milwaukee bucks":        "bucks",
		"denver nuggets":         "nuggets",
		"phoenix suns":           "suns",
		"dallas mavericks":       "mavericks",
		"philadelphia 76ers":     "76ers",
		"new york knicks":        "knicks",
		"brooklyn nets":          "nets",
		"los angeles clippers":   "clippers",
		"la clippers":            "clippers",
		"memphis grizzlies":      "grizzlies",
		"sacramento kings":       "kings",
		"cleveland cavaliers":    "cavaliers",
		"oklahoma city thunder":  "thunder",
		"minnesota timberwolves": "timberwolves",
		"new orleans pelicans":   "pelicans",
		"toronto raptors":        "raptors",
		"chicago bulls":          "bulls",
		"atlanta hawks":          "hawks",
		"orlando magic":          "magic",
		"indiana pacers":         "pacers",
		"houston rockets":        "rockets",
		"san antonio spurs":      "spurs",
		"utah jazz":              "jazz",
		"portland trail blazers": "trail blazers",
		"charlotte hornets":      "hornets",
		"detroit pistons":        "pistons",
		"washington wizards":     "wizards",

		// NFL
		"kansas city chiefs":   "chiefs",
		"buffalo bills":        "bills",
		"philadelphia eagles":  "eagles",
		"san francisco 49ers":  "49ers",
		"dallas cowboys":       "cowboys",
		"green bay packers":    "packers",
		"baltimore ravens":     "ravens",
		"detroit lions":        "lions",
		"cincinnati bengals":   "bengals",
		"miami dolphins":       "dolphins",
		"new york jets":        "jets",
		"new york giants":      "giants",
		"pittsburgh steelers":  "steelers",
		"new england patriots": "patriots",

		// MLB
		"new york yankees":    "yankees",
		"los angeles dodgers": "dodgers",
		"boston red sox":      "red sox",
		"chicago cubs":        "cubs",
		"houston astros":      "astros",
		"atlanta braves":      "braves",

		// NHL
		"toronto maple leafs": "maple leafs",
		"edmonton oilers":     "oilers",
		"boston bruins":       "bruins",
		"new york rangers":    "rangers",
		"colorado avalanche":  "avalanche",

		// Soccer
		"manchester united": "man united",
		"manchester city":   "man city",
		"real madrid cf":    "real madrid",
		"fc barcelona":      "barcelona",
	}
}

// Normalizer canonicalizes participant and event names for comparison.
type Normalizer struct {
	aliases AliasTable
}

// NewNormalizer creates a normalizer with the given alias table.
// A nil table disables alias substitution.
func NewNormalizer(aliases AliasTable) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize lower-cases, strips punctuation, collapses whitespace and applies
// the alias table. The result is the canonical comparison form of a name.
func (n *Normalizer) Normalize(name string) string {
	cleaned := Clean(name)
	if n.aliases != nil {
		if alias, ok := n.aliases[cleaned]; ok {
			return alias
		}
	}
	return cleaned
}

// Clean lower-cases a string, replaces punctuation with spaces and collapses
// runs of whitespace. It is the alias-free half of normalization, shared with
// the entity extractor.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
