package matching

import (
	"strings"
)

// Sport tags the league/discipline detected in a market title.
type Sport string

const (
	SportUnknown    Sport = ""
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "american_football"
	SportBaseball   Sport = "baseball"
	SportHockey     Sport = "ice_hockey"
	SportSoccer     Sport = "soccer"
)

// TitleKind classifies what the extractor found in a market title.
type TitleKind int

const (
	// KindNoTeams means zero or ambiguous participants: the title is not
	// matchable as a sports event.
	KindNoTeams TitleKind = iota
	// KindSingleTeam means exactly one known participant (futures/prop style
	// markets such as "Lakers to win the championship").
	KindSingleTeam
	// KindTwoTeams means a head-to-head game listing.
	KindTwoTeams
)

// Extraction is the parse result for one market title.
type Extraction struct {
	Sport Sport
	Home  string
	Away  string
	Kind  TitleKind
	// Prop flags player-prop vocabulary in the title. Prop markets are
	// excluded from game matching even when two team names are present, so a
	// points total never pairs with a moneyline.
	Prop bool
}

// Participants returns the extracted names in order, omitting empties.
func (e Extraction) Participants() []string {
	switch e.Kind {
	case KindTwoTeams:
		return []string{e.Home, e.Away}
	case KindSingleTeam:
		return []string{e.Home}
	default:
		return nil
	}
}

// TeamDirectory maps a cleaned team name to its sport. Used both for
// single-participant lookup and for sport inference.
type TeamDirectory map[string]Sport

// DefaultTeams returns the built-in directory of league team names.
// Keys are in Clean() form.
func DefaultTeams() TeamDirectory {
	dir := make(TeamDirectory, 128)

	add := func(sport Sport, names ...string) {
		for _, name := range names {
			dir[name] = sport
		}
	}

	add(SportBasketball,
		"lakers", "warriors", "celtics", "heat", "bucks", "nuggets", "suns",
		"mavericks", "76ers", "knicks", "nets", "clippers", "grizzlies",
		"kings", "cavaliers", "thunder", "timberwolves", "pelicans",
		"raptors", "bulls", "hawks", "magic", "pacers", "rockets", "spurs",
		"jazz", "trail blazers", "hornets", "pistons", "wizards")
	add(SportFootball,
		"chiefs", "bills", "eagles", "49ers", "cowboys", "packers", "ravens",
		"lions", "bengals", "dolphins", "jets", "steelers", "patriots")
	add(SportBaseball,
		"yankees", "dodgers", "red sox", "cubs", "astros", "braves")
	add(SportHockey,
		"maple leafs", "oilers", "bruins", "avalanche")
	add(SportSoccer,
		"man united", "man city", "real madrid", "barcelona", "liverpool",
		"arsenal", "chelsea", "bayern munich", "juventus", "psg")

	return dir
}

// separators in priority order. Matched case-insensitively on the cleaned
// title, so "Warriors — Lakers" splits the same as "Warriors vs Lakers".
var titleSeparators = []string{" vs ", " versus ", " v ", " at "}

// propKeywords mark player-prop and award vocabulary. Any hit disqualifies
// the title from game classification (precision over recall).
var propKeywords = []string{
	"over", "under", "points", "rebounds", "assists", "steals", "blocks",
	"touchdowns", "yards", "goalscorer", "mvp", "rookie", "coach",
	"triple double", "double double", "award", "draft",
}

// leagueKeywords infer a sport from league mentions in the title.
var leagueKeywords = map[string]Sport{
	"nba":            SportBasketball,
	"ncaa":           SportBasketball,
	"nfl":            SportFootball,
	"super bowl":     SportFootball,
	"mlb":            SportBaseball,
	"world series":   SportBaseball,
	"nhl":            SportHockey,
	"stanley cup":    SportHockey,
	"premier league": SportSoccer,
	"la liga":        SportSoccer,
	"champions league": SportSoccer,
}

// Extractor parses free-text market titles into sport and participants.
type Extractor struct {
	teams   TeamDirectory
	aliases AliasTable
}

// NewExtractor creates an extractor backed by the given team directory and
// alias table. Both are read-only after construction.
func NewExtractor(teams TeamDirectory, aliases AliasTable) *Extractor {
	return &Extractor{teams: teams, aliases: aliases}
}

// Extract parses a title. Best effort: a missed extraction degrades to
// KindNoTeams and an unmatched listing, never to a wrong match.
func (e *Extractor) Extract(title string) Extraction {
	cleaned := Clean(title)
	if cleaned == "" {
		return Extraction{Kind: KindNoTeams}
	}

	out := Extraction{
		Sport: e.detectSport(cleaned),
		Prop:  containsAny(cleaned, propKeywords),
	}

	// Explicit separator split takes precedence.
	if home, away, ok := splitOnSeparator(cleaned); ok {
		out.Home = e.canonical(home)
		out.Away = e.canonical(away)
		out.Kind = KindTwoTeams
		if out.Sport == SportUnknown {
			out.Sport = e.sportOf(out.Home, out.Away)
		}
		return out
	}

	// No separator: scan for known team names.
	found := e.findKnownTeams(cleaned)
	switch len(found) {
	case 1:
		out.Home = found[0]
		out.Kind = KindSingleTeam
	case 2:
		out.Home = found[0]
		out.Away = found[1]
		out.Kind = KindTwoTeams
	default:
		out.Kind = KindNoTeams
	}
	if out.Sport == SportUnknown && out.Kind != KindNoTeams {
		out.Sport = e.sportOf(out.Home, out.Away)
	}
	return out
}

// canonical reduces a raw participant to its alias form when known.
func (e *Extractor) canonical(name string) string {
	if e.aliases != nil {
		if alias, ok := e.aliases[name]; ok {
			return alias
		}
	}
	return name
}

func (e *Extractor) detectSport(cleaned string) Sport {
	padded := " " + cleaned + " "
	for keyword, sport := range leagueKeywords {
		if strings.Contains(padded, " "+keyword+" ") {
			return sport
		}
	}
	return SportUnknown
}

// sportOf infers the sport from the participants when the title itself did
// not name a league. Conflicting inferences yield unknown.
func (e *Extractor) sportOf(names ...string) Sport {
	sport := SportUnknown
	for _, name := range names {
		if name == "" {
			continue
		}
		s, ok := e.teams[name]
		if !ok {
			continue
		}
		if sport != SportUnknown && sport != s {
			return SportUnknown
		}
		sport = s
	}
	return sport
}

// findKnownTeams returns distinct directory teams mentioned in the title, in
// order of first appearance.
func (e *Extractor) findKnownTeams(cleaned string) []string {
	padded := " " + cleaned + " "

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for name := range e.teams {
		idx := strings.Index(padded, " "+name+" ")
		if idx >= 0 {
			hits = append(hits, hit{name: name, pos: idx})
		}
	}

	// Order of first appearance keeps extraction deterministic regardless of
	// map iteration order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	// Drop names contained inside an earlier, longer hit ("trail blazers"
	// already covers "blazers"-style overlaps).
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		contained := false
		for _, existing := range names {
			if strings.Contains(existing, h.name) {
				contained = true
				break
			}
		}
		if !contained {
			names = append(names, h.name)
		}
	}
	return names
}

func splitOnSeparator(cleaned string) (home, away string, ok bool) {
	// Clean() already collapsed punctuation, so dashes and @ arrive as plain
	// spaces only when they were attached to words; the word separators below
	// survive cleaning.
	for _, sep := range titleSeparators {
		idx := strings.Index(cleaned, sep)
		if idx <= 0 {
			continue
		}
		home = strings.TrimSpace(cleaned[:idx])
		away = strings.TrimSpace(cleaned[idx+len(sep):])
		if home != "" && away != "" {
			return home, away, true
		}
	}
	return "", "", false
}

func containsAny(cleaned string, keywords []string) bool {
	padded := " " + cleaned + " "
	for _, kw := range keywords {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}
