package worldmap

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Positional and possessive decorations that prose attaches to place names.
// Stripping them lets "entrance of Ironhold" or "王都の近くで" resolve to the
// bare location. Prefixes and suffixes are checked longest-first.
var (
	decorationPrefixes = []string{
		"entrance of ",
		"outskirts of ",
		"the edge of ",
		"inside of ",
		"outside of ",
		"inside ",
		"outside ",
		"near ",
		"the ",
	}

	decorationSuffixes = []string{
		"の近くで",
		"の入り口で",
		"の入り口",
		"の入口",
		"の近く",
		"の中で",
		"のそばで",
		"のそば",
		"の中",
		"の前",
		"の外れ",
		"のあたり",
		"付近",
		"周辺",
		"にて",
		" entrance",
		" outskirts",
		" gate",
	}
)

// Narrative scene phrases that denote a situation rather than a place on the
// map. Names matching these are exempt from strict resolution failure.
var descriptivePhrases = []string{
	"焚火", "焚き火", "キャンプ", "野営",
	"船の上", "船上", "甲板",
	"教室", "夢の中", "馬車の中", "道中",
	"around the fire", "around the campfire", "the campfire",
	"aboard the ship", "on deck",
	"in the classroom", "in a dream", "on the road",
}

var (
	caseFolder  = cases.Fold()
	widthFolder = width.Fold
)

// NormalizeName canonicalizes a free-text place name: trim, fold case and
// character width, and strip positional decorations until none remain.
func NormalizeName(name string) string {
	s := strings.TrimSpace(name)
	s = widthFolder.String(s)
	s = caseFolder.String(s)
	s = strings.TrimSpace(s)

	for changed := true; changed; {
		changed = false
		for _, p := range decorationPrefixes {
			if strings.HasPrefix(s, p) && len(s) > len(p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				changed = true
			}
		}
		for _, suf := range decorationSuffixes {
			if strings.HasSuffix(s, suf) && len(s) > len(suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				changed = true
			}
		}
	}
	return s
}

// IsDescriptivePhrase reports whether the raw name reads as a narrative scene
// ("gathered around the fire") rather than a mappable place.
func IsDescriptivePhrase(name string) bool {
	folded := caseFolder.String(widthFolder.String(name))
	for _, p := range descriptivePhrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// ResolvedLocation is a successful name resolution: the location and the
// scale it was found at.
type ResolvedLocation struct {
	Location Location
	Level    MapLevel
}

// ResolveName matches a free-text name against every scale of the system, in
// world → region → local order, trying exact normalized match first, then
// substring containment, then keywords from location descriptions.
func ResolveName(system *WorldMapSystem, name string) *ResolvedLocation {
	query := NormalizeName(name)
	if query == "" {
		return nil
	}

	levels := []MapLevel{LevelWorld, LevelRegion, LevelLocal}

	for _, level := range levels {
		for _, loc := range system.LocationsAt(level) {
			if NormalizeName(loc.Name) == query {
				return &ResolvedLocation{Location: loc, Level: level}
			}
		}
	}

	for _, level := range levels {
		for _, loc := range system.LocationsAt(level) {
			candidate := NormalizeName(loc.Name)
			if candidate == "" {
				continue
			}
			if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
				return &ResolvedLocation{Location: loc, Level: level}
			}
		}
	}

	for _, level := range levels {
		for _, loc := range system.LocationsAt(level) {
			desc := caseFolder.String(widthFolder.String(loc.Description))
			if desc != "" && strings.Contains(desc, query) {
				return &ResolvedLocation{Location: loc, Level: level}
			}
		}
	}

	return nil
}

// SuggestNames scores every known location name against the query and returns
// up to max of the closest, for "did you mean" correction hints. Substring
// containment scores +10; shared characters score one point each.
func SuggestNames(system *WorldMapSystem, name string, max int) []string {
	query := NormalizeName(name)
	if query == "" {
		return nil
	}

	type scored struct {
		name  string
		score int
	}
	var candidates []scored
	seen := make(map[string]bool)

	for _, level := range []MapLevel{LevelWorld, LevelRegion, LevelLocal} {
		for _, loc := range system.LocationsAt(level) {
			if seen[loc.Name] {
				continue
			}
			seen[loc.Name] = true

			candidate := NormalizeName(loc.Name)
			score := 0
			if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
				score += 10
			}
			score += sharedRuneCount(query, candidate)
			if score > 0 {
				candidates = append(candidates, scored{name: loc.Name, score: score})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.name)
	}
	return names
}

func sharedRuneCount(a, b string) int {
	inA := make(map[rune]bool)
	for _, r := range a {
		inA[r] = true
	}
	count := 0
	counted := make(map[rune]bool)
	for _, r := range b {
		if inA[r] && !counted[r] {
			counted[r] = true
			count++
		}
	}
	return count
}
