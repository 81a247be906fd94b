package skills

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/portfolio/internal/types"
)

// Match is a résumé skill that a job text mentions.
type Match struct {
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Proficiency types.Proficiency `json:"proficiency"`
	Years       int               `json:"years"`
}

// MatchJob returns the skills from categories whose names appear in text as
// whole words, case-insensitively. Duplicates by normalized name keep the
// strongest entry. Results are sorted by proficiency, then years, then name.
func MatchJob(categories []types.SkillCategory, text string) []Match {
	haystack := " " + normalize(text) + " "
	best := make(map[string]Match)

	for _, c := range categories {
		for _, s := range c.Skills {
			key := normalize(s.Name)
			if key == "" || !strings.Contains(haystack, " "+key+" ") {
				continue
			}
			m := Match{Name: s.Name, Category: c.Name, Proficiency: s.Proficiency, Years: s.Years}
			if existing, ok := best[key]; ok && !stronger(m, existing) {
				continue
			}
			best[key] = m
		}
	}

	matches := make([]Match, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Proficiency.Score() != matches[j].Proficiency.Score() ||
			matches[i].Years != matches[j].Years {
			return stronger(matches[i], matches[j])
		}
		return matches[i].Name < matches[j].Name
	})
	return matches
}

func stronger(a, b Match) bool {
	if a.Proficiency.Score() != b.Proficiency.Score() {
		return a.Proficiency.Score() > b.Proficiency.Score()
	}
	return a.Years > b.Years
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)

// normalize lowercases s and collapses punctuation and whitespace to single spaces.
func normalize(s string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(s), " "))
}
