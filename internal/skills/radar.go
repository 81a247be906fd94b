// Package skills derives chart data and job matches from the résumé skills taxonomy.
package skills

import (
	"math"

	"github.com/jonathan/portfolio/internal/types"
)

// FullMark is the top of the radar scale.
const FullMark = 3

// shortNames maps long category names to chart labels.
var shortNames = map[string]string{
	"CWMD & Counterproliferation":            "CWMD",
	"CBRN Defense & Operations":              "CBRN Defense",
	"Incident & Emergency Management":        "Emergency Mgmt",
	"Military Operations & Planning":         "Military Ops",
	"Intelligence & Analysis":                "Intelligence",
	"Leadership & Coordination":              "Leadership",
	"Training & Doctrine Development":        "Training",
	"Communication & Stakeholder Engagement": "Communication",
	"Technical & Scientific Literacy":        "Technical",
	"Strategic Planning & Policy":            "Strategy",
	"Organizational & Administrative":        "Admin",
}

// ShortName returns the chart label for a category, or the name itself.
func ShortName(category string) string {
	if s, ok := shortNames[category]; ok {
		return s
	}
	return category
}

// Radar computes one data point per category in input order. The value is the
// mean proficiency score rounded to two decimals, 0 for an empty category.
func Radar(categories []types.SkillCategory) []types.RadarDataPoint {
	points := make([]types.RadarDataPoint, 0, len(categories))
	for _, c := range categories {
		var breakdown types.RadarBreakdown
		total := 0
		for _, s := range c.Skills {
			total += s.Proficiency.Score()
			switch s.Proficiency {
			case types.ProficiencyAdvanced:
				breakdown.Advanced++
			case types.ProficiencyWorking:
				breakdown.Working++
			default:
				breakdown.Foundational++
			}
		}

		avg := 0.0
		if len(c.Skills) > 0 {
			avg = float64(total) / float64(len(c.Skills))
		}

		points = append(points, types.RadarDataPoint{
			Category:     ShortName(c.Name),
			FullCategory: c.Name,
			Value:        math.Round(avg*100) / 100,
			FullMark:     FullMark,
			SkillCount:   len(c.Skills),
			Breakdown:    breakdown,
		})
	}
	return points
}
