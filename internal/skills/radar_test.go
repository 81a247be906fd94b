package skills

import (
	"testing"

	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadar(t *testing.T) {
	categories := []types.SkillCategory{
		{
			Name: "Leadership & Coordination",
			Skills: []types.Skill{
				{Name: "Mentoring", Proficiency: types.ProficiencyAdvanced},
				{Name: "Planning", Proficiency: types.ProficiencyWorking},
				{Name: "Budgeting", Proficiency: types.ProficiencyFoundational},
			},
		},
		{
			Name: "Field Work",
			Skills: []types.Skill{
				{Name: "Sampling", Proficiency: types.ProficiencyAdvanced},
				{Name: "Mapping", Proficiency: "Expert"},
			},
		},
		{Name: "Empty", Skills: nil},
	}

	points := Radar(categories)
	require.Len(t, points, 3)

	assert.Equal(t, types.RadarDataPoint{
		Category:     "Leadership",
		FullCategory: "Leadership & Coordination",
		Value:        2,
		FullMark:     3,
		SkillCount:   3,
		Breakdown:    types.RadarBreakdown{Advanced: 1, Working: 1, Foundational: 1},
	}, points[0])

	assert.Equal(t, "Field Work", points[1].Category)
	assert.Equal(t, 2.0, points[1].Value)
	assert.Equal(t, 1, points[1].Breakdown.Foundational, "unknown tiers count as foundational")

	assert.Equal(t, 0.0, points[2].Value)
	assert.Equal(t, 0, points[2].SkillCount)
}

func TestRadar_RoundsToTwoDecimals(t *testing.T) {
	points := Radar([]types.SkillCategory{{
		Name: "Mixed",
		Skills: []types.Skill{
			{Proficiency: types.ProficiencyAdvanced},
			{Proficiency: types.ProficiencyWorking},
			{Proficiency: types.ProficiencyWorking},
		},
	}})
	assert.Equal(t, 2.33, points[0].Value)
}

func TestRadar_Empty(t *testing.T) {
	assert.Empty(t, Radar(nil))
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Emergency Mgmt", ShortName("Incident & Emergency Management"))
	assert.Equal(t, "Admin", ShortName("Organizational & Administrative"))
	assert.Equal(t, "Cooking", ShortName("Cooking"))
}
