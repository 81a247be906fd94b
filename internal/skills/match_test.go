package skills

import (
	"testing"

	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchJob(t *testing.T) {
	categories := []types.SkillCategory{
		{Name: "Technical", Skills: []types.Skill{
			{Name: "Go", Proficiency: types.ProficiencyWorking, Years: 3},
			{Name: "C++", Proficiency: types.ProficiencyFoundational, Years: 1},
			{Name: "GIS Mapping", Proficiency: types.ProficiencyAdvanced, Years: 8},
		}},
		{Name: "Operations", Skills: []types.Skill{
			{Name: "go", Proficiency: types.ProficiencyAdvanced, Years: 2},
			{Name: "Logistics", Proficiency: types.ProficiencyWorking, Years: 6},
		}},
	}

	matches := MatchJob(categories, "We need GIS-mapping, Go and C++ experience. Logistics a plus!")
	require.Len(t, matches, 4)

	assert.Equal(t, "GIS Mapping", matches[0].Name)
	assert.Equal(t, "go", matches[1].Name, "duplicate keeps the stronger entry")
	assert.Equal(t, "Operations", matches[1].Category)
	assert.Equal(t, "Logistics", matches[2].Name)
	assert.Equal(t, "C++", matches[3].Name)
}

func TestMatchJob_WholeWordsOnly(t *testing.T) {
	categories := []types.SkillCategory{{Name: "T", Skills: []types.Skill{{Name: "Go"}, {Name: "R"}}}}

	assert.Empty(t, MatchJob(categories, "Good governance and reporting"))
	assert.Empty(t, MatchJob(nil, "anything"))
}
