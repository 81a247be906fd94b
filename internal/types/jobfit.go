package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinJobDescriptionLength is the shortest job description accepted for analysis.
const MinJobDescriptionLength = 10

// JobFitRequest carries either a pasted job description or a posting URL.
type JobFitRequest struct {
	JobDescription string `json:"jobDescription,omitempty"`
	JobURL         string `json:"jobUrl,omitempty" validate:"omitempty,url"`
}

// Validate validates the JobFitRequest. A URL alone is enough; otherwise the
// description must be at least MinJobDescriptionLength characters after trimming.
func (r *JobFitRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.JobURL == "" && len(strings.TrimSpace(r.JobDescription)) < MinJobDescriptionLength {
		return ErrJobDescriptionTooShort
	}
	return nil
}

// CategoryScores breaks the overall fit down by area.
type CategoryScores struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
}

// JobFitAnalysis is the structured result of a job-fit evaluation.
type JobFitAnalysis struct {
	OverallScore   int            `json:"overallScore"`
	CategoryScores CategoryScores `json:"categoryScores"`
	Strengths      []string       `json:"strengths"`
	Gaps           []string       `json:"gaps"`
	TalkingPoints  []string       `json:"talkingPoints"`
	Summary        string         `json:"summary"`
}

// Clamp forces every score into 0-100 and replaces nil lists with empty ones.
func (a *JobFitAnalysis) Clamp() {
	a.OverallScore = clampScore(a.OverallScore)
	a.CategoryScores.Skills = clampScore(a.CategoryScores.Skills)
	a.CategoryScores.Experience = clampScore(a.CategoryScores.Experience)
	a.CategoryScores.Education = clampScore(a.CategoryScores.Education)
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Gaps == nil {
		a.Gaps = []string{}
	}
	if a.TalkingPoints == nil {
		a.TalkingPoints = []string{}
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RadarBreakdown counts skills per proficiency tier.
type RadarBreakdown struct {
	Advanced     int `json:"advanced"`
	Working      int `json:"working"`
	Foundational int `json:"foundational"`
}

// RadarDataPoint is one axis of the skills radar chart.
type RadarDataPoint struct {
	Category     string         `json:"category"`
	FullCategory string         `json:"fullCategory"`
	Value        float64        `json:"value"`
	FullMark     int            `json:"fullMark"`
	SkillCount   int            `json:"skillCount"`
	Breakdown    RadarBreakdown `json:"breakdown"`
}
