// Package types provides type definitions for structured data used throughout the portfolio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Proficiency is a skill tier.
type Proficiency string

const (
	ProficiencyFoundational Proficiency = "Foundational"
	ProficiencyWorking      Proficiency = "Working"
	ProficiencyAdvanced     Proficiency = "Advanced"
)

// Score maps a tier to its numeric weight. Unrecognized tiers score as Foundational.
func (p Proficiency) Score() int {
	switch p {
	case ProficiencyAdvanced:
		return 3
	case ProficiencyWorking:
		return 2
	default:
		return 1
	}
}

// Resume is the complete structured résumé stored as a single JSON document.
// Field names match the stored content and must not change.
type Resume struct {
	Personal         Personal        `json:"personal"`
	MissionStatement string          `json:"missionStatement"`
	SkillChips       []string        `json:"skillChips"`
	ExecutiveSummary []string        `json:"executiveSummary"`
	Skills           SkillsTaxonomy  `json:"skills"`
	Experience       []Experience    `json:"experience"`
	Education        []Education     `json:"education"`
	Certifications   []Certification `json:"certifications"`
	Projects         []Project       `json:"projects"`
	Strengths        []string        `json:"strengths"`
	DevelopmentAreas []string        `json:"developmentAreas"`
	Gaps             []Gap           `json:"gaps"`
	LearningPlan     []LearningItem  `json:"learningPlan"`

	// Editor-managed lists the backend passes through untouched.
	Publications json.RawMessage `json:"publications,omitempty"`
	Speaking     json.RawMessage `json:"speaking,omitempty"`
	Awards       json.RawMessage `json:"awards,omitempty"`
}

// Personal holds contact and headline details.
type Personal struct {
	Name              string `json:"name"`
	Title             string `json:"title"`
	Organization      string `json:"organization"`
	Location          string `json:"location"`
	Email             string `json:"email"`
	LinkedIn          string `json:"linkedin"`
	Phone             string `json:"phone"`
	Availability      string `json:"availability"`
	TravelWillingness string `json:"travelWillingness"`
	Clearance         string `json:"clearance"`
}

// SkillsTaxonomy is the ordered list of skill categories.
type SkillsTaxonomy struct {
	Categories []SkillCategory `json:"categories"`
}

// SkillCategory groups skills under a display name.
type SkillCategory struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// Skill is a single named skill with a proficiency tier.
type Skill struct {
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
	Years       int         `json:"years"`
}

// Experience is one role in the work history.
type Experience struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Organization     string   `json:"organization"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	MissionContext   string   `json:"missionContext"`
	Responsibilities []string `json:"responsibilities"`
	Outcomes         []string `json:"outcomes"`
}

// Education is a degree, course or training entry.
type Education struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	CompletionDate string `json:"completionDate"`
	Status         string `json:"status"`
	Description    string `json:"description"`
}

// Certification is a professional credential.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Project is a selected project write-up.
type Project struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Problem  string   `json:"problem"`
	Role     string   `json:"role"`
	Approach string   `json:"approach"`
	Outcome  string   `json:"outcome"`
	Tools    []string `json:"tools"`
}

// Gap pairs a capability gap with its mitigation.
type Gap struct {
	Gap        string `json:"gap"`
	Mitigation string `json:"mitigation"`
}

// LearningItem is one entry of the development plan.
type LearningItem struct {
	Item       string `json:"item"`
	TargetDate string `json:"targetDate"`
	Status     string `json:"status"`
}

// ParseResume decodes a résumé document.
func ParseResume(data []byte) (*Resume, error) {
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
