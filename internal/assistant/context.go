// Package assistant builds the grounded prompts behind the résumé chat and
// job-fit analysis and runs them against an llm.Client.
package assistant

import (
	"fmt"
	"strings"

	"github.com/jonathan/portfolio/internal/types"
)

// Section headings used in the résumé context. RelevantSections refers to
// sections by these names.
const (
	SectionPersonal         = "Personal Information"
	SectionMission          = "Mission Statement"
	SectionCompetencies     = "Core Competencies"
	SectionExecutiveSummary = "Executive Summary"
	SectionSkills           = "Skills Taxonomy"
	SectionExperience       = "Experience"
	SectionEducation        = "Education & Professional Development"
	SectionCertifications   = "Certifications"
	SectionProjects         = "Selected Projects"
	SectionStrengths        = "Strengths"
	SectionDevelopment      = "Development Areas"
	SectionGaps             = "Capability Gaps & Mitigation"
	SectionLearningPlan     = "Learning Plan"
)

// BuildContext renders the résumé as markdown sections for the model. Empty
// sections are skipped.
func BuildContext(r *types.Resume) string {
	var sections []string
	add := func(title, body string) {
		if strings.TrimSpace(body) != "" {
			sections = append(sections, "## "+title+"\n"+body)
		}
	}

	add(SectionPersonal, personalBlock(r.Personal))
	add(SectionMission, r.MissionStatement)
	add(SectionCompetencies, strings.Join(r.SkillChips, ", "))

	var summary []string
	for i, s := range r.ExecutiveSummary {
		summary = append(summary, fmt.Sprintf("%d. %s", i+1, s))
	}
	add(SectionExecutiveSummary, strings.Join(summary, "\n"))

	var cats []string
	for _, cat := range r.Skills.Categories {
		lines := []string{"### " + cat.Name}
		for _, s := range cat.Skills {
			lines = append(lines, fmt.Sprintf("- %s (%s, %d years)", s.Name, s.Proficiency, s.Years))
		}
		cats = append(cats, strings.Join(lines, "\n"))
	}
	add(SectionSkills, strings.Join(cats, "\n\n"))

	var roles []string
	for _, exp := range r.Experience {
		roles = append(roles, experienceBlock(exp))
	}
	add(SectionExperience, strings.Join(roles, "\n\n"))

	var edu []string
	for _, e := range r.Education {
		edu = append(edu, fmt.Sprintf("- %s (%s) - %s: %s", e.Title, e.Institution, e.Status, e.Description))
	}
	add(SectionEducation, strings.Join(edu, "\n"))

	var certs []string
	for _, c := range r.Certifications {
		certs = append(certs, fmt.Sprintf("- %s (%s) - %s, %s", c.Name, c.Issuer, c.Status, c.Date))
	}
	add(SectionCertifications, strings.Join(certs, "\n"))

	var projects []string
	for _, p := range r.Projects {
		tools := "N/A"
		if len(p.Tools) > 0 {
			tools = strings.Join(p.Tools, ", ")
		}
		projects = append(projects, fmt.Sprintf("### %s\nProblem: %s\nRole: %s\nApproach: %s\nOutcome: %s\nTools: %s",
			p.Title, p.Problem, p.Role, p.Approach, p.Outcome, tools))
	}
	add(SectionProjects, strings.Join(projects, "\n\n"))

	add(SectionStrengths, bullets(r.Strengths))
	add(SectionDevelopment, bullets(r.DevelopmentAreas))

	var gaps []string
	for _, g := range r.Gaps {
		gaps = append(gaps, fmt.Sprintf("- Gap: %s\n  Mitigation: %s", g.Gap, g.Mitigation))
	}
	add(SectionGaps, strings.Join(gaps, "\n"))

	var plan []string
	for _, item := range r.LearningPlan {
		plan = append(plan, fmt.Sprintf("- %s (target %s, %s)", item.Item, item.TargetDate, item.Status))
	}
	add(SectionLearningPlan, strings.Join(plan, "\n"))

	return strings.Join(sections, "\n\n")
}

func personalBlock(p types.Personal) string {
	var lines []string
	for _, f := range []struct{ label, value string }{
		{"Name", p.Name},
		{"Title", p.Title},
		{"Organization", p.Organization},
		{"Location", p.Location},
		{"Clearance", p.Clearance},
		{"Availability", p.Availability},
		{"Travel", p.TravelWillingness},
	} {
		if f.value != "" {
			lines = append(lines, f.label+": "+f.value)
		}
	}
	return strings.Join(lines, "\n")
}

func experienceBlock(exp types.Experience) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s at %s (%s - %s)", exp.Title, exp.Organization, exp.StartDate, exp.EndDate)
	if exp.MissionContext != "" {
		sb.WriteString("\nMission: " + exp.MissionContext)
	}
	if len(exp.Responsibilities) > 0 {
		sb.WriteString("\nResponsibilities:\n" + bullets(exp.Responsibilities))
	}
	if len(exp.Outcomes) > 0 {
		sb.WriteString("\nKey Outcomes:\n" + bullets(exp.Outcomes))
	}
	return sb.String()
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}
