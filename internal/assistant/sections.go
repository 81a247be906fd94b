package assistant

import (
	"slices"
	"strings"
)

type sectionRule struct {
	keywords []string
	sections []string
}

// sectionRules route a question to the résumé sections that answer it. Matching
// is by substring on the lowercased question, so "skill" also hits "skills".
var sectionRules = []sectionRule{
	{[]string{"cwmd", "counter", "wmd", "weapon"}, []string{SectionSkills, SectionExperience, SectionProjects}},
	{[]string{"cbrn", "chemical", "biological", "nuclear", "radiological"}, []string{SectionSkills, SectionExperience, SectionExecutiveSummary}},
	{[]string{"emergency", "management", "homeland", "dhs"}, []string{SectionSkills, SectionExperience, SectionProjects}},
	{[]string{"experience", "background", "work"}, []string{SectionExperience, SectionExecutiveSummary}},
	{[]string{"skill", "expert", "proficien", "capabil"}, []string{SectionSkills, SectionStrengths}},
	{[]string{"education", "training", "degree", "certificat", "course"}, []string{SectionEducation, SectionCertifications}},
	{[]string{"project", "case", "accomplish", "achiev"}, []string{SectionProjects, SectionExperience}},
	{[]string{"strength", "strong", "good at"}, []string{SectionStrengths}},
	{[]string{"gap", "weakness", "develop", "improv", "learn"}, []string{SectionDevelopment, SectionGaps, SectionLearningPlan}},
	{[]string{"role", "suited", "fit", "job", "position"}, []string{SectionExecutiveSummary, SectionSkills, SectionExperience, SectionStrengths}},
	{[]string{"interagency", "coordination", "stakeholder"}, []string{SectionExperience, SectionProjects, SectionSkills}},
	{[]string{"ai", "ml", "machine learning", "artificial intelligence", "technology"}, []string{SectionEducation, SectionSkills, SectionDevelopment}},
}

var defaultSections = []string{SectionExecutiveSummary, SectionSkills, SectionExperience}

// RelevantSections returns the sections a question most likely concerns, in
// first-match order without duplicates.
func RelevantSections(question string) []string {
	q := strings.ToLower(question)
	var out []string
	for _, rule := range sectionRules {
		if !slices.ContainsFunc(rule.keywords, func(k string) bool { return strings.Contains(q, k) }) {
			continue
		}
		for _, s := range rule.sections {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return slices.Clone(defaultSections)
	}
	return out
}
