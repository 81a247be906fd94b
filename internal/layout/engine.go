package layout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/portfolio/internal/types"
)

// Page geometry and typography, in points.
const (
	Margin     = 54.0
	LineHeight = 14.0

	nameSize    = 20.0
	titleSize   = 12.0
	headerSize  = 12.0
	roleSize    = 11.0
	bodySize    = 10.0
	bulletGlyph = "•"

	defaultBulletIndent = 8.0
	outcomeIndent       = 16.0
	hangingIndent       = 10.0
)

// engine holds the cursor for one render. It is discarded afterwards.
type engine struct {
	s            Surface
	pageWidth    float64
	pageHeight   float64
	contentWidth float64
	y            float64
}

// Render draws r onto s, adding pages as needed. Empty sections and empty
// optional fields are left out. It returns the surface's error, if any.
func Render(s Surface, r *types.Resume) error {
	if r == nil {
		return fmt.Errorf("resume is nil")
	}
	w, h := s.PageSize()
	e := &engine{s: s, pageWidth: w, pageHeight: h, contentWidth: w - 2*Margin, y: Margin}
	s.AddPage()

	e.header(&r.Personal)
	e.executiveSummary(r.ExecutiveSummary)
	e.skills(r.Skills.Categories)
	e.experience(r.Experience)
	e.education(r.Education)
	e.certifications(r.Certifications)
	e.projects(r.Projects)

	return s.Err()
}

// ensureSpace starts a new page when n more points would cross the bottom margin.
func (e *engine) ensureSpace(n float64) {
	if e.y+n > e.pageHeight-Margin {
		e.s.AddPage()
		e.y = Margin
	}
}

func (e *engine) font(style FontStyle, size float64) {
	e.s.SetFont(style, size)
	e.s.SetTextColor(black)
}

func (e *engine) sectionHeader(title string) {
	e.ensureSpace(40)
	e.y += 16
	e.font(StyleBold, headerSize)
	e.s.Text(Margin, e.y, strings.ToUpper(title))
	e.y += 4
	e.s.Line(Margin, e.y, e.pageWidth-Margin, e.y, 0.5)
	e.y += 12
}

// line draws a single unwrapped line and advances by advance.
func (e *engine) line(style FontStyle, size, x float64, text string, advance float64) {
	if text == "" {
		return
	}
	e.font(style, size)
	e.s.Text(x, e.y, text)
	e.y += advance
}

func (e *engine) bodyText(text string, indent float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	e.font(StyleNormal, bodySize)
	for _, l := range e.s.SplitText(text, e.contentWidth-indent) {
		e.ensureSpace(LineHeight)
		e.s.Text(Margin+indent, e.y, l)
		e.y += LineHeight
	}
}

func (e *engine) bulletPoint(text string, indent float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	e.font(StyleNormal, bodySize)
	bulletX := Margin + indent
	textX := bulletX + hangingIndent
	for i, l := range e.s.SplitText(text, e.contentWidth-indent-hangingIndent) {
		e.ensureSpace(LineHeight)
		if i == 0 {
			e.s.Text(bulletX, e.y, bulletGlyph)
		}
		e.s.Text(textX, e.y, l)
		e.y += LineHeight
	}
}

func (e *engine) header(p *types.Personal) {
	e.line(StyleBold, nameSize, Margin, strings.ToUpper(p.Name), 24)
	e.line(StyleNormal, titleSize, Margin, p.Title, 16)
	e.line(StyleNormal, bodySize, Margin, joinPresent(" | ", p.Location, p.Email, p.Phone), LineHeight)
	if p.LinkedIn != "" {
		e.s.SetFont(StyleNormal, bodySize)
		e.s.SetTextColor(linkBlue)
		e.s.Text(Margin, e.y, p.LinkedIn)
		e.s.SetTextColor(black)
		e.y += LineHeight
	}
}

func (e *engine) executiveSummary(items []string) {
	if !anyPresent(items) {
		return
	}
	e.sectionHeader("Executive Summary")
	for _, item := range items {
		e.bulletPoint(item, defaultBulletIndent)
	}
}

func (e *engine) skills(categories []types.SkillCategory) {
	if len(categories) == 0 {
		return
	}
	e.sectionHeader("Skills")
	for _, c := range categories {
		e.ensureSpace(30)
		e.line(StyleBold, bodySize, Margin, c.Name, LineHeight)

		entries := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			entries = append(entries, fmt.Sprintf("%s (%s, %dy)", s.Name, s.Proficiency, s.Years))
		}
		e.bodyText(strings.Join(entries, ", "), defaultBulletIndent)
		e.y += 4
	}
}

func (e *engine) experience(roles []types.Experience) {
	if len(roles) == 0 {
		return
	}
	e.sectionHeader("Professional Experience")
	for _, x := range roles {
		e.ensureSpace(60)
		e.line(StyleBold, roleSize, Margin, x.Title, LineHeight)
		e.line(StyleNormal, bodySize, Margin,
			joinPresent(" | ", x.Organization, x.Location, joinPresent(" - ", x.StartDate, x.EndDate)), LineHeight)

		e.bodyText(x.MissionContext, 0)
		for _, r := range x.Responsibilities {
			e.bulletPoint(r, defaultBulletIndent)
		}
		if anyPresent(x.Outcomes) {
			e.ensureSpace(20)
			e.line(StyleItalic, bodySize, Margin+8, "Key Outcomes:", 12)
			for _, o := range x.Outcomes {
				e.bulletPoint(o, outcomeIndent)
			}
		}
		e.y += 8
	}
}

func (e *engine) education(entries []types.Education) {
	if len(entries) == 0 {
		return
	}
	e.sectionHeader("Education & Certifications")
	for _, ed := range entries {
		e.ensureSpace(40)
		e.line(StyleBold, bodySize, Margin, ed.Title, LineHeight)
		e.line(StyleNormal, bodySize, Margin, joinPresent(" | ", ed.Institution, ed.Location, ed.CompletionDate), LineHeight)
		e.bodyText(ed.Description, 0)
		e.y += 4
	}
}

func (e *engine) certifications(certs []types.Certification) {
	if len(certs) == 0 {
		return
	}
	e.ensureSpace(30)
	e.line(StyleBold, bodySize, Margin, "Certifications:", LineHeight)
	for _, c := range certs {
		e.bulletPoint(certificationLine(c), defaultBulletIndent)
	}
}

func (e *engine) projects(projects []types.Project) {
	if len(projects) == 0 {
		return
	}
	e.sectionHeader("Key Projects")
	for _, p := range projects {
		e.ensureSpace(50)
		e.line(StyleBold, bodySize, Margin, p.Title, LineHeight)
		if p.Role != "" {
			e.line(StyleItalic, bodySize, Margin, "Role: "+p.Role, 12)
		}
		if p.Problem != "" {
			e.bodyText("Challenge: "+p.Problem, 0)
		}
		if p.Approach != "" {
			e.bodyText("Approach: "+p.Approach, 0)
		}
		if p.Outcome != "" {
			e.bodyText("Outcome: "+p.Outcome, 0)
		}
		if len(p.Tools) > 0 {
			e.bodyText("Tools: "+strings.Join(p.Tools, ", "), 0)
		}
		e.y += 8
	}
}

func certificationLine(c types.Certification) string {
	s := c.Name
	if c.Issuer != "" {
		s += " - " + c.Issuer
	}
	if c.Date != "" {
		s += " (" + c.Date + ")"
	}
	return s
}

// joinPresent joins the non-empty parts with sep.
func joinPresent(sep string, parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, sep)
}

func anyPresent(items []string) bool {
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName derives the download name from the subject's display name.
func FileName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_") + "_Resume.pdf"
}
