package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUSAJobs    Platform = "usajobs"
	PlatformUnknown    Platform = "unknown"
)

type platformRules struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

// applicationNoise covers apply forms and EEO blocks shared by most boards.
var applicationNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".self-identification",
	".social-share",
	".cookie-consent",
}

var genericRules = platformRules{
	platform: PlatformUnknown,
	content: []string{
		".job-description",
		"#job-description",
		".job-details",
		".posting-content",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	},
	noise: applicationNoise,
}

var knownPlatforms = []platformRules{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description", "#content", ".job-post-container"},
		noise:    append([]string{".voluntary-self-id", "#usa_self_id_section"}, applicationNoise...),
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".content"},
		noise:    append([]string{".posting-apply", ".apply-section"}, applicationNoise...),
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
		noise:    append([]string{"[data-automation-id='applyButton']"}, applicationNoise...),
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"._descriptionText", "[class*='descriptionText']", "main"},
		noise:    applicationNoise,
	},
	{
		platform: PlatformUSAJobs,
		hosts:    []string{"usajobs.gov"},
		content:  []string{"#duties", ".usajobs-joa-main", "main"},
		noise:    append([]string{".usajobs-joa-apply"}, applicationNoise...),
	},
}

// DetectPlatform identifies the job board from the URL host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range knownPlatforms {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

func rulesFor(p Platform) platformRules {
	for _, r := range knownPlatforms {
		if r.platform == p {
			// Generic selectors still apply when a board changes its markup.
			r.content = append(append([]string{}, r.content...), genericRules.content...)
			return r
		}
	}
	return genericRules
}
