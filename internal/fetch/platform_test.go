package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://job-boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://www.usajobs.gov/job/123456", PlatformUSAJobs},
		{"https://notgreenhouse.io.example.com/job", PlatformUnknown},
		{"https://example.com/careers", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestRulesFor(t *testing.T) {
	gh := rulesFor(PlatformGreenhouse)
	assert.Equal(t, ".job__description", gh.content[0])
	assert.Contains(t, gh.content, "main", "generic selectors are appended")
	assert.Contains(t, gh.noise, "form")

	unknown := rulesFor(PlatformUnknown)
	assert.Equal(t, genericRules.content, unknown.content)
}
