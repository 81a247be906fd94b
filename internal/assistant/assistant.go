package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log"
	"math"
	"strings"

	"github.com/jonathan/portfolio/internal/llm"
	"github.com/jonathan/portfolio/internal/prompts"
	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
)

// JobFitTemperature keeps scoring stable across runs.
const JobFitTemperature = 0.3

// maxHints caps the matched skills listed in the job-fit prompt.
const maxHints = 15

var (
	// ErrNoResume is returned when no résumé has been stored yet.
	ErrNoResume = errors.New("failed to fetch resume data")
	// ErrUnparseableAnalysis is returned when the model's answer is not JSON.
	ErrUnparseableAnalysis = errors.New("failed to parse analysis results")
)

// Assistant answers questions about one résumé.
type Assistant struct {
	client llm.Client
}

// New creates an Assistant backed by client.
func New(client llm.Client) *Assistant {
	return &Assistant{client: client}
}

// ChatRequest builds the grounded completion request for a conversation.
func ChatRequest(r *types.Resume, messages []types.ChatMessage) (llm.Request, error) {
	question := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == types.RoleUser {
			question = messages[i].Content
			break
		}
	}

	name := r.Personal.Name
	if name == "" {
		name = "the candidate"
	}
	system, err := prompts.Render(prompts.ChatFile, "system", map[string]string{
		"Name":     name,
		"Context":  BuildContext(r),
		"Sections": strings.Join(RelevantSections(question), ", "),
	})
	if err != nil {
		return llm.Request{}, err
	}

	msgs := make([]llm.Message, len(messages))
	for i, m := range messages {
		msgs[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return llm.Request{System: system, Messages: msgs}, nil
}

// Chat streams the assistant's answer to the conversation.
func (a *Assistant) Chat(ctx context.Context, r *types.Resume, messages []types.ChatMessage) iter.Seq2[string, error] {
	req, err := ChatRequest(r, messages)
	if err != nil {
		return func(yield func(string, error) bool) { yield("", err) }
	}
	return a.client.Stream(ctx, req)
}

// JobFitRequest builds the completion request for a job-fit analysis.
func JobFitRequest(r *types.Resume, jobDescription string) (llm.Request, error) {
	system, err := prompts.Render(prompts.JobFitFile, "system", map[string]string{})
	if err != nil {
		return llm.Request{}, err
	}
	user, err := prompts.Render(prompts.JobFitFile, "user", map[string]string{
		"Context":        BuildContext(r),
		"JobDescription": strings.TrimSpace(jobDescription),
		"Hints":          matchHints(r, jobDescription),
	})
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		Temperature: llm.Temperature(JobFitTemperature),
		JSON:        true,
	}, nil
}

// matchHints lists profile skills named in the posting so the model weighs
// them. It is empty when nothing matches.
func matchHints(r *types.Resume, jobDescription string) string {
	matches := skills.MatchJob(r.Skills.Categories, jobDescription)
	if len(matches) == 0 {
		return ""
	}
	if len(matches) > maxHints {
		matches = matches[:maxHints]
	}
	lines := []string{"", "## Profile skills named in the posting:"}
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %d years, %s)", m.Name, m.Proficiency, m.Years, m.Category))
	}
	return strings.Join(lines, "\n") + "\n\n---\n"
}

// AnalyzeFit scores the résumé against a job description.
func (a *Assistant) AnalyzeFit(ctx context.Context, r *types.Resume, jobDescription string) (*types.JobFitAnalysis, error) {
	req, err := JobFitRequest(r, jobDescription)
	if err != nil {
		return nil, err
	}

	log.Printf("[job-fit] requesting analysis from %s", a.client.Model())
	content, err := a.client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[job-fit] response received: %s", preview(content, 200))

	analysis, err := ParseAnalysis(content)
	if err != nil {
		log.Printf("[job-fit] failed to parse response: %v", err)
		return nil, err
	}
	return analysis, nil
}

// rawAnalysis accepts fractional scores, which some models return.
type rawAnalysis struct {
	OverallScore   float64 `json:"overallScore"`
	CategoryScores struct {
		Skills     float64 `json:"skills"`
		Experience float64 `json:"experience"`
		Education  float64 `json:"education"`
	} `json:"categoryScores"`
	Strengths     []string `json:"strengths"`
	Gaps          []string `json:"gaps"`
	TalkingPoints []string `json:"talkingPoints"`
	Summary       string   `json:"summary"`
}

// ParseAnalysis decodes a model response into a clamped JobFitAnalysis.
func ParseAnalysis(content string) (*types.JobFitAnalysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableAnalysis, err)
	}
	analysis := &types.JobFitAnalysis{
		OverallScore: roundScore(raw.OverallScore),
		CategoryScores: types.CategoryScores{
			Skills:     roundScore(raw.CategoryScores.Skills),
			Experience: roundScore(raw.CategoryScores.Experience),
			Education:  roundScore(raw.CategoryScores.Education),
		},
		Strengths:     raw.Strengths,
		Gaps:          raw.Gaps,
		TalkingPoints: raw.TalkingPoints,
		Summary:       raw.Summary,
	}
	analysis.Clamp()
	return analysis, nil
}

func roundScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(-1, math.Min(v, 101))))
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
