// Package fetch retrieves job postings by URL and reduces them to plain text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PortfolioBot/1.0)"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 4 << 20

// MaxPostingChars caps the posting text handed to the model.
const MaxPostingChars = 20000

// Page is a fetched document and the text extracted from it.
type Page struct {
	URL        string
	HTML       string
	Text       string
	Platform   Platform
	StatusCode int
	Rendered   bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxBytes   int64
	UseBrowser bool
	Verbose    bool
	// AllowPrivate permits loopback and private network hosts. Only for
	// local development and tests.
	AllowPrivate bool
	Client       *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	if o.AllowPrivate {
		return &http.Client{Timeout: o.Timeout}
	}
	return publicOnlyClient(o.Timeout)
}

// renderPage is swapped in tests so the browser path can run without Chrome.
var renderPage = Render

// Get retrieves the raw HTML at urlStr. A non-200 status returns the page
// together with an *Error.
func Get(ctx context.Context, urlStr string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := opts.httpClient().Do(req)
	if errors.Is(err, ErrForbiddenAddress) {
		return nil, &Error{URL: urlStr, Message: "host is not publicly reachable", Cause: err}
	}
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:        urlStr,
		HTML:       string(body),
		Platform:   DetectPlatform(urlStr),
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// Posting fetches a job posting and extracts its description. When the static
// HTML yields too little text and the browser is enabled, the page is rendered
// in headless Chrome and extracted again.
func Posting(ctx context.Context, urlStr string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	page, err := Get(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	rules := rulesFor(page.Platform)
	page.Text, err = ExtractText(page.HTML, rules.content, rules.noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if opts.UseBrowser && NeedsBrowser(page.Text) {
		if opts.Verbose {
			log.Printf("[fetch] %s yielded %d chars, rendering in browser", urlStr, len(page.Text))
		}
		html, err := renderPage(ctx, urlStr, opts.Timeout, opts.Verbose)
		if err != nil {
			log.Printf("[fetch] browser render failed for %s: %v", urlStr, err)
		} else if text, err := ExtractText(html, rules.content, rules.noise...); err == nil && len(text) > len(page.Text) {
			page.HTML = html
			page.Text = text
			page.Rendered = true
		}
	}

	if strings.TrimSpace(page.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "no job description found"}
	}
	page.Text = truncate(page.Text, MaxPostingChars)
	return page, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
