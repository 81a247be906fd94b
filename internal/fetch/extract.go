package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// commonNoise is removed from every page before extraction.
const commonNoise = "nav, footer, header, script, style, noscript, svg, iframe, .ad, .advertisement, .sidebar, .cookie-banner, .popup"

// ExtractText parses HTML, strips noise, and returns the text of the first
// matching content selector. It falls back to the body element.
func ExtractText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(commonNoise).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	// Block elements would otherwise run their text together.
	main.Find("p, li, h1, h2, h3, h4, br, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(main.Text()), nil
}

// cleanWhitespace trims each line, collapses inner runs of spaces, and drops
// blank lines.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
