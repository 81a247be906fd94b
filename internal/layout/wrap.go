package layout

import "strings"

// wrapText greedily fills lines up to width. Explicit newlines start a new
// line, blank lines are dropped, and a word wider than a whole line is broken
// between characters.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			for measure(word) > width && len([]rune(word)) > 1 {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				head, tail := splitToWidth(word, width, measure)
				lines = append(lines, head)
				word = tail
			}
			if cur == "" {
				cur = word
				continue
			}
			if candidate := cur + " " + word; measure(candidate) <= width {
				cur = candidate
			} else {
				lines = append(lines, cur)
				cur = word
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// splitToWidth returns the longest prefix of word that fits, at least one rune.
func splitToWidth(word string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
