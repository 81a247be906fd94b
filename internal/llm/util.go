package llm

import "strings"

// CleanJSONBlock removes markdown code fences from a JSON response and trims
// any prose around the outermost object.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the fence line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			if tag := text[:idx]; len(tag) < 20 && !strings.ContainsAny(tag, " {") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}
	return text
}
