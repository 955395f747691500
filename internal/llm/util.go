package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a completion. Models wrap
// JSON in ``` fences often enough that every payload goes through this
// before decoding.
func CleanJSONBlock(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		if isFenceLanguage(strings.TrimSpace(trimmed[:nl])) {
			trimmed = trimmed[nl+1:]
		}
	}
	if end := strings.LastIndex(trimmed, "```"); end >= 0 {
		trimmed = trimmed[:end]
	}
	return strings.TrimSpace(trimmed)
}

// isFenceLanguage reports whether the first fence line is a language tag
// ("json", "javascript", ...) rather than payload content.
func isFenceLanguage(line string) bool {
	if line == "" {
		return true
	}
	return len(line) < 20 && !strings.ContainsAny(line, " {[")
}
