package review

import "strings"

// Trigger phrases per severity tier, checked in decreasing urgency.
// Any match within a tier suffices; the first matching tier wins.
var (
	errorTriggers      = []string{"error:", "bug", "security", "critical", "vulnerability"}
	warningTriggers    = []string{"warning:", "potential issue", "should consider", "might cause"}
	suggestionTriggers = []string{"suggestion:", "could be improved", "consider", "recommend"}
)

// DetectSeverity classifies a full model response. It is total: unmatched
// text is Info.
func DetectSeverity(response string) Severity {
	lower := strings.ToLower(response)

	if containsAny(lower, errorTriggers) {
		return SeverityError
	}
	if containsAny(lower, warningTriggers) {
		return SeverityWarning
	}
	if containsAny(lower, suggestionTriggers) {
		return SeveritySuggestion
	}
	return SeverityInfo
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExtractSuggestion returns the content of the first complete, non-empty
// fenced code block in a model response. Later blocks are ignored. A
// response with no closed non-empty fence yields ok == false.
func ExtractSuggestion(response string) (string, bool) {
	inBlock := false
	var codeLines []string
	found := false

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock && len(codeLines) > 0 {
				found = true
				break
			}
			inBlock = !inBlock
			codeLines = nil
			continue
		}
		if inBlock {
			codeLines = append(codeLines, line)
		}
	}

	if !found || len(codeLines) == 0 {
		return "", false
	}
	return strings.Join(codeLines, "\n"), true
}
