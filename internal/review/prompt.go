package review

import (
	"fmt"
	"strings"
)

// Temperature is the fixed sampling temperature for review requests.
const Temperature = 0.3

// DefaultQuestion is used when a review is requested with an empty input.
const DefaultQuestion = "Please review this code and provide feedback on potential improvements, issues, or best practices."

// BuildPrompt assembles the single-message review prompt for a thread.
// Section order is a contract: custom instructions, reviewer persona and
// guidelines, language, file and line bounds, context block, selected code
// block, the user's questions in thread order, trailing cue.
func BuildPrompt(t *Thread, customPrompt string) string {
	var b strings.Builder

	if customPrompt != "" {
		b.WriteString(customPrompt)
		b.WriteString("\n\n")
	}

	b.WriteString("You are an expert code reviewer. Analyze the following code and provide constructive feedback.\n\n")

	b.WriteString("## Guidelines:\n")
	b.WriteString("- Focus on code quality, potential bugs, and best practices\n")
	b.WriteString("- Provide specific, actionable suggestions\n")
	b.WriteString("- If you suggest code changes, provide the improved code\n")
	b.WriteString("- Be concise but thorough\n")
	b.WriteString("- Categorize your feedback by severity: Error (bugs/security issues), Warning (potential problems), Suggestion (improvements), or Info (explanations)\n\n")

	if t.Selection.Language != "" {
		fmt.Fprintf(&b, "## Language: %s\n\n", t.Selection.Language)
	}

	fmt.Fprintf(&b, "## File: %s (lines %d-%d)\n\n",
		t.Selection.FilePath, t.Selection.Lines.Start, t.Selection.Lines.End-1)

	b.WriteString("## Context (surrounding code):\n```\n")
	b.WriteString(t.Selection.Context)
	b.WriteString("\n```\n\n")

	b.WriteString("## Selected code to review:\n```\n")
	b.WriteString(t.Selection.SelectedText)
	b.WriteString("\n```\n\n")

	b.WriteString("## User's question/request:\n")
	for _, c := range t.Comments {
		if c.Role == RoleUser {
			b.WriteString(c.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Your review:\n")

	return b.String()
}
