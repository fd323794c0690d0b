// Package review defines the core data types for AI review conversations.
package review

import "sync/atomic"

// Severity classifies an assistant comment, ordered by increasing urgency.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuggestion
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuggestion:
		return "suggestion"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the display label for the severity.
func (s Severity) Label() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeveritySuggestion:
		return "Suggestion"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an iconographic hint for renderers. The core attaches no
// meaning to the value.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuggestion:
		return "sparkle"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "x-circle"
	default:
		return "info"
	}
}

// Role identifies who authored a comment.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleAssistant {
		return "assistant"
	}
	return "user"
}

// CommentID uniquely identifies a comment for the process lifetime.
type CommentID uint64

// ThreadID uniquely identifies a thread for the process lifetime.
type ThreadID uint64

// IDSource hands out monotonically increasing identifiers starting at 1.
// Implementations must be safe for concurrent use.
type IDSource interface {
	Next() uint64
}

type atomicIDSource struct {
	n atomic.Uint64
}

func (a *atomicIDSource) Next() uint64 {
	return a.n.Add(1)
}

// NewIDSource returns an atomic IDSource counting from 1.
func NewIDSource() IDSource {
	return &atomicIDSource{}
}
