package review

import (
	"fmt"
	"path/filepath"
)

// LineRange is a 1-indexed, inclusive-exclusive range of lines.
type LineRange struct {
	Start int
	End   int
}

// Count returns the number of lines in the range, never negative.
func (r LineRange) Count() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// AnchorRange references a byte range in the live buffer a selection was
// captured from. It is not revalidated after capture and goes stale if the
// buffer is edited.
type AnchorRange struct {
	Start int
	End   int
}

// CodeSelection is an immutable snapshot of a reviewed region.
type CodeSelection struct {
	FilePath     string
	Language     string // "" if unknown
	SelectedText string
	Context      string // selection padded by surrounding lines
	Lines        LineRange
	Anchors      *AnchorRange
}

// LineCount returns the number of selected lines.
func (s CodeSelection) LineCount() int {
	return s.Lines.Count()
}

// Summary returns a short "file:start-end" label for the selection.
func (s CodeSelection) Summary() string {
	return fmt.Sprintf("%s:%d-%d", filepath.Base(s.FilePath), s.Lines.Start, s.Lines.End)
}

// Comment is a single turn in a review thread.
type Comment struct {
	ID            CommentID
	Role          Role
	Content       string
	Severity      *Severity // assistant comments only, may still be absent
	SuggestedCode string    // "" if none
}

// Thread is one review conversation anchored to a code selection.
// Comments is never empty: the first comment is always the user's
// initiating question.
type Thread struct {
	ID        ThreadID
	Selection CodeSelection
	Comments  []Comment
	Loading   bool
	Resolved  bool
	Collapsed bool

	commentIDs IDSource
}

// NewThread creates a thread in the loading state with the user's initial
// question as its first comment. Comment ids are drawn from ids.
func NewThread(id ThreadID, ids IDSource, selection CodeSelection, question string) *Thread {
	t := &Thread{
		ID:         id,
		Selection:  selection,
		Loading:    true,
		commentIDs: ids,
	}
	t.Comments = append(t.Comments, Comment{
		ID:      CommentID(ids.Next()),
		Role:    RoleUser,
		Content: question,
	})
	return t
}

// AddUserComment appends a user turn and marks the thread loading.
func (t *Thread) AddUserComment(content string) {
	t.Comments = append(t.Comments, Comment{
		ID:      CommentID(t.commentIDs.Next()),
		Role:    RoleUser,
		Content: content,
	})
	t.Loading = true
}

// AddAIResponse appends an assistant turn and clears the loading state.
// suggestedCode may be empty.
func (t *Thread) AddAIResponse(content string, severity Severity, suggestedCode string) {
	t.Comments = append(t.Comments, Comment{
		ID:            CommentID(t.commentIDs.Next()),
		Role:          RoleAssistant,
		Content:       content,
		Severity:      &severity,
		SuggestedCode: suggestedCode,
	})
	t.Loading = false
}

// SetLoading overrides the loading flag.
func (t *Thread) SetLoading(loading bool) {
	t.Loading = loading
}

// Resolve marks the thread resolved. Idempotent.
func (t *Thread) Resolve() {
	t.Resolved = true
}

// ToggleCollapsed flips the collapsed flag.
func (t *Thread) ToggleCollapsed() {
	t.Collapsed = !t.Collapsed
}

// LastSeverity returns the severity of the most recent comment that carries
// one. Only assistant comments carry severity, so this is the latest verdict.
func (t *Thread) LastSeverity() (Severity, bool) {
	for i := len(t.Comments) - 1; i >= 0; i-- {
		if t.Comments[i].Severity != nil {
			return *t.Comments[i].Severity, true
		}
	}
	return 0, false
}

// HasSuggestions reports whether any comment carries suggested code.
func (t *Thread) HasSuggestions() bool {
	for _, c := range t.Comments {
		if c.SuggestedCode != "" {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the thread safe to read outside the owner's
// lock. The comments slice is copied; comment contents are immutable.
func (t *Thread) Snapshot() Thread {
	cp := *t
	cp.Comments = make([]Comment, len(t.Comments))
	copy(cp.Comments, t.Comments)
	cp.commentIDs = nil
	return cp
}
