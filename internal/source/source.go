// Package source captures reviewable code selections from files and diffs.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmorell/revpanel/internal/review"
)

// ErrEmptySelection is returned when the requested region contains no
// non-whitespace text. Empty selections never produce a thread.
var ErrEmptySelection = errors.New("selection is empty")

// FromFile captures a selection of lines [startLine, endLine) from a file,
// padding the context by contextLines on each side clamped to the file
// bounds. Line numbers are 1-indexed. The selection carries byte anchors
// for the selected region within the file as read.
func FromFile(path string, startLine, endLine, contextLines int) (review.CodeSelection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return review.CodeSelection{}, fmt.Errorf("reading %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if startLine < 1 {
		startLine = 1
	}
	if endLine <= startLine {
		endLine = startLine + 1
	}
	if startLine > len(lines) {
		return review.CodeSelection{}, fmt.Errorf("line %d past end of %s (%d lines)", startLine, path, len(lines))
	}
	if endLine > len(lines)+1 {
		endLine = len(lines) + 1
	}

	selected := strings.Join(lines[startLine-1:endLine-1], "\n")
	if strings.TrimSpace(selected) == "" {
		return review.CodeSelection{}, ErrEmptySelection
	}

	ctxStart := startLine - contextLines
	if ctxStart < 1 {
		ctxStart = 1
	}
	ctxEnd := endLine + contextLines
	if ctxEnd > len(lines)+1 {
		ctxEnd = len(lines) + 1
	}
	context := strings.Join(lines[ctxStart-1:ctxEnd-1], "\n")

	offset := 0
	for _, l := range lines[:startLine-1] {
		offset += len(l) + 1
	}

	return review.CodeSelection{
		FilePath:     path,
		Language:     Language(path),
		SelectedText: selected,
		Context:      context,
		Lines:        review.LineRange{Start: startLine, End: endLine},
		Anchors:      &review.AnchorRange{Start: offset, End: offset + len(selected)},
	}, nil
}
