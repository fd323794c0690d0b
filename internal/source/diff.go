package source

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/tmorell/revpanel/internal/review"
)

// FromDiff parses a unified diff and returns one selection per hunk. The
// selected text is the hunk's new side (context plus added lines); the
// context is the raw hunk including prefixes, so the model sees what was
// removed as well. Diff selections have no live buffer, so they carry no
// anchors.
func FromDiff(raw string) ([]review.CodeSelection, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	var selections []review.CodeSelection
	for _, f := range parsed {
		if f.IsBinary || f.IsDelete {
			continue
		}
		name := f.NewName
		if name == "" {
			name = f.OldName
		}

		for _, frag := range f.TextFragments {
			sel, ok := hunkSelection(name, frag)
			if ok {
				selections = append(selections, sel)
			}
		}
	}
	return selections, nil
}

func hunkSelection(name string, frag *gitdiff.TextFragment) (review.CodeSelection, bool) {
	var newSide []string
	var rawHunk strings.Builder

	for _, line := range frag.Lines {
		text := strings.TrimRight(line.Line, "\n\r")
		switch line.Op {
		case gitdiff.OpAdd:
			rawHunk.WriteString("+")
		case gitdiff.OpDelete:
			rawHunk.WriteString("-")
		default:
			rawHunk.WriteString(" ")
		}
		rawHunk.WriteString(text)
		rawHunk.WriteByte('\n')

		if line.Op == gitdiff.OpContext || line.Op == gitdiff.OpAdd {
			newSide = append(newSide, text)
		}
	}

	selected := strings.Join(newSide, "\n")
	if strings.TrimSpace(selected) == "" {
		return review.CodeSelection{}, false
	}

	start := int(frag.NewPosition)
	return review.CodeSelection{
		FilePath:     name,
		Language:     Language(name),
		SelectedText: selected,
		Context:      strings.TrimRight(rawHunk.String(), "\n"),
		Lines:        review.LineRange{Start: start, End: start + len(newSide)},
	}, true
}

// GitDiff runs `git diff` with the given arguments and returns the raw output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// GitDiffWorktree returns the diff of the working tree against HEAD.
func GitDiffWorktree(repoDir string, contextLines int) (string, error) {
	return GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), "HEAD")
}

// GitDiffRange returns the diff for a commit range like "main...HEAD".
func GitDiffRange(repoDir string, commitRange string, contextLines int) (string, error) {
	return GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), commitRange)
}

// GitRepoRoot returns the top-level directory of the enclosing repository.
func GitRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
