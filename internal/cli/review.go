package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/source"
	"github.com/tmorell/revpanel/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [commit-range]",
	Short: "Open an interactive review panel",
	Long: `Open the interactive review panel. With --file and --lines, reviews a
selection from a single file. Otherwise reviews a git diff, one thread
per hunk: the working tree against HEAD by default, or an explicit
commit range.

Examples:
  revpanel review --file main.go --lines 10:42    # file selection
  revpanel review                                 # working tree vs HEAD
  revpanel review main...HEAD                     # branch vs main
  git diff | revpanel review -                    # pipe any diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("file", "f", "", "file to review a selection from")
	reviewCmd.Flags().StringP("lines", "l", "", "selected lines, start:end inclusive")
	reviewCmd.Flags().StringP("question", "q", "", "question to ask about the code")
	addModelFlags(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	selections, err := captureSelections(cmd, args, cfg.ContextLines)
	if err != nil {
		return err
	}
	if len(selections) == 0 {
		fmt.Println("No changes to review.")
		return nil
	}

	question, _ := cmd.Flags().GetString("question")

	s := newSession(cfg)
	for _, sel := range selections {
		s.Request(sel, question)
	}

	return tui.Run(s)
}

// captureSelections builds the reviewable selections for the review and ask
// commands: one from a file selection, or one per diff hunk.
func captureSelections(cmd *cobra.Command, args []string, contextLines int) ([]review.CodeSelection, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		lines, _ := cmd.Flags().GetString("lines")
		start, end, err := parseLines(lines)
		if err != nil {
			return nil, err
		}
		sel, err := source.FromFile(file, start, end, contextLines)
		if err != nil {
			return nil, err
		}
		return []review.CodeSelection{sel}, nil
	}

	raw, err := getDiff(args, contextLines)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return source.FromDiff(raw)
}

// parseLines parses the --lines flag, either "start:end" or a single line
// number. The user-facing range is inclusive; the selection range is
// half-open.
func parseLines(raw string) (start, end int, err error) {
	if raw == "" {
		return 0, 0, fmt.Errorf("--lines is required with --file")
	}
	if strings.Contains(raw, ":") {
		if _, err := fmt.Sscanf(raw, "%d:%d", &start, &end); err != nil {
			return 0, 0, fmt.Errorf("invalid --lines %q, expected start:end", raw)
		}
	} else {
		if _, err := fmt.Sscanf(raw, "%d", &start); err != nil {
			return 0, 0, fmt.Errorf("invalid --lines %q, expected start:end", raw)
		}
		end = start
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid --lines %q, expected 1 <= start <= end", raw)
	}
	return start, end + 1, nil
}

func getDiff(args []string, contextLines int) (string, error) {
	// Read from stdin if "-" is passed
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	repoDir, err := source.GitRepoRoot()
	if err != nil {
		return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	if len(args) == 1 {
		return source.GitDiffRange(repoDir, args[0], contextLines)
	}

	return source.GitDiffWorktree(repoDir, contextLines)
}
