package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmorell/revpanel/internal/review"
)

var askCmd = &cobra.Command{
	Use:   "ask [commit-range]",
	Short: "Run one review round and print the result (non-interactive)",
	Long: `Run a single review round without opening the panel. Takes the same
selection flags as review. Useful for scripting and CI.

Examples:
  revpanel ask --file main.go --lines 10:42 -q "is this thread safe?"
  git diff | revpanel ask -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("file", "f", "", "file to review a selection from")
	askCmd.Flags().StringP("lines", "l", "", "selected lines, start:end inclusive")
	askCmd.Flags().StringP("question", "q", "", "question to ask about the code")
	askCmd.Flags().Bool("json", false, "emit JSON instead of text")
	addModelFlags(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
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
	changes, cancel := s.Subscribe()
	defer cancel()

	for _, sel := range selections {
		s.Request(sel, question)
	}

	// Wait for every dispatched review to reach its terminal comment.
	for anyLoading(s.Threads()) {
		<-changes
	}

	threads := s.Threads()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printAskJSON(threads)
	}

	for i, t := range threads {
		if i > 0 {
			fmt.Println()
		}
		printThread(t)
	}

	if hadError(threads) {
		os.Exit(1)
	}
	return nil
}

func anyLoading(threads []review.Thread) bool {
	for _, t := range threads {
		if t.Loading {
			return true
		}
	}
	return false
}

func hadError(threads []review.Thread) bool {
	for _, t := range threads {
		if sev, ok := t.LastSeverity(); ok && sev == review.SeverityError {
			return true
		}
	}
	return false
}

func printThread(t review.Thread) {
	fmt.Printf("== %s ==\n", t.Selection.Summary())
	for _, c := range t.Comments {
		if c.Role != review.RoleAssistant {
			continue
		}
		if c.Severity != nil {
			fmt.Printf("[%s] ", c.Severity.Label())
		}
		fmt.Println(c.Content)
		if c.SuggestedCode != "" {
			fmt.Println("\nSuggested code:")
			fmt.Println(c.SuggestedCode)
		}
	}
}

type askResult struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Severity  string `json:"severity,omitempty"`
	Review    string `json:"review"`
	Suggested string `json:"suggested_code,omitempty"`
}

func printAskJSON(threads []review.Thread) error {
	results := make([]askResult, 0, len(threads))
	for _, t := range threads {
		res := askResult{
			File:      t.Selection.FilePath,
			StartLine: t.Selection.Lines.Start,
			EndLine:   t.Selection.Lines.End,
		}
		if sev, ok := t.LastSeverity(); ok {
			res.Severity = sev.String()
		}
		for _, c := range t.Comments {
			if c.Role == review.RoleAssistant {
				res.Review = c.Content
				res.Suggested = c.SuggestedCode
			}
		}
		results = append(results, res)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
