// Package cli implements the revpanel command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tmorell/revpanel/internal/config"
	"github.com/tmorell/revpanel/internal/llm"
	"github.com/tmorell/revpanel/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "revpanel",
	Short: "AI code review panel for your terminal",
	Long: `revpanel sends selected source code to a language model and holds
per-selection review conversations in an interactive panel.

Reviews can start from a file selection (--file with --lines) or from a
git diff, one thread per hunk.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession builds a session wired to the configured provider. The client
// and settings are re-read on every dispatch, so environment or config
// changes apply to the next request, not to in-flight ones.
func newSession(cfg config.Config) *session.Session {
	return session.New(session.Options{
		Client: func() llm.Client {
			client, err := llm.New(cfg.Provider, cfg.Model)
			if err != nil {
				return nil
			}
			return client
		},
		Settings: func() session.Settings {
			return session.Settings{CustomPrompt: cfg.CustomPrompt}
		},
	})
}

// loadConfig loads configuration and applies provider/model flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if cmd.Flags().Changed("context") {
		cfg.ContextLines, _ = cmd.Flags().GetInt("context")
	}
	return cfg, nil
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "model provider: anthropic, openai, ollama")
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().IntP("context", "C", 10, "lines of context around the selection")
}
