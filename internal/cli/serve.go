package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmorell/revpanel/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the review session.

Endpoints:
  GET  /health                      — Health check
  GET  /api/threads                 — Current thread state
  POST /api/review                  — Start a review from a file or diff
  POST /api/threads/{id}/followup   — Ask a follow-up on a thread
  POST /api/threads/{id}/resolve    — Resolve a thread
  POST /api/threads/{id}/collapse   — Toggle a thread collapsed
  POST /api/clear                   — Drop all threads
  GET  /api/ws                      — WebSocket with state pushed on change`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	addModelFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	addr := cfg.Serve.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	port := cfg.Serve.Port
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = v
	}

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, newSession(cfg))
	return srv.ListenAndServe()
}
