package api

import (
	"net/http"
	"strconv"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/source"
)

// threadJSON is the wire representation of a review thread.
type threadJSON struct {
	ID        uint64        `json:"id"`
	Selection selectionJSON `json:"selection"`
	Comments  []commentJSON `json:"comments"`
	Loading   bool          `json:"loading"`
	Resolved  bool          `json:"resolved"`
	Collapsed bool          `json:"collapsed"`
}

type selectionJSON struct {
	FilePath  string `json:"file_path"`
	Language  string `json:"language,omitempty"`
	Selected  string `json:"selected_text"`
	Context   string `json:"context"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type commentJSON struct {
	ID            uint64 `json:"id"`
	Role          string `json:"role"`
	Content       string `json:"content"`
	Severity      string `json:"severity,omitempty"`
	SuggestedCode string `json:"suggested_code,omitempty"`
}

func toThreadJSON(t review.Thread) threadJSON {
	out := threadJSON{
		ID: uint64(t.ID),
		Selection: selectionJSON{
			FilePath:  t.Selection.FilePath,
			Language:  t.Selection.Language,
			Selected:  t.Selection.SelectedText,
			Context:   t.Selection.Context,
			StartLine: t.Selection.Lines.Start,
			EndLine:   t.Selection.Lines.End,
		},
		Loading:   t.Loading,
		Resolved:  t.Resolved,
		Collapsed: t.Collapsed,
	}
	for _, c := range t.Comments {
		cj := commentJSON{
			ID:            uint64(c.ID),
			Role:          c.Role.String(),
			Content:       c.Content,
			SuggestedCode: c.SuggestedCode,
		}
		if c.Severity != nil {
			cj.Severity = c.Severity.String()
		}
		out.Comments = append(out.Comments, cj)
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	threads := s.session.Threads()
	out := make([]threadJSON, 0, len(threads))
	for _, t := range threads {
		out = append(out, toThreadJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": out})
}

// reviewRequest creates threads either from a file selection or from a
// unified diff. Exactly one of file or diff must be set.
type reviewRequest struct {
	File         string `json:"file,omitempty"`
	StartLine    int    `json:"start_line,omitempty"`
	EndLine      int    `json:"end_line,omitempty"`
	ContextLines int    `json:"context_lines,omitempty"`
	Diff         string `json:"diff,omitempty"`
	Question     string `json:"question,omitempty"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var selections []review.CodeSelection
	switch {
	case req.Diff != "":
		sels, err := source.FromDiff(req.Diff)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		selections = sels
	case req.File != "":
		ctxLines := req.ContextLines
		if ctxLines == 0 {
			ctxLines = 10
		}
		sel, err := source.FromFile(req.File, req.StartLine, req.EndLine, ctxLines)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		selections = []review.CodeSelection{sel}
	default:
		writeError(w, http.StatusBadRequest, "either file or diff is required")
		return
	}

	if len(selections) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to review")
		return
	}

	ids := make([]uint64, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, uint64(s.session.Request(sel, req.Question)))
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"thread_ids": ids})
}

type followupRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleFollowup(w http.ResponseWriter, r *http.Request) {
	id, ok := threadID(w, r)
	if !ok {
		return
	}
	var req followupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	s.session.AddFollowup(id, req.Text)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id, ok := threadID(w, r)
	if !ok {
		return
	}
	s.session.Resolve(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	id, ok := threadID(w, r)
	if !ok {
		return
	}
	s.session.ToggleCollapsed(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.ClearAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func threadID(w http.ResponseWriter, r *http.Request) (review.ThreadID, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thread id: "+raw)
		return 0, false
	}
	return review.ThreadID(id), true
}
