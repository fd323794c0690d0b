package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmorell/revpanel/internal/session"
)

// Sessions under test have no model client, so dispatch completes
// synchronously with an error comment and responses are deterministic.
func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	s := session.New(session.Options{})
	return New("127.0.0.1:0", s), s
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func writeSourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.go")
	content := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReviewFromFile(t *testing.T) {
	srv, s := newTestServer(t)
	path := writeSourceFile(t)

	body := `{"file": "` + path + `", "start_line": 3, "end_line": 6, "question": "is this ok?"}`
	w := doRequest(t, srv, "POST", "/api/review", body)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ThreadIDs []uint64 `json:"thread_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(resp.ThreadIDs) != 1 {
		t.Fatalf("expected 1 thread id, got %d", len(resp.ThreadIDs))
	}
	if len(s.Threads()) != 1 {
		t.Error("expected thread in session")
	}
}

func TestReviewFromDiff(t *testing.T) {
	srv, _ := newTestServer(t)

	diff := "diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n@@ -1,2 +1,2 @@\n package main\n-var x = 1\n+var x = 2\n"
	body, err := json.Marshal(map[string]string{"diff": diff})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	w := doRequest(t, srv, "POST", "/api/review", string(body))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReviewRequiresInput(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/review", `{"question": "anything here?"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReviewInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/review", "{nope")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestThreadsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	path := writeSourceFile(t)

	doRequest(t, srv, "POST", "/api/review", `{"file": "`+path+`", "start_line": 1, "end_line": 6}`)

	w := doRequest(t, srv, "GET", "/api/threads", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Threads []threadJSON `json:"threads"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(resp.Threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(resp.Threads))
	}
	th := resp.Threads[0]
	if th.Loading {
		t.Error("no-model thread should not be loading")
	}
	if len(th.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(th.Comments))
	}
	if th.Comments[1].Severity != "error" {
		t.Errorf("expected error severity, got %q", th.Comments[1].Severity)
	}
}

func TestFollowup(t *testing.T) {
	srv, s := newTestServer(t)
	path := writeSourceFile(t)

	doRequest(t, srv, "POST", "/api/review", `{"file": "`+path+`", "start_line": 1, "end_line": 6}`)
	id := s.Threads()[0].ID

	w := doRequest(t, srv, "POST", "/api/threads/1/followup", `{"text": "more detail please"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	th, ok := s.Thread(id)
	if !ok {
		t.Fatal("thread missing")
	}
	if len(th.Comments) != 4 {
		t.Errorf("expected 4 comments after followup, got %d", len(th.Comments))
	}
}

func TestFollowupRequiresText(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/threads/1/followup", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestResolveAndCollapse(t *testing.T) {
	srv, s := newTestServer(t)
	path := writeSourceFile(t)

	doRequest(t, srv, "POST", "/api/review", `{"file": "`+path+`", "start_line": 1, "end_line": 6}`)
	id := s.Threads()[0].ID

	if w := doRequest(t, srv, "POST", "/api/threads/1/resolve", ""); w.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", w.Code)
	}
	if w := doRequest(t, srv, "POST", "/api/threads/1/collapse", ""); w.Code != http.StatusOK {
		t.Fatalf("collapse: expected 200, got %d", w.Code)
	}

	th, _ := s.Thread(id)
	if !th.Resolved || !th.Collapsed {
		t.Error("expected thread resolved and collapsed")
	}
}

func TestInvalidThreadID(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/threads/abc/resolve", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClear(t *testing.T) {
	srv, s := newTestServer(t)
	path := writeSourceFile(t)

	doRequest(t, srv, "POST", "/api/review", `{"file": "`+path+`", "start_line": 1, "end_line": 6}`)
	if w := doRequest(t, srv, "POST", "/api/clear", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(s.Threads()) != 0 {
		t.Error("expected no threads after clear")
	}
}
