// Package session owns the collection of review threads and merges
// asynchronous model output back into them. All thread mutations are
// serialized through the session; renderers only ever see snapshots.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tmorell/revpanel/internal/llm"
	"github.com/tmorell/revpanel/internal/review"
)

// noModelMessage is surfaced as an error comment when no model client is
// available at dispatch time.
const noModelMessage = "No AI model configured. Please set up a language model in settings."

// ClientSource returns the active model client, or nil when none is
// configured. It is consulted at dispatch time, never cached, so a
// configuration change affects the next dispatch but not in-flight requests.
type ClientSource func() llm.Client

// Settings are the dispatch-time options read from configuration.
type Settings struct {
	CustomPrompt string
}

// SettingsSource returns the current settings at dispatch time.
type SettingsSource func() Settings

// Options configure a Session.
type Options struct {
	Client   ClientSource
	Settings SettingsSource
	// ThreadIDs and CommentIDs default to fresh atomic sources. Tests
	// inject their own for deterministic ids.
	ThreadIDs  review.IDSource
	CommentIDs review.IDSource
}

// Session is the review thread registry and dispatch controller.
type Session struct {
	mu      sync.Mutex
	threads []*review.Thread
	byID    map[review.ThreadID]*review.Thread
	pending map[review.ThreadID]uint64 // thread id -> dispatch handle

	client   ClientSource
	settings SettingsSource

	threadIDs  review.IDSource
	commentIDs review.IDSource

	dispatchSeq uint64
	generation  uint64
	subs        map[uint64]chan struct{}
	nextSub     uint64
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Client == nil {
		opts.Client = func() llm.Client { return nil }
	}
	if opts.Settings == nil {
		opts.Settings = func() Settings { return Settings{} }
	}
	if opts.ThreadIDs == nil {
		opts.ThreadIDs = review.NewIDSource()
	}
	if opts.CommentIDs == nil {
		opts.CommentIDs = review.NewIDSource()
	}
	return &Session{
		byID:     make(map[review.ThreadID]*review.Thread),
		pending:  make(map[review.ThreadID]uint64),
		client:   opts.Client,
		settings: opts.Settings,

		threadIDs:  opts.ThreadIDs,
		commentIDs: opts.CommentIDs,
		subs:       make(map[uint64]chan struct{}),
	}
}

// Request creates a new thread for the selection with the user's question as
// its first comment and dispatches a model request. The caller is expected
// to have rejected empty selections already.
func (s *Session) Request(selection review.CodeSelection, question string) review.ThreadID {
	if strings.TrimSpace(question) == "" {
		question = review.DefaultQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := review.NewThread(review.ThreadID(s.threadIDs.Next()), s.commentIDs, selection, question)
	s.threads = append(s.threads, t)
	s.byID[t.ID] = t

	s.dispatchLocked(t)
	s.notifyLocked()
	return t.ID
}

// AddFollowup appends a user comment and dispatches a new model request.
// Unknown thread ids are ignored.
func (s *Session) AddFollowup(id review.ThreadID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return
	}
	t.AddUserComment(text)
	s.dispatchLocked(t)
	s.notifyLocked()
}

// Resolve marks a thread resolved. Idempotent; unknown ids are ignored.
func (s *Session) Resolve(id review.ThreadID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return
	}
	t.Resolve()
	s.notifyLocked()
}

// ToggleCollapsed flips a thread's collapsed flag. Unknown ids are ignored.
func (s *Session) ToggleCollapsed(id review.ThreadID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return
	}
	t.ToggleCollapsed()
	s.notifyLocked()
}

// ClearAll drops every thread and pending dispatch. In-flight requests are
// not aborted; their completions find no thread and do nothing.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads = nil
	s.byID = make(map[review.ThreadID]*review.Thread)
	s.pending = make(map[review.ThreadID]uint64)
	s.notifyLocked()
}

// Threads returns snapshots of all threads in creation order.
func (s *Session) Threads() []review.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]review.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, t.Snapshot())
	}
	return out
}

// Thread returns a snapshot of one thread.
func (s *Session) Thread(id review.ThreadID) (review.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return review.Thread{}, false
	}
	return t.Snapshot(), true
}

// Generation returns a counter incremented on every mutation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe registers a change listener. The channel receives a coalesced
// signal after every mutation. The returned func cancels the subscription.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// dispatchLocked builds the prompt for a thread's latest user turn and
// issues the model request. A thread has at most one tracked dispatch: a
// re-dispatch while one is in flight replaces the handle, and whichever
// completion arrives last wins.
func (s *Session) dispatchLocked(t *review.Thread) {
	client := s.client()
	if client == nil {
		t.AddAIResponse(noModelMessage, review.SeverityError, "")
		return
	}

	prompt := review.BuildPrompt(t, s.settings().CustomPrompt)
	req := llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: review.Temperature,
	}

	s.dispatchSeq++
	handle := s.dispatchSeq
	s.pending[t.ID] = handle

	go s.run(t.ID, handle, client, req)
}

// run streams the model response to completion and merges the result. It
// holds no lock while the request is in flight.
func (s *Session) run(id review.ThreadID, handle uint64, client llm.Client, req llm.Request) {
	content, err := collect(client, req)
	s.complete(id, handle, content, err)
}

// collect accumulates the full response text. On a mid-stream failure the
// partial text is discarded and only the error is reported.
func collect(client llm.Client, req llm.Request) (string, error) {
	stream, err := client.Stream(context.Background(), req)
	if err != nil {
		return "", fmt.Errorf("failed to start AI stream: %w", err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		b.WriteString(chunk)
	}
}

// complete merges a finished model call into the thread, if it still
// exists. Completions for threads removed by ClearAll are no-ops.
func (s *Session) complete(id review.ThreadID, handle uint64, content string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return
	}

	if s.pending[id] == handle {
		delete(s.pending, id)
	}

	if err != nil {
		t.AddAIResponse(fmt.Sprintf("Failed to get AI response: %v", err), review.SeverityError, "")
	} else {
		severity := review.DetectSeverity(content)
		suggestion, _ := review.ExtractSuggestion(content)
		t.AddAIResponse(content, severity, suggestion)
	}
	s.notifyLocked()
}

// notifyLocked bumps the generation and signals every subscriber without
// blocking. Callers hold s.mu.
func (s *Session) notifyLocked() {
	s.generation++
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
