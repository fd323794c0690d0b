package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tmorell/revpanel/internal/review"
	"github.com/tmorell/revpanel/internal/source"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgReview   = "review"
	wsMsgFollowup = "followup"
	wsMsgResolve  = "resolve"
	wsMsgCollapse = "toggle_collapsed"
	wsMsgClear    = "clear_all"
)

// WebSocket message types to client.
const (
	wsMsgState = "state"
	wsMsgError = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsThreadMsg is the payload for followup/resolve/toggle_collapsed messages.
type wsThreadMsg struct {
	ThreadID uint64 `json:"thread_id"`
	Text     string `json:"text,omitempty"`
}

// wsStateResponse carries the full thread state after every mutation.
type wsStateResponse struct {
	Threads []threadJSON `json:"threads"`
}

// wsConn serializes writes to one connection; the notification pump and the
// read loop both send.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("websocket marshal: %v", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		log.Printf("websocket write: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c := &wsConn{conn: conn}

	// Push the current state on connect, then after every session change
	// until the client goes away.
	changes, cancel := s.session.Subscribe()
	defer cancel()
	done := make(chan struct{})
	defer close(done)

	c.send(wsMsgState, s.stateResponse())
	go func() {
		for {
			select {
			case <-changes:
				c.send(wsMsgState, s.stateResponse())
			case <-done:
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.send(wsMsgError, map[string]string{"error": "invalid message format"})
			continue
		}

		switch msg.Type {
		case wsMsgReview:
			s.handleWSReview(c, msg.Data)
		case wsMsgFollowup:
			s.handleWSThread(c, msg.Data, func(id review.ThreadID, text string) {
				s.session.AddFollowup(id, text)
			})
		case wsMsgResolve:
			s.handleWSThread(c, msg.Data, func(id review.ThreadID, _ string) {
				s.session.Resolve(id)
			})
		case wsMsgCollapse:
			s.handleWSThread(c, msg.Data, func(id review.ThreadID, _ string) {
				s.session.ToggleCollapsed(id)
			})
		case wsMsgClear:
			s.session.ClearAll()
		default:
			c.send(wsMsgError, map[string]string{"error": "unknown message type: " + msg.Type})
		}
	}
}

func (s *Server) stateResponse() wsStateResponse {
	threads := s.session.Threads()
	out := wsStateResponse{Threads: make([]threadJSON, 0, len(threads))}
	for _, t := range threads {
		out.Threads = append(out.Threads, toThreadJSON(t))
	}
	return out
}

func (s *Server) handleWSReview(c *wsConn, data json.RawMessage) {
	var req reviewRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.send(wsMsgError, map[string]string{"error": "invalid review data"})
		return
	}

	switch {
	case req.Diff != "":
		selections, err := source.FromDiff(req.Diff)
		if err != nil {
			c.send(wsMsgError, map[string]string{"error": err.Error()})
			return
		}
		for _, sel := range selections {
			s.session.Request(sel, req.Question)
		}
	case req.File != "":
		ctxLines := req.ContextLines
		if ctxLines == 0 {
			ctxLines = 10
		}
		sel, err := source.FromFile(req.File, req.StartLine, req.EndLine, ctxLines)
		if err != nil {
			c.send(wsMsgError, map[string]string{"error": err.Error()})
			return
		}
		s.session.Request(sel, req.Question)
	default:
		c.send(wsMsgError, map[string]string{"error": "either file or diff is required"})
	}
}

func (s *Server) handleWSThread(c *wsConn, data json.RawMessage, apply func(review.ThreadID, string)) {
	var req wsThreadMsg
	if err := json.Unmarshal(data, &req); err != nil {
		c.send(wsMsgError, map[string]string{"error": "invalid thread data"})
		return
	}
	apply(review.ThreadID(req.ThreadID), req.Text)
}
