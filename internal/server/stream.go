package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sudslabs/suds/internal/engine"
)

// Stream event types.
const (
	EventPhase    = "phase"
	EventComplete = "complete"
	EventError    = "error"
)

// StreamEvent is one message on the planning progress stream. Phase events
// arrive as the pipeline advances; exactly one complete or error event
// terminates the stream.
type StreamEvent struct {
	Type     string           `json:"type"`
	Phase    string           `json:"phase,omitempty"`
	Detail   string           `json:"detail,omitempty"`
	Workflow *engine.Workflow `json:"workflow,omitempty"`
	Error    *ErrorBody       `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same trust model as the JSON endpoints
	},
}

const streamWriteTimeout = 10 * time.Second

// handleStream plans a workflow over a WebSocket, emitting phase events as
// the planner progresses. The client sends one plan request as its first
// message; the server replies with phase events followed by a terminal
// complete or error event, then closes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req engine.Request
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Debug("stream request read failed", "error", err)
		return
	}

	// A hijacked connection does not cancel the request context on client
	// disconnect, so a read pump watches for the close frame instead.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	// The progress callback must not block the planner, so events are
	// buffered and drained by this goroutine while the plan runs.
	events := make(chan engine.PhaseEvent, 64)
	type planOutcome struct {
		wf  *engine.Workflow
		err error
	}
	done := make(chan planOutcome, 1)

	go func() {
		wf, perr := s.engine.PlanWithProgress(ctx, req, func(ev engine.PhaseEvent) {
			select {
			case events <- ev:
			default: // drop rather than stall the pipeline
			}
		})
		close(events)
		done <- planOutcome{wf: wf, err: perr}
	}()

	write := func(ev StreamEvent) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Debug("stream write failed", "error", err)
			return false
		}
		return true
	}

	for ev := range events {
		if !write(StreamEvent{Type: EventPhase, Phase: string(ev.Phase), Detail: ev.Detail}) {
			return
		}
	}

	out := <-done
	if out.err != nil {
		write(StreamEvent{Type: EventError, Error: errorBody(engine.AsError(out.err), requestID(r))})
		return
	}
	write(StreamEvent{Type: EventComplete, Workflow: out.wf})
}
