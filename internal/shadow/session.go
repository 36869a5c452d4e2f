package shadow

import (
	"context"
	"sync"
)

// sessionSlot identifies one in-flight request so a finished request
// only clears its own registration.
type sessionSlot struct {
	cancel context.CancelFunc
}

// SessionRunner enforces single-flight scoring per logical session: a
// new request for a session cancels the one still in flight, e.g. when
// the user re-records before the previous attempt finished scoring.
// Cancellation is cooperative; the engine checks its context between
// pipeline stages.
type SessionRunner struct {
	engine *Engine

	mu     sync.Mutex
	active map[string]*sessionSlot
}

// NewSessionRunner wraps an engine with per-session cancellation.
func NewSessionRunner(engine *Engine) *SessionRunner {
	return &SessionRunner{
		engine: engine,
		active: make(map[string]*sessionSlot),
	}
}

// Score cancels any in-flight request for the same session, then runs
// the pipeline. Requests without a session ID run unmanaged.
func (r *SessionRunner) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	if req.SessionID == "" {
		return r.engine.Score(ctx, req)
	}

	runCtx, cancel := context.WithCancel(ctx)
	slot := &sessionSlot{cancel: cancel}

	r.mu.Lock()
	if prior, ok := r.active[req.SessionID]; ok {
		prior.cancel()
	}
	r.active[req.SessionID] = slot
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		// Only clear the slot if a newer request has not replaced it.
		if current, ok := r.active[req.SessionID]; ok && current == slot {
			delete(r.active, req.SessionID)
		}
		r.mu.Unlock()
	}()

	return r.engine.Score(runCtx, req)
}
