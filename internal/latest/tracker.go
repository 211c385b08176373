// Package latest implements the cancellable-task-per-key pattern: each new request supersedes
// the previous one, and only the most recently started request may apply its result.
package latest

import (
	"context"
	"sync"
)

// Ticket identifies one started request.
type Ticket struct {
	Gen uint64
	Key string
}

// Tracker hands out tickets. The zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	key    string
	cancel context.CancelFunc
}

// Begin starts a request for key. Any request started earlier is cancelled and its ticket
// stops being current. The returned context is cancelled when the request is superseded or the
// tracker is invalidated.
func (t *Tracker) Begin(parent context.Context, key string) (Ticket, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.gen++
	t.key = key
	t.cancel = cancel
	return Ticket{Gen: t.gen, Key: key}, ctx
}

// Current reports whether tk belongs to the most recently started request.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.Gen != 0 && tk.Gen == t.gen && tk.Key == t.key
}

// Done releases the context of tk if it is still current. Results keep being accepted.
func (t *Tracker) Done(tk Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk.Gen == t.gen && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Invalidate makes every outstanding ticket stale and cancels the in-flight request.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.key = ""
}
