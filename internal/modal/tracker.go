package modal

import (
	"net/url"
	"sync"
)

// Ticket identifies one navigation. Results settled with an outdated
// ticket are dropped.
type Ticket struct {
	gen    uint64
	intent Intent
}

// Intent returns the intent the ticket was issued for.
func (t Ticket) Intent() Intent { return t.intent }

// Tracker holds the dialog state of one dashboard session. Every
// navigation or close starts a new generation, so a fetch that resolves
// after the user moved on cannot overwrite the current state.
//
// The /dashboard/view endpoint is stateless and does not hold a Tracker;
// clients that fetch views concurrently keep one per session.
type Tracker struct {
	mu    sync.Mutex
	gen   uint64
	state State
}

// NewTracker returns an Idle tracker.
func NewTracker() *Tracker {
	return &Tracker{state: State{Kind: KindIdle}}
}

// Navigate re-derives the state from q and returns the ticket a pending
// load must settle with.
func (t *Tracker) Navigate(q url.Values) Ticket {
	in := Derive(q)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.state = Initial(in)
	return Ticket{gen: t.gen, intent: in}
}

// Settle applies s if tk is still current and reports whether it did.
func (t *Tracker) Settle(tk Ticket, s State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk.gen != t.gen {
		return false
	}
	t.state = s
	return true
}

// Close returns to Idle, as after cancel, save or delete.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.state = State{Kind: KindIdle}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
