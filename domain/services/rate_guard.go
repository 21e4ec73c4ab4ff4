package services

import (
	"sync"
	"time"
)

type actionRecord struct {
	tag string
	at  time.Time
}

// RateGuard is a process-local sliding-window counter flagging sessions that
// exceed an action-frequency threshold. It holds no persistent state and is
// a soft heuristic, not a security boundary: flags are advisory and the
// flagged action still proceeds.
type RateGuard struct {
	window    time.Duration
	threshold int
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string][]actionRecord
}

// NewRateGuard creates a rate guard with the given window and threshold
func NewRateGuard(window time.Duration, threshold int) *RateGuard {
	return NewRateGuardWithClock(window, threshold, time.Now)
}

// NewRateGuardWithClock creates a rate guard with a custom clock, for tests
func NewRateGuardWithClock(window time.Duration, threshold int, now func() time.Time) *RateGuard {
	return &RateGuard{
		window:    window,
		threshold: threshold,
		now:       now,
		sessions:  make(map[string][]actionRecord),
	}
}

// RecordAction registers an action for the session and reports whether the
// session exceeded the threshold: entries older than the window are evicted,
// the new entry is appended, and the remaining count is compared against the
// threshold.
func (g *RateGuard) RecordAction(sessionID, tag string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.window)

	kept := g.sessions[sessionID][:0]
	for _, record := range g.sessions[sessionID] {
		if record.at.After(cutoff) {
			kept = append(kept, record)
		}
	}
	kept = append(kept, actionRecord{tag: tag, at: now})
	g.sessions[sessionID] = kept

	return len(kept) > g.threshold
}

// Count returns the number of actions currently inside the session's window
func (g *RateGuard) Count(sessionID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.window)
	count := 0
	for _, record := range g.sessions[sessionID] {
		if record.at.After(cutoff) {
			count++
		}
	}
	return count
}

// DiscardSession drops the session's window, e.g. on sign-out
func (g *RateGuard) DiscardSession(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, sessionID)
}
