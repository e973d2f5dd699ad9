package web

import (
	"dexwatch/watcher/defs"
	"sync"
	"time"
)

// Tracker keeps an in-memory view of the poll loop for the read API. The
// loop writes from its single goroutine; HTTP handlers read concurrently,
// hence the lock.
type Tracker struct {
	mu sync.Mutex

	lastCheck   time.Time
	lastReading *defs.Reading
	ticks       int64
	newReadings int64
	readings    []defs.Reading
}

type Snapshot struct {
	LastCheck   time.Time     `json:"lastCheck"`
	LastReading *defs.Reading `json:"lastReading,omitempty"`
	Ticks       int64         `json:"ticks"`
	NewReadings int64         `json:"newReadings"`
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Observe(outcome defs.PollOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ticks++
	t.lastCheck = outcome.CheckTime
	if outcome.New && outcome.Reading != nil {
		t.newReadings++
		t.lastReading = outcome.Reading
		t.readings = append(t.readings, *outcome.Reading)
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		LastCheck:   t.lastCheck,
		LastReading: t.lastReading,
		Ticks:       t.ticks,
		NewReadings: t.newReadings,
	}
}

// Readings returns a copy of every reading accepted this process lifetime.
func (t *Tracker) Readings() []defs.Reading {
	t.mu.Lock()
	defer t.mu.Unlock()

	rs := make([]defs.Reading, len(t.readings))
	copy(rs, t.readings)
	return rs
}
