package watcher

import "dexwatch/watcher/defs"

// Decide reports whether candidate is a genuinely new reading given the
// timestamp of the last accepted one, and returns the state to carry into
// the next tick. A candidate is new only when its timestamp is strictly
// after the last accepted timestamp; equal timestamps count as already seen.
func Decide(candidate defs.Reading, state defs.DedupState) (bool, defs.DedupState) {
	if !state.LastTime.IsZero() && !candidate.Time.After(state.LastTime) {
		return false, state
	}
	return true, defs.DedupState{LastTime: candidate.Time}
}
