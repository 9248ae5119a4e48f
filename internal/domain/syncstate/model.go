package syncstate

import "time"

// State records when the last full synchronization completed. The
// freshness gate in the sync engine reads it; nothing else writes it.
type State struct {
	LastFullSyncAt time.Time
}

// Stale reports whether a refresh is due given the configured interval.
func (s State) Stale(now time.Time, refreshInterval time.Duration) bool {
	if s.LastFullSyncAt.IsZero() {
		return true
	}
	return now.Sub(s.LastFullSyncAt) >= refreshInterval
}
