package core

import (
	"time"

	"github.com/vovakirdan/tui-idle/internal/bignum"
)

// TrackSnapshot is the persisted state of one upgrade track.
type TrackSnapshot struct {
	ID         string
	Level      int64
	TotalSpent bignum.Number
}

// Snapshot is everything needed to resume a run.
type Snapshot struct {
	GameID    string
	Currency  bignum.Number
	Peak      bignum.Number
	Ticks     int64
	Tracks    []TrackSnapshot
	UpdatedAt time.Time // Set by storage on load; zero for fresh snapshots
}

// Track returns the snapshot of the track with the given ID.
func (s Snapshot) Track(id string) (TrackSnapshot, bool) {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return TrackSnapshot{}, false
}
