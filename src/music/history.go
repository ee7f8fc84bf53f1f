package music

import (
	"context"
	"time"
)

// MatchRecord is the durable outcome of an applied match. At most one active
// record exists per (user, track); deleting a record frees the track to be
// matched again in a future run.
type MatchRecord struct {
	UserID       string
	TrackID      string
	TrackName    string
	Artists      []string
	PlaylistID   string
	PlaylistName string
	MatchedAt    time.Time
}

// MatchHistory is the interface for the durable store of applied matches.
type MatchHistory interface {
	MatchedTrackIDs(ctx context.Context, userID string) (map[string]bool, error)
	RecordMatches(ctx context.Context, userID string, records []*MatchRecord) error
	DeleteMatch(ctx context.Context, userID, trackID string) error
	ListMatches(ctx context.Context, userID string) ([]*MatchRecord, error)
}
