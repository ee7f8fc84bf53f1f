package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sortify/src/music"
)

// ErrMatchNotFound is returned when no active record exists for the track.
var ErrMatchNotFound = errors.New("match not found")

// Service manages the durable record of applied matches.
type Service struct {
	catalog music.Catalog
	history music.MatchHistory
}

// NewService creates a new history service.
func NewService(catalog music.Catalog, history music.MatchHistory) *Service {
	return &Service{catalog: catalog, history: history}
}

// ListMatches returns the current user's match records, newest first.
func (s *Service) ListMatches(ctx context.Context) ([]*music.MatchRecord, error) {
	slog.Debug("ListMatches service called")
	user, err := s.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	return s.history.ListMatches(ctx, user.ID)
}

// Unmatch removes the track from the playlist it was matched into and
// deletes its history record, making it eligible for future runs.
func (s *Service) Unmatch(ctx context.Context, trackID string) error {
	slog.Debug("Unmatch service called", "trackID", trackID)
	user, err := s.catalog.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("resolve current user: %w", err)
	}

	records, err := s.history.ListMatches(ctx, user.ID)
	if err != nil {
		return err
	}
	var record *music.MatchRecord
	for _, candidate := range records {
		if candidate.TrackID == trackID {
			record = candidate
			break
		}
	}
	if record == nil {
		return ErrMatchNotFound
	}

	uri := "spotify:track:" + trackID
	if err := s.catalog.RemoveTracksFromPlaylist(ctx, record.PlaylistID, []string{uri}); err != nil {
		return fmt.Errorf("remove track from playlist: %w", err)
	}
	if err := s.history.DeleteMatch(ctx, user.ID, trackID); err != nil {
		return err
	}

	slog.Info("Match removed", "track", record.TrackName, "playlist", record.PlaylistName)
	return nil
}
