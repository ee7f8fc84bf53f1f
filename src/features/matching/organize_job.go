package matching

import (
	"context"
	"fmt"
	"time"

	"sortify/src/features/jobs"
	"sortify/src/music"
)

// AutoOrganizeJobType is the job type the scheduler and handlers start.
const AutoOrganizeJobType = "auto_organize"

// AutoOrganizeTask runs a full organize pass as a background job. Tracks
// already recorded in the match history are excluded before applying, and
// every applied track is recorded afterwards.
type AutoOrganizeTask struct {
	service *Service
	history music.MatchHistory
}

// NewAutoOrganizeTask creates the task for the auto_organize job type.
func NewAutoOrganizeTask(service *Service, history music.MatchHistory) *AutoOrganizeTask {
	return &AutoOrganizeTask{service: service, history: history}
}

// MetadataKeys returns the metadata required to start the job.
func (t *AutoOrganizeTask) MetadataKeys() []string {
	return []string{"dry_run"}
}

// Execute runs the organize pass and returns run stats for the job metadata.
func (t *AutoOrganizeTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	dryRun, _ := job.Metadata["dry_run"].(bool)

	progressUpdater(5, "Loading match history")
	userID, err := t.service.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	opts := t.service.OptionsFromConfig()
	opts.Exclude, err = t.history.MatchedTrackIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load match history: %w", err)
	}

	progressUpdater(20, "Matching liked tracks")
	organize, err := t.service.AutoOrganize(ctx, opts, dryRun)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		progressUpdater(90, "Recording applied matches")
		if err := recordAppliedMatches(ctx, t.history, organize); err != nil {
			return nil, err
		}
	}

	progressUpdater(100, "Done")
	return map[string]any{
		"applied_tracks": organize.AppliedTracks,
		"playlists":      len(organize.Playlists),
		"unmatched":      len(organize.Unmatched),
	}, nil
}

// recordAppliedMatches persists one history record per track that was
// actually added to a playlist.
func recordAppliedMatches(ctx context.Context, history music.MatchHistory, organize *OrganizeReport) error {
	var records []*music.MatchRecord
	now := time.Now()
	for _, outcome := range organize.Playlists {
		if !outcome.Applied {
			continue
		}
		for _, match := range outcome.Matches {
			records = append(records, &music.MatchRecord{
				UserID:       organize.UserID,
				TrackID:      match.TrackID,
				TrackName:    match.TrackName,
				Artists:      match.Artists,
				PlaylistID:   outcome.PlaylistID,
				PlaylistName: outcome.PlaylistName,
				MatchedAt:    now,
			})
		}
	}
	if err := history.RecordMatches(ctx, organize.UserID, records); err != nil {
		return fmt.Errorf("record applied matches: %w", err)
	}
	return nil
}
