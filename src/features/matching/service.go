package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"sortify/src/features/config"
	"sortify/src/music"
)

// addChunkSize is the catalog's bulk-add page size. Chunks for the same
// playlist are submitted in order; a chunk must succeed before the next one
// is sent.
const addChunkSize = 100

// Service is the matching orchestrator. It is stateless across calls; the
// profile cache is its only shared mutable state.
type Service struct {
	catalog       music.Catalog
	cache         *ProfileCache
	builder       *ProfileBuilder
	configManager *config.Manager
}

// NewService creates a new matching service.
func NewService(catalog music.Catalog, cache *ProfileCache, cfgManager *config.Manager) *Service {
	return &Service{
		catalog:       catalog,
		cache:         cache,
		builder:       NewProfileBuilder(catalog, cache),
		configManager: cfgManager,
	}
}

// Cache exposes the profile cache, mainly so callers can clear it.
func (s *Service) Cache() *ProfileCache {
	return s.cache
}

// CurrentUserID resolves the id of the authenticated user. Callers use it to
// look up match history before starting a run.
func (s *Service) CurrentUserID(ctx context.Context) (string, error) {
	user, err := s.catalog.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	return user.ID, nil
}

// OptionsFromConfig builds run options from the current configuration.
func (s *Service) OptionsFromConfig() Options {
	cfg := s.configManager.Get().Matching
	return Options{
		LikedTracksLimit: cfg.LikedTracksLimit,
		PlaylistLimit:    cfg.PlaylistLimit,
		SampleSize:       cfg.SampleSize,
		Threshold:        cfg.Threshold,
	}
}

// Match scores every liked track against every usable playlist profile and
// selects each track's best playlist strictly above the threshold. Playlists
// not owned by the requesting user are never candidates; playlists whose
// profile cannot be built are skipped, not fatal.
func (s *Service) Match(ctx context.Context, opts Options) (*Report, error) {
	slog.Debug("Match service called",
		"likedLimit", opts.LikedTracksLimit,
		"playlistLimit", opts.PlaylistLimit,
		"threshold", opts.Threshold,
	)
	started := time.Now()
	matchRuns.Inc()
	defer func() { matchDuration.Observe(time.Since(started).Seconds()) }()

	user, err := s.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}

	liked, err := s.catalog.LikedTracks(ctx, opts.LikedTracksLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch liked tracks: %w", err)
	}
	if err := enrichGenres(ctx, s.catalog, liked); err != nil {
		return nil, err
	}

	playlists, err := s.catalog.UserPlaylists(ctx, opts.PlaylistLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch playlists: %w", err)
	}

	report := &Report{UserID: user.ID}
	var profiles []*Profile
	for _, playlist := range playlists {
		if !playlist.OwnedBy(user.ID) {
			continue
		}
		report.PlaylistsScanned++
		profile, ok := s.cache.Get(playlist.ID)
		if ok {
			profileCacheHits.Inc()
		} else {
			profileCacheMisses.Inc()
			profile, err = s.builder.Build(ctx, playlist, opts.SampleSize)
			if err != nil {
				slog.Warn("Skipping playlist, profile build failed", "playlist", playlist.Name, "error", err)
				continue
			}
		}
		profiles = append(profiles, profile)
	}
	report.ProfilesUsed = len(profiles)

	if len(profiles) == 0 {
		for _, track := range liked {
			report.Unmatched = append(report.Unmatched, &Unmatched{
				TrackID:   track.ID,
				TrackName: track.Name,
				Artists:   track.ArtistNames,
				Reason:    ReasonNoPlaylists,
			})
		}
		unmatchedTracks.Add(float64(len(report.Unmatched)))
		slog.Info("Match run finished without usable playlists", "likedTracks", len(liked))
		return report, nil
	}

	for _, track := range liked {
		var best *Match
		bestScore := 0.0
		for _, profile := range profiles {
			score, breakdown := Score(track, profile)
			if score > bestScore {
				bestScore = score
			}
			// Strictly-greater comparison keeps the first profile seen on
			// exact ties; tie order is unspecified and follows catalog
			// response order.
			if score > opts.Threshold && (best == nil || score > best.Score) {
				best = &Match{
					TrackID:      track.ID,
					TrackURI:     track.URI,
					TrackName:    track.Name,
					Artists:      track.ArtistNames,
					ImageURL:     track.ImageURL,
					PlaylistID:   profile.PlaylistID,
					PlaylistName: profile.PlaylistName,
					Score:        score,
					Breakdown:    breakdown,
				}
			}
		}
		if best != nil {
			report.Matches = append(report.Matches, best)
			continue
		}
		reason := fmt.Sprintf("best score (%.2f) below threshold (%.2f)", bestScore, opts.Threshold)
		if len(track.Genres) == 0 {
			reason = ReasonNoGenres
		}
		report.Unmatched = append(report.Unmatched, &Unmatched{
			TrackID:   track.ID,
			TrackName: track.Name,
			Artists:   track.ArtistNames,
			Reason:    reason,
		})
	}

	sort.SliceStable(report.Matches, func(i, j int) bool {
		return report.Matches[i].Score > report.Matches[j].Score
	})

	matchedTracks.Add(float64(len(report.Matches)))
	unmatchedTracks.Add(float64(len(report.Unmatched)))
	slog.Info("Match run finished",
		"likedTracks", len(liked),
		"profiles", len(profiles),
		"matched", len(report.Matches),
		"unmatched", len(report.Unmatched),
	)
	return report, nil
}

// AutoOrganize runs Match, groups the matches by destination playlist and, in
// apply mode, bulk-adds each group's track URIs to its playlist. A failure on
// one playlist converts that playlist's matches into unmatched entries with
// the failure reason; other playlists are unaffected.
func (s *Service) AutoOrganize(ctx context.Context, opts Options, dryRun bool) (*OrganizeReport, error) {
	slog.Debug("AutoOrganize service called", "dryRun", dryRun)

	report, err := s.Match(ctx, opts)
	if err != nil {
		return nil, err
	}

	organize := &OrganizeReport{
		UserID:    report.UserID,
		DryRun:    dryRun,
		Unmatched: report.Unmatched,
	}

	groups := make(map[string]*PlaylistOutcome)
	var order []string
	for _, match := range report.Matches {
		if opts.Exclude[match.TrackID] {
			continue
		}
		outcome, ok := groups[match.PlaylistID]
		if !ok {
			outcome = &PlaylistOutcome{
				PlaylistID:   match.PlaylistID,
				PlaylistName: match.PlaylistName,
			}
			groups[match.PlaylistID] = outcome
			order = append(order, match.PlaylistID)
		}
		outcome.Matches = append(outcome.Matches, match)
	}

	for _, playlistID := range order {
		outcome := groups[playlistID]
		if dryRun {
			organize.Playlists = append(organize.Playlists, outcome)
			continue
		}
		uris := make([]string, 0, len(outcome.Matches))
		for _, match := range outcome.Matches {
			uris = append(uris, match.TrackURI)
		}
		if err := s.addInChunks(ctx, playlistID, uris); err != nil {
			slog.Error("Bulk add failed", "playlist", outcome.PlaylistName, "tracks", len(uris), "error", err)
			outcome.Error = err.Error()
			for _, match := range outcome.Matches {
				organize.Unmatched = append(organize.Unmatched, &Unmatched{
					TrackID:   match.TrackID,
					TrackName: match.TrackName,
					Artists:   match.Artists,
					Reason:    err.Error(),
				})
			}
		} else {
			outcome.Applied = true
			organize.AppliedTracks += len(outcome.Matches)
			appliedTracks.Add(float64(len(outcome.Matches)))
			slog.Info("Tracks added to playlist", "playlist", outcome.PlaylistName, "tracks", len(uris))
		}
		organize.Playlists = append(organize.Playlists, outcome)
	}

	return organize, nil
}

func (s *Service) addInChunks(ctx context.Context, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += addChunkSize {
		end := start + addChunkSize
		if end > len(uris) {
			end = len(uris)
		}
		if err := s.catalog.AddTracksToPlaylist(ctx, playlistID, uris[start:end]); err != nil {
			return err
		}
	}
	return nil
}
