package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"sortify/src/music"
)

// DefaultSampleSize caps how many tracks of a playlist are fetched to build
// its profile. Very large playlists are only partially sampled.
const DefaultSampleSize = 50

// ErrEmptyPlaylist is returned when a playlist yields no tracks to sample.
// Callers skip such playlists rather than failing the whole run.
var ErrEmptyPlaylist = errors.New("playlist has no tracks")

// Profile is the aggregated, cached statistical summary of a playlist's
// sampled content. Read-only once built.
type Profile struct {
	PlaylistID   string
	PlaylistName string
	// TrackCount is the authoritative total from the catalog; SampledCount is
	// how many tracks the profile was actually built from.
	TrackCount   int
	SampledCount int
	ArtistIDs    map[string]bool
	ArtistNames  map[string]bool
	// GenreCounts maps genre label to the number of sampled tracks exhibiting
	// that genre. A track contributes at most 1 per genre, regardless of how
	// many of its artists carry it.
	GenreCounts   map[string]int
	AvgPopularity float64
	BuiltAt       time.Time
}

// GenreSet returns the profile's genre labels as a set, ignoring frequencies.
func (p *Profile) GenreSet() map[string]bool {
	set := make(map[string]bool, len(p.GenreCounts))
	for genre := range p.GenreCounts {
		set[genre] = true
	}
	return set
}

// ProfileBuilder turns a playlist into a Profile by sampling its tracks and
// resolving their artists' genres through the catalog.
type ProfileBuilder struct {
	catalog music.Catalog
	cache   *ProfileCache
}

// NewProfileBuilder creates a builder that writes successful builds through to
// the given cache.
func NewProfileBuilder(catalog music.Catalog, cache *ProfileCache) *ProfileBuilder {
	return &ProfileBuilder{catalog: catalog, cache: cache}
}

// Build fetches up to sampleSize tracks of the playlist, resolves the sample's
// artists in one pass, and aggregates the profile. On success the profile is
// stored in the cache.
func (b *ProfileBuilder) Build(ctx context.Context, playlist *music.Playlist, sampleSize int) (*Profile, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	slog.Debug("Building playlist profile", "playlist", playlist.Name, "sampleSize", sampleSize)

	tracks, err := b.catalog.PlaylistTracks(ctx, playlist.ID, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("fetch tracks for playlist %s: %w", playlist.ID, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("playlist %s: %w", playlist.ID, ErrEmptyPlaylist)
	}

	artists, err := lookupArtists(ctx, b.catalog, tracks)
	if err != nil {
		return nil, fmt.Errorf("fetch artists for playlist %s: %w", playlist.ID, err)
	}

	profile := &Profile{
		PlaylistID:   playlist.ID,
		PlaylistName: playlist.Name,
		TrackCount:   playlist.TrackCount,
		SampledCount: len(tracks),
		ArtistIDs:    make(map[string]bool),
		ArtistNames:  make(map[string]bool),
		GenreCounts:  make(map[string]int),
		BuiltAt:      time.Now(),
	}

	popularitySum := 0
	for _, track := range tracks {
		trackGenres := make(map[string]bool)
		for i, artistID := range track.ArtistIDs {
			profile.ArtistIDs[artistID] = true
			if i < len(track.ArtistNames) {
				profile.ArtistNames[track.ArtistNames[i]] = true
			}
			if artist, ok := artists[artistID]; ok {
				for _, genre := range artist.Genres {
					trackGenres[genre] = true
				}
			}
		}
		for genre := range trackGenres {
			profile.GenreCounts[genre]++
		}
		popularitySum += track.Popularity
	}
	profile.AvgPopularity = float64(popularitySum) / float64(len(tracks))

	b.cache.Set(profile)
	slog.Debug("Playlist profile built",
		"playlist", playlist.Name,
		"sampled", profile.SampledCount,
		"artists", len(profile.ArtistIDs),
		"genres", len(profile.GenreCounts),
	)
	return profile, nil
}

// lookupArtists resolves every distinct artist referenced by the given tracks
// with as few catalog calls as possible. The catalog implementation chunks the
// id list as its transport requires.
func lookupArtists(ctx context.Context, catalog music.Catalog, tracks []*music.Track) (map[string]*music.Artist, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, track := range tracks {
		for _, id := range track.ArtistIDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	result := make(map[string]*music.Artist, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	artists, err := catalog.ArtistsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, artist := range artists {
		result[artist.ID] = artist
	}
	return result, nil
}

// enrichGenres fills each track's genre set from its artists, one catalog
// round-trip for the deduplicated artist set across all tracks.
func enrichGenres(ctx context.Context, catalog music.Catalog, tracks []*music.Track) error {
	artists, err := lookupArtists(ctx, catalog, tracks)
	if err != nil {
		return fmt.Errorf("fetch artists for liked tracks: %w", err)
	}
	for _, track := range tracks {
		set := make(map[string]bool)
		for _, artistID := range track.ArtistIDs {
			if artist, ok := artists[artistID]; ok {
				for _, genre := range artist.Genres {
					set[genre] = true
				}
			}
		}
		genres := make([]string, 0, len(set))
		for genre := range set {
			genres = append(genres, genre)
		}
		sort.Strings(genres)
		track.Genres = genres
	}
	return nil
}
