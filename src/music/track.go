package music

import (
	"fmt"
	"strings"
)

// User represents the Spotify account the service acts on behalf of.
type User struct {
	ID          string
	DisplayName string
}

// Artist represents a Spotify artist with the attributes matching cares about.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
}

// Track represents a track as returned by the catalog. ArtistIDs and
// ArtistNames are index-aligned. Genres is the de-duplicated union of the
// track's artists' genres and is empty until the track has been enriched.
type Track struct {
	ID          string
	URI         string
	Name        string
	ArtistIDs   []string
	ArtistNames []string
	Genres      []string
	Popularity  int
	ImageURL    string
}

// Validate checks the structural invariants of a track.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("track id cannot be empty")
	}
	if len(t.ArtistIDs) != len(t.ArtistNames) {
		return fmt.Errorf("track %s: artist ids (%d) and names (%d) must be index-aligned", t.ID, len(t.ArtistIDs), len(t.ArtistNames))
	}
	if t.Popularity < 0 || t.Popularity > 100 {
		return fmt.Errorf("track %s: popularity %d outside [0,100]", t.ID, t.Popularity)
	}
	return nil
}

// ArtistLine renders the track's artists for display.
func (t *Track) ArtistLine() string {
	return strings.Join(t.ArtistNames, ", ")
}
