package matching

// Unmatched reason strings surfaced to the user.
const (
	ReasonNoPlaylists = "No playlists available for matching"
	ReasonNoGenres    = "no genre data available"
)

// Options control a matching run. Threshold is the minimum composite score a
// (track, playlist) pair must strictly exceed to count as a match. Exclude is
// the caller-supplied set of track ids that were already applied in earlier
// runs; the orchestrator still scores them but drops them before applying.
type Options struct {
	LikedTracksLimit int
	PlaylistLimit    int
	SampleSize       int
	Threshold        float64
	Exclude          map[string]bool
}

// Match is a (track, playlist) pair that cleared the threshold.
type Match struct {
	TrackID      string    `json:"track_id"`
	TrackURI     string    `json:"track_uri"`
	TrackName    string    `json:"track_name"`
	Artists      []string  `json:"artists"`
	ImageURL     string    `json:"image_url,omitempty"`
	PlaylistID   string    `json:"playlist_id"`
	PlaylistName string    `json:"playlist_name"`
	Score        float64   `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
}

// Unmatched is a liked track for which no playlist cleared the threshold,
// with a human-readable reason.
type Unmatched struct {
	TrackID   string   `json:"track_id"`
	TrackName string   `json:"track_name"`
	Artists   []string `json:"artists"`
	Reason    string   `json:"reason"`
}

// Report is the outcome of a Match run. Matches are sorted by descending
// score.
type Report struct {
	UserID           string       `json:"user_id"`
	Matches          []*Match     `json:"matches"`
	Unmatched        []*Unmatched `json:"unmatched"`
	PlaylistsScanned int          `json:"playlists_scanned"`
	ProfilesUsed     int          `json:"profiles_used"`
}

// PlaylistOutcome is the tagged per-destination result of an organize run:
// either applied with its matches, or failed with a reason. In a dry run
// nothing is applied and Error is always empty.
type PlaylistOutcome struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Matches      []*Match `json:"matches"`
	Applied      bool     `json:"applied"`
	Error        string   `json:"error,omitempty"`
}

// OrganizeReport is the outcome of an AutoOrganize run. Partial success
// across playlists is expected: one destination failing its bulk add moves
// its matches into Unmatched without affecting the others.
type OrganizeReport struct {
	UserID        string             `json:"user_id"`
	DryRun        bool               `json:"dry_run"`
	Playlists     []*PlaylistOutcome `json:"playlists"`
	Unmatched     []*Unmatched       `json:"unmatched"`
	AppliedTracks int                `json:"applied_tracks"`
}
