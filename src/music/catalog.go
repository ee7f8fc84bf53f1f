package music

import (
	"context"
)

// Catalog is the interface for the external track/playlist metadata provider.
// It's our primary collaborator for everything matching needs to read and the
// only one allowed to mutate playlists.
type Catalog interface {
	CurrentUser(ctx context.Context) (*User, error)
	LikedTracks(ctx context.Context, limit int) ([]*Track, error)
	UserPlaylists(ctx context.Context, limit int) ([]*Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]*Track, error)
	ArtistsByIDs(ctx context.Context, ids []string) ([]*Artist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error
	RemoveTracksFromPlaylist(ctx context.Context, playlistID string, trackURIs []string) error
}
