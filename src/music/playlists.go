package music

// Playlist represents a playlist as listed by the catalog. TrackCount is the
// authoritative total reported by the provider, not the number of tracks
// fetched locally.
type Playlist struct {
	ID            string
	Name          string
	OwnerID       string
	TrackCount    int
	Collaborative bool
}

// OwnedBy reports whether the playlist is owned by the given user. Only owned,
// non-collaborative playlists are ever used as write targets.
func (p *Playlist) OwnedBy(userID string) bool {
	return p.OwnerID == userID && !p.Collaborative
}
