package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sortify/src/features/auth"
	"sortify/src/music"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"

	// API page and chunk sizes. Spotify caps saved-tracks and playlist pages
	// at 50, playlist-tracks pages at 100, artist lookups at 50 ids and
	// playlist mutations at 100 URIs per call.
	pageSize        = 50
	trackPageSize   = 100
	artistChunkSize = 50
	uriChunkSize    = 100

	maxRetries  = 3
	baseBackoff = 500 * time.Millisecond
)

// Client implements music.Catalog over the Spotify Web API.
type Client struct {
	auth    *auth.Service
	baseURL string
	// httpClient overrides the auth-derived client when set (tests).
	httpClient *http.Client
}

var _ music.Catalog = (*Client)(nil)

// NewClient creates a catalog backed by the given auth service.
func NewClient(authService *auth.Service) *Client {
	return &Client{auth: authService, baseURL: defaultBaseURL}
}

func (c *Client) client(ctx context.Context) (*http.Client, error) {
	if c.httpClient != nil {
		return c.httpClient, nil
	}
	return c.auth.Client(ctx)
}

// CurrentUser resolves the account the stored token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*music.User, error) {
	var payload userPayload
	if err := c.get(ctx, "/me", nil, &payload); err != nil {
		return nil, err
	}
	return &music.User{ID: payload.ID, DisplayName: payload.DisplayName}, nil
}

// LikedTracks fetches up to limit tracks from the user's saved-tracks
// collection, newest first.
func (c *Client) LikedTracks(ctx context.Context, limit int) ([]*music.Track, error) {
	var tracks []*music.Track
	for offset := 0; len(tracks) < limit; offset += pageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(min(pageSize, limit-len(tracks))))
		query.Set("offset", strconv.Itoa(offset))

		var page savedTracksPage
		if err := c.get(ctx, "/me/tracks", query, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if track := mapTrack(&item.Track); track != nil {
				tracks = append(tracks, track)
			}
		}
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}
	return tracks, nil
}

// UserPlaylists fetches up to limit playlists visible to the user, including
// followed ones; ownership filtering is the caller's concern.
func (c *Client) UserPlaylists(ctx context.Context, limit int) ([]*music.Playlist, error) {
	var playlists []*music.Playlist
	for offset := 0; len(playlists) < limit; offset += pageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(min(pageSize, limit-len(playlists))))
		query.Set("offset", strconv.Itoa(offset))

		var page playlistsPage
		if err := c.get(ctx, "/me/playlists", query, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			playlists = append(playlists, &music.Playlist{
				ID:            item.ID,
				Name:          item.Name,
				OwnerID:       item.Owner.ID,
				TrackCount:    item.Tracks.Total,
				Collaborative: item.Collaborative,
			})
		}
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}
	return playlists, nil
}

// PlaylistTracks fetches up to limit tracks of a playlist, in playlist order.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]*music.Track, error) {
	var tracks []*music.Track
	for offset := 0; len(tracks) < limit; offset += trackPageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(min(trackPageSize, limit-len(tracks))))
		query.Set("offset", strconv.Itoa(offset))

		var page playlistTracksPage
		if err := c.get(ctx, "/playlists/"+playlistID+"/tracks", query, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if track := mapTrack(item.Track); track != nil {
				tracks = append(tracks, track)
			}
		}
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}
	return tracks, nil
}

// ArtistsByIDs fetches full artist records, chunking the id list as the API
// requires.
func (c *Client) ArtistsByIDs(ctx context.Context, ids []string) ([]*music.Artist, error) {
	artists := make([]*music.Artist, 0, len(ids))
	for start := 0; start < len(ids); start += artistChunkSize {
		end := min(start+artistChunkSize, len(ids))
		query := url.Values{}
		query.Set("ids", joinIDs(ids[start:end]))

		var payload artistsPayload
		if err := c.get(ctx, "/artists", query, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Artists {
			artists = append(artists, &music.Artist{
				ID:         item.ID,
				Name:       item.Name,
				Genres:     item.Genres,
				Popularity: item.Popularity,
			})
		}
	}
	return artists, nil
}

// AddTracksToPlaylist appends the track URIs to the playlist, in order, in
// chunks of at most 100. A chunk must succeed before the next is sent.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error {
	for start := 0; start < len(trackURIs); start += uriChunkSize {
		end := min(start+uriChunkSize, len(trackURIs))
		body := addTracksRequest{URIs: trackURIs[start:end]}
		if err := c.send(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", body); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTracksFromPlaylist removes every occurrence of the given URIs from
// the playlist.
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, playlistID string, trackURIs []string) error {
	for start := 0; start < len(trackURIs); start += uriChunkSize {
		end := min(start+uriChunkSize, len(trackURIs))
		body := removeTracksRequest{}
		for _, uri := range trackURIs[start:end] {
			body.Tracks = append(body.Tracks, removeTrackRef{URI: uri})
		}
		if err := c.send(ctx, http.MethodDelete, "/playlists/"+playlistID+"/tracks", body); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	resp, err := c.doWithRetry(ctx, req, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.doWithRetry(ctx, req, encoded)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// doWithRetry performs the request, retrying 429 and 5xx responses with
// exponential backoff, honoring Retry-After when present.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	httpClient, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	for attempt := 0; attempt < maxRetries; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		resp, err = httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("spotify: %s %s: %w", req.Method, req.URL.Path, err)
		}
		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < http.StatusInternalServerError {
			return nil, apiErrorFrom(resp, req)
		}
		// Retryable: 429 or 5xx.
		retryAfter := parseRetryAfter(resp)
		resp.Body.Close()
		if attempt == maxRetries-1 {
			break
		}
		backoff := baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("spotify: %s %s failed after %d attempts: status %d", req.Method, req.URL.Path, maxRetries, resp.StatusCode)
}

func apiErrorFrom(resp *http.Response, req *http.Request) error {
	defer resp.Body.Close()
	var payload apiError
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("spotify: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, payload.Error.Message)
	}
	return fmt.Errorf("spotify: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
}

func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// mapTrack converts a wire track to the domain type. Local files and
// unavailable tracks come back without an id and are dropped.
func mapTrack(payload *trackPayload) *music.Track {
	if payload == nil || payload.ID == "" || payload.IsLocal {
		return nil
	}
	track := &music.Track{
		ID:         payload.ID,
		URI:        payload.URI,
		Name:       payload.Name,
		Popularity: payload.Popularity,
	}
	for _, artist := range payload.Artists {
		track.ArtistIDs = append(track.ArtistIDs, artist.ID)
		track.ArtistNames = append(track.ArtistNames, artist.Name)
	}
	if len(payload.Album.Images) > 0 {
		track.ImageURL = payload.Album.Images[0].URL
	}
	return track
}

func joinIDs(ids []string) string {
	joined := ""
	for i, id := range ids {
		if i > 0 {
			joined += ","
		}
		joined += id
	}
	return joined
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
