package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &Client{baseURL: server.URL, httpClient: server.Client()}
	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, userPayload{ID: "user1", DisplayName: "Test User"})
	}))
	defer server.Close()

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != "user1" || user.DisplayName != "Test User" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLikedTracks_PaginatesUntilLimit(t *testing.T) {
	var offsets []string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("offset"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > 50 {
			t.Errorf("page limit exceeds 50: %d", limit)
		}
		page := savedTracksPage{Next: "more"}
		for i := 0; i < limit; i++ {
			id := fmt.Sprintf("t%d", offset+i)
			page.Items = append(page.Items, savedTrackItem{Track: trackPayload{ID: id, URI: "spotify:track:" + id, Name: id}})
		}
		writeJSON(t, w, page)
	}))
	defer server.Close()

	tracks, err := client.LikedTracks(context.Background(), 120)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tracks) != 120 {
		t.Fatalf("expected 120 tracks, got %d", len(tracks))
	}
	if len(offsets) != 3 || offsets[0] != "0" || offsets[1] != "50" || offsets[2] != "100" {
		t.Errorf("unexpected pagination offsets: %v", offsets)
	}
	if tracks[0].ID != "t0" || tracks[119].ID != "t119" {
		t.Errorf("tracks out of order: first %s last %s", tracks[0].ID, tracks[119].ID)
	}
}

func TestLikedTracks_StopsOnLastPage(t *testing.T) {
	calls := 0
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(t, w, savedTracksPage{
			Items: []savedTrackItem{{Track: trackPayload{ID: "t1"}}},
			Next:  "",
		})
	}))
	defer server.Close()

	tracks, err := client.LikedTracks(context.Background(), 200)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 request for a final page, got %d", calls)
	}
	if len(tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(tracks))
	}
}

func TestPlaylistTracks_SkipsNullAndLocalTracks(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, playlistTracksPage{
			Items: []playlistTrackItem{
				{Track: nil},
				{Track: &trackPayload{ID: "local1", IsLocal: true}},
				{Track: &trackPayload{}},
				{Track: &trackPayload{ID: "t1", Name: "Kept"}},
			},
		})
	}))
	defer server.Close()

	tracks, err := client.PlaylistTracks(context.Background(), "p1", 100)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "t1" {
		t.Errorf("expected only the playable track, got %+v", tracks)
	}
}

func TestArtistsByIDs_ChunksRequests(t *testing.T) {
	var chunkSizes []int
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		chunkSizes = append(chunkSizes, len(ids))
		payload := artistsPayload{}
		for _, id := range ids {
			payload.Artists = append(payload.Artists, artistPayload{ID: id, Name: id})
		}
		writeJSON(t, w, payload)
	}))
	defer server.Close()

	ids := make([]string, 75)
	for i := range ids {
		ids[i] = fmt.Sprintf("a%d", i)
	}
	artists, err := client.ArtistsByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(artists) != 75 {
		t.Fatalf("expected 75 artists, got %d", len(artists))
	}
	if len(chunkSizes) != 2 || chunkSizes[0] != 50 || chunkSizes[1] != 25 {
		t.Errorf("expected chunks [50 25], got %v", chunkSizes)
	}
}

func TestAddTracksToPlaylist_ChunksInOrder(t *testing.T) {
	var chunks [][]string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body addTracksRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		chunks = append(chunks, body.URIs)
		writeJSON(t, w, map[string]string{"snapshot_id": "s1"})
	}))
	defer server.Close()

	uris := make([]string, 150)
	for i := range uris {
		uris[i] = fmt.Sprintf("spotify:track:t%d", i)
	}
	if err := client.AddTracksToPlaylist(context.Background(), "p1", uris); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chunks) != 2 || len(chunks[0]) != 100 || len(chunks[1]) != 50 {
		t.Fatalf("expected chunks of 100 then 50, got %d chunks", len(chunks))
	}
	if chunks[0][0] != "spotify:track:t0" || chunks[1][0] != "spotify:track:t100" {
		t.Errorf("chunks out of order: %s, %s", chunks[0][0], chunks[1][0])
	}
}

func TestRemoveTracksFromPlaylist(t *testing.T) {
	var removed []string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		var body removeTracksRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		for _, ref := range body.Tracks {
			removed = append(removed, ref.URI)
		}
		writeJSON(t, w, map[string]string{"snapshot_id": "s1"})
	}))
	defer server.Close()

	err := client.RemoveTracksFromPlaylist(context.Background(), "p1", []string{"spotify:track:t1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(removed) != 1 || removed[0] != "spotify:track:t1" {
		t.Errorf("unexpected removals: %v", removed)
	}
}

func TestDoWithRetry_RetriesRateLimit(t *testing.T) {
	calls := 0
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(t, w, userPayload{ID: "user1"})
	}))
	defer server.Close()

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
	if user.ID != "user1" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestDoWithRetry_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		writeJSON(t, w, apiError{Error: struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		}{Status: 403, Message: "Insufficient client scope"}})
	}))
	defer server.Close()

	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if calls != 1 {
		t.Errorf("expected no retry on client error, got %d attempts", calls)
	}
	if !strings.Contains(err.Error(), "Insufficient client scope") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

func TestDoWithRetry_RetryWithBodyResendsPayload(t *testing.T) {
	var bodies []int
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body addTracksRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request on attempt %d: %v", len(bodies)+1, err)
		}
		bodies = append(bodies, len(body.URIs))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, map[string]string{"snapshot_id": "s1"})
	}))
	defer server.Close()

	err := client.AddTracksToPlaylist(context.Background(), "p1", []string{"spotify:track:t1", "spotify:track:t2"})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(bodies) != 2 || bodies[0] != 2 || bodies[1] != 2 {
		t.Errorf("expected full body on both attempts, got %v", bodies)
	}
}
