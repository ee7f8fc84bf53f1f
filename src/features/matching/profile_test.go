package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"sortify/src/music"
)

func TestProfileBuilder_AggregatesSample(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.artists["a1"] = &music.Artist{ID: "a1", Name: "Artist One", Genres: []string{"rock", "metal"}}
	catalog.artists["a2"] = &music.Artist{ID: "a2", Name: "Artist Two", Genres: []string{"rock"}}
	playlist := &music.Playlist{ID: "p1", Name: "Rock", OwnerID: "user1", TrackCount: 120}
	catalog.playlistTracks["p1"] = []*music.Track{
		// Both artists carry "rock"; the track still counts it once.
		{ID: "t1", ArtistIDs: []string{"a1", "a2"}, ArtistNames: []string{"Artist One", "Artist Two"}, Popularity: 60},
		{ID: "t2", ArtistIDs: []string{"a2"}, ArtistNames: []string{"Artist Two"}, Popularity: 40},
	}

	builder := NewProfileBuilder(catalog, NewProfileCache(time.Hour))
	profile, err := builder.Build(context.Background(), playlist, 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if profile.TrackCount != 120 {
		t.Errorf("expected catalog track count 120, got %d", profile.TrackCount)
	}
	if profile.SampledCount != 2 {
		t.Errorf("expected 2 sampled tracks, got %d", profile.SampledCount)
	}
	if !profile.ArtistIDs["a1"] || !profile.ArtistIDs["a2"] {
		t.Errorf("expected both artist ids, got %v", profile.ArtistIDs)
	}
	if profile.GenreCounts["rock"] != 2 {
		t.Errorf("expected rock counted once per track, got %d", profile.GenreCounts["rock"])
	}
	if profile.GenreCounts["metal"] != 1 {
		t.Errorf("expected metal count 1, got %d", profile.GenreCounts["metal"])
	}
	if profile.AvgPopularity != 50 {
		t.Errorf("expected avg popularity 50, got %v", profile.AvgPopularity)
	}
}

func TestProfileBuilder_DeduplicatesArtistLookup(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.artists["a1"] = &music.Artist{ID: "a1", Genres: []string{"rock"}}
	playlist := &music.Playlist{ID: "p1", Name: "Rock", OwnerID: "user1"}
	catalog.playlistTracks["p1"] = []*music.Track{
		{ID: "t1", ArtistIDs: []string{"a1"}},
		{ID: "t2", ArtistIDs: []string{"a1"}},
		{ID: "t3", ArtistIDs: []string{"a1", ""}},
	}

	builder := NewProfileBuilder(catalog, NewProfileCache(time.Hour))
	if _, err := builder.Build(context.Background(), playlist, 50); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog.artistCalls) != 1 {
		t.Fatalf("expected a single artist lookup, got %d", len(catalog.artistCalls))
	}
	if len(catalog.artistCalls[0]) != 1 || catalog.artistCalls[0][0] != "a1" {
		t.Errorf("expected deduplicated id list [a1], got %v", catalog.artistCalls[0])
	}
}

func TestProfileBuilder_EmptyPlaylist(t *testing.T) {
	catalog := NewMockCatalog()
	playlist := &music.Playlist{ID: "pEmpty", Name: "Empty", OwnerID: "user1"}

	builder := NewProfileBuilder(catalog, NewProfileCache(time.Hour))
	_, err := builder.Build(context.Background(), playlist, 50)
	if !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
}

func TestProfileBuilder_WritesThroughToCache(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.artists["a1"] = &music.Artist{ID: "a1", Genres: []string{"rock"}}
	playlist := &music.Playlist{ID: "p1", Name: "Rock", OwnerID: "user1"}
	catalog.playlistTracks["p1"] = []*music.Track{
		{ID: "t1", ArtistIDs: []string{"a1"}},
	}

	cache := NewProfileCache(time.Hour)
	builder := NewProfileBuilder(catalog, cache)
	built, err := builder.Build(context.Background(), playlist, 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cached, ok := cache.Get("p1")
	if !ok {
		t.Fatal("expected profile cached after build")
	}
	if cached != built {
		t.Error("expected cache to hold the built profile")
	}
}

func TestProfileBuilder_SampleSizeFallback(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.artists["a1"] = &music.Artist{ID: "a1", Genres: []string{"rock"}}
	playlist := &music.Playlist{ID: "p1", Name: "Rock", OwnerID: "user1"}
	tracks := make([]*music.Track, DefaultSampleSize+10)
	for i := range tracks {
		tracks[i] = &music.Track{ID: "t", ArtistIDs: []string{"a1"}}
	}
	catalog.playlistTracks["p1"] = tracks

	builder := NewProfileBuilder(catalog, NewProfileCache(time.Hour))
	profile, err := builder.Build(context.Background(), playlist, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.SampledCount != DefaultSampleSize {
		t.Errorf("expected fallback sample size %d, got %d", DefaultSampleSize, profile.SampledCount)
	}
}
