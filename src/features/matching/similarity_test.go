package matching

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSetOverlap_BothEmpty(t *testing.T) {
	if got := SetOverlap(map[string]bool{}, map[string]bool{}); got != 0 {
		t.Errorf("expected 0 for empty sets, got %v", got)
	}
}

func TestSetOverlap_Identical(t *testing.T) {
	set := map[string]bool{"rock": true, "metal": true}
	if got := SetOverlap(set, set); got != 1 {
		t.Errorf("expected 1 for identical sets, got %v", got)
	}
}

func TestSetOverlap_ExactFraction(t *testing.T) {
	a := map[string]bool{"rock": true, "metal": true}
	b := map[string]bool{"rock": true, "jazz": true}
	if got := SetOverlap(a, b); !almostEqual(got, 1.0/3.0) {
		t.Errorf("expected 1/3, got %v", got)
	}
}

func TestSetOverlap_Symmetric(t *testing.T) {
	a := map[string]bool{"rock": true, "pop": true, "jazz": true}
	b := map[string]bool{"pop": true, "electronic": true}
	if SetOverlap(a, b) != SetOverlap(b, a) {
		t.Error("expected symmetric overlap")
	}
}

func TestArtistOverlap_EmptySides(t *testing.T) {
	set := map[string]bool{"a1": true}
	if got := ArtistOverlap(nil, set); got != 0 {
		t.Errorf("expected 0 for empty track artists, got %v", got)
	}
	if got := ArtistOverlap([]string{"a1"}, map[string]bool{}); got != 0 {
		t.Errorf("expected 0 for empty playlist artists, got %v", got)
	}
}

func TestArtistOverlap_SingleMatchSaturates(t *testing.T) {
	got := ArtistOverlap([]string{"a1"}, map[string]bool{"a1": true, "a2": true})
	if got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestArtistOverlap_HalfMatchPlusBonus(t *testing.T) {
	got := ArtistOverlap([]string{"a1", "a2"}, map[string]bool{"a1": true, "a3": true})
	if got != 1.0 {
		t.Errorf("expected 1.0 (0.5 + 0.5), got %v", got)
	}
}

func TestArtistOverlap_NoSharedArtists(t *testing.T) {
	// The flat bonus applies even without matches; only empty sides score 0.
	got := ArtistOverlap([]string{"a1"}, map[string]bool{"b1": true})
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestPopularitySimilarity(t *testing.T) {
	cases := []struct {
		a, b float64
		want float64
	}{
		{50, 50, 1},
		{50, 70, 0.5},
		{0, 40, 0},
		{0, 100, 0},
	}
	for _, tc := range cases {
		if got := PopularitySimilarity(tc.a, tc.b); !almostEqual(got, tc.want) {
			t.Errorf("PopularitySimilarity(%v,%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPopularitySimilarity_Symmetric(t *testing.T) {
	if PopularitySimilarity(30, 80) != PopularitySimilarity(80, 30) {
		t.Error("expected symmetric similarity")
	}
}

func TestWeightedGenreScore_EmptyInputs(t *testing.T) {
	if got := WeightedGenreScore(nil, map[string]int{"rock": 1}); got != 0 {
		t.Errorf("expected 0 for empty genres, got %v", got)
	}
	if got := WeightedGenreScore([]string{"rock"}, map[string]int{}); got != 0 {
		t.Errorf("expected 0 for empty table, got %v", got)
	}
}

func TestWeightedGenreScore_NoMatches(t *testing.T) {
	if got := WeightedGenreScore([]string{"country"}, map[string]int{"rock": 5}); got != 0 {
		t.Errorf("expected 0 for no matching genres, got %v", got)
	}
}

func TestWeightedGenreScore_FrequentGenreScoresHigher(t *testing.T) {
	table := map[string]int{"rock": 10, "metal": 2}
	rock := WeightedGenreScore([]string{"rock"}, table)
	metal := WeightedGenreScore([]string{"metal"}, table)
	if !(rock > metal) {
		t.Errorf("expected rock (%v) > metal (%v)", rock, metal)
	}
	if !(metal > 0) {
		t.Errorf("expected metal score > 0, got %v", metal)
	}
}

func TestWeightedGenreScore_ClampedAtOne(t *testing.T) {
	// A single perfectly-frequent genre would exceed 1 via the log bonus.
	got := WeightedGenreScore([]string{"rock"}, map[string]int{"rock": 1})
	if got != 1.0 {
		t.Errorf("expected clamped 1.0, got %v", got)
	}
}

func TestWeightedGenreScore_NonMatchingGenresDilute(t *testing.T) {
	table := map[string]int{"rock": 5}
	pure := WeightedGenreScore([]string{"rock"}, table)
	diluted := WeightedGenreScore([]string{"rock", "country", "folk"}, table)
	if !(pure > diluted) {
		t.Errorf("expected pure (%v) > diluted (%v)", pure, diluted)
	}
}

func TestGenreOverlap(t *testing.T) {
	playlist := map[string]bool{"rock": true, "jazz": true}
	if got := GenreOverlap([]string{"rock", "metal"}, playlist); !almostEqual(got, 1.0/3.0) {
		t.Errorf("expected 1/3, got %v", got)
	}
	if got := GenreOverlap(nil, playlist); got != 0 {
		t.Errorf("expected 0 for empty track genres, got %v", got)
	}
}
