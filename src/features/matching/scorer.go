package matching

import (
	"math"

	"sortify/src/music"
)

// Fixed weights of the composite score. They sum to exactly 1.0.
const (
	weightArtist        = 0.35
	weightGenre         = 0.25
	weightWeightedGenre = 0.25
	weightPopularity    = 0.15
)

// Breakdown holds the four sub-scores behind a composite score, each rounded
// to 2 decimal places independently. The rounded components may not re-sum to
// exactly the rounded composite; that is accepted, not corrected.
type Breakdown struct {
	ArtistScore        float64 `json:"artist_score"`
	GenreScore         float64 `json:"genre_score"`
	WeightedGenreScore float64 `json:"weighted_genre_score"`
	PopularityScore    float64 `json:"popularity_score"`
}

// Score computes the weighted composite similarity of a track against a
// playlist profile. Pure and deterministic given its inputs.
func Score(track *music.Track, profile *Profile) (float64, Breakdown) {
	artist := ArtistOverlap(track.ArtistIDs, profile.ArtistIDs)
	genre := GenreOverlap(track.Genres, profile.GenreSet())
	weighted := WeightedGenreScore(track.Genres, profile.GenreCounts)
	popularity := PopularitySimilarity(float64(track.Popularity), profile.AvgPopularity)

	composite := weightArtist*artist +
		weightGenre*genre +
		weightWeightedGenre*weighted +
		weightPopularity*popularity

	breakdown := Breakdown{
		ArtistScore:        round2(artist),
		GenreScore:         round2(genre),
		WeightedGenreScore: round2(weighted),
		PopularityScore:    round2(popularity),
	}
	return round2(clamp01(composite)), breakdown
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
