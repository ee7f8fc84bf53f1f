package matching

import "math"

// SetOverlap returns the Jaccard similarity of two label sets. Two empty sets
// score 0, not 1: empty-vs-empty means "no evidence of similarity".
func SetOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for label := range a {
		if b[label] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// ArtistOverlap scores how many of the track's artists appear in the playlist's
// artist set. A single shared artist is already a very strong signal, hence the
// flat +0.5 on top of the ratio, capped at 1. A track with one artist that the
// playlist contains scores 1.0.
func ArtistOverlap(trackArtistIDs []string, playlistArtistIDs map[string]bool) float64 {
	if len(trackArtistIDs) == 0 || len(playlistArtistIDs) == 0 {
		return 0
	}
	matches := 0
	for _, id := range trackArtistIDs {
		if playlistArtistIDs[id] {
			matches++
		}
	}
	return math.Min(1.0, float64(matches)/float64(len(trackArtistIDs))+0.5)
}

// GenreOverlap is the Jaccard similarity between the track's genres and the
// playlist's genre labels, ignoring how often each genre occurs.
func GenreOverlap(trackGenres []string, playlistGenres map[string]bool) float64 {
	return SetOverlap(toSet(trackGenres), playlistGenres)
}

// WeightedGenreScore rewards matching genres that are frequent within the
// playlist, with a log bonus for matching several genres at once. The sum is
// normalized by the track's total genre count, so genres that don't match
// still dilute the average.
func WeightedGenreScore(trackGenres []string, genreCounts map[string]int) float64 {
	if len(trackGenres) == 0 || len(genreCounts) == 0 {
		return 0
	}
	maxFreq := 0
	for _, count := range genreCounts {
		if count > maxFreq {
			maxFreq = count
		}
	}
	if maxFreq == 0 {
		return 0
	}
	sum := 0.0
	matches := 0
	for _, genre := range trackGenres {
		if count, ok := genreCounts[genre]; ok {
			sum += float64(count) / float64(maxFreq)
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	score := (sum / float64(len(trackGenres))) * (1 + math.Log10(float64(matches)+1)/2)
	return math.Min(1.0, score)
}

// PopularitySimilarity decays linearly with the popularity gap: identical
// popularity scores 1, a gap of 20 scores 0.5, a gap of 40 or more scores 0.
func PopularitySimilarity(trackPopularity, playlistAvgPopularity float64) float64 {
	return math.Max(0, 1-math.Abs(trackPopularity-playlistAvgPopularity)/40)
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, label := range labels {
		set[label] = true
	}
	return set
}
