package matching

import (
	"math"
	"time"
)

// shortNameLen is the length at or below which Jaro-Winkler alone is too
// optimistic and the Levenshtein similarity is blended in.
const shortNameLen = 4

// Scorer computes similarity scores between an incoming client profile and
// an existing client record. All scores lie in [0, 1].
type Scorer struct {
	weights            Weights
	activityWindowDays int
}

// Weights controls how the per-field scores blend into the final confidence.
// Fields absent from either side are excluded and their weight is
// redistributed across the fields that are present.
type Weights struct {
	Name     float64
	Email    float64
	Activity float64
}

// DefaultWeights returns the default scoring weights
func DefaultWeights() Weights {
	return Weights{
		Name:     0.60,
		Email:    0.30,
		Activity: 0.10,
	}
}

// NewScorer creates a new Scorer. Non-positive activityWindowDays falls back
// to the default window.
func NewScorer(weights Weights, activityWindowDays int) *Scorer {
	if activityWindowDays <= 0 {
		activityWindowDays = 365
	}
	return &Scorer{
		weights:            weights,
		activityWindowDays: activityWindowDays,
	}
}

// Profile is the incoming client info supplied by the partner
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

// Record is an existing client account compared against a Profile
type Record struct {
	FirstName    string
	LastName     string
	Email        string
	LastSearchAt *time.Time
}

// Score computes the weighted confidence that profile and record describe
// the same person.
func (s *Scorer) Score(profile Profile, record Record) float64 {
	scores := make(map[string]float64, 3)
	weights := map[string]float64{
		"name":     s.weights.Name,
		"email":    s.weights.Email,
		"activity": s.weights.Activity,
	}

	scores["name"] = s.nameScore(profile, record)

	if profile.Email != "" && record.Email != "" {
		scores["email"] = s.ExactMatch(NormalizeEmail(profile.Email), NormalizeEmail(record.Email))
	}

	confidence := s.WeightedScore(scores, weights)

	// Recency is a boost, never a penalty: a dormant account can still be
	// the same person, so the activity term only enters the blend when it
	// improves on the identity fields.
	if record.LastSearchAt != nil {
		if activity := s.ActivityRecency(*record.LastSearchAt, time.Now()); activity > confidence {
			scores["activity"] = activity
			confidence = s.WeightedScore(scores, weights)
		}
	}

	return clamp01(confidence)
}

// nameScore averages the per-field similarity of first and last names
func (s *Scorer) nameScore(profile Profile, record Record) float64 {
	first := s.nameFieldScore(NormalizeName(profile.FirstName), NormalizeName(record.FirstName))
	last := s.nameFieldScore(NormalizeName(profile.LastName), NormalizeName(record.LastName))
	return (first + last) / 2
}

// nameFieldScore compares a single normalized name field. Short names blend
// in the Levenshtein similarity since Jaro-Winkler over-rewards shared
// prefixes on few characters.
func (s *Scorer) nameFieldScore(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}
	jw := s.JaroWinkler(a, b)
	if len(a) <= shortNameLen || len(b) <= shortNameLen {
		return (jw + s.Levenshtein(a, b)) / 2
	}
	return jw
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// JaroWinkler calculates the Jaro-Winkler similarity between two strings.
// Returns a value between 0.0 (no similarity) and 1.0 (exact match).
func (s *Scorer) JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	jaro := s.Jaro(a, b)

	// Winkler modification: boost for common prefix, capped at 4 chars
	prefixLen := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] == b[i] {
			prefixLen++
		} else {
			break
		}
	}

	const scalingFactor = 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro calculates the Jaro similarity between two strings
func (s *Scorer) Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// Levenshtein calculates the Levenshtein distance between two strings,
// expressed as a similarity score between 0.0 and 1.0.
func (s *Scorer) Levenshtein(a, b string) float64 {
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// ActivityRecency scores how recently a client was active, decaying
// linearly from 1.0 (now) to 0.0 at the configured window.
func (s *Scorer) ActivityRecency(lastActive, now time.Time) float64 {
	if lastActive.IsZero() || lastActive.After(now) {
		return 0.0
	}

	daysSince := now.Sub(lastActive).Hours() / 24
	if daysSince >= float64(s.activityWindowDays) {
		return 0.0
	}

	return 1.0 - daysSince/float64(s.activityWindowDays)
}

// WeightedScore calculates a weighted average over the fields present in
// scores. Weights for absent fields are ignored, which redistributes their
// share across the present ones.
func (s *Scorer) WeightedScore(scores map[string]float64, weights map[string]float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var totalWeight float64
	var weightedSum float64

	for field, score := range scores {
		weight := 1.0
		if w, ok := weights[field]; ok {
			weight = w
		}
		weightedSum += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}

	return weightedSum / totalWeight
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
