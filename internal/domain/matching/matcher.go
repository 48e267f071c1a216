// Package matching implements the confidence scoring used to resolve partner
// client identities against existing Outfit accounts.
package matching

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

// Config contains the thresholds and weights driving match decisions
type Config struct {
	// AutoLinkThreshold is the score at or above which a single best
	// candidate is linked without human confirmation. Default: 0.95
	AutoLinkThreshold float64

	// CandidateThreshold is the minimum score for a record to appear in a
	// disambiguation candidate list. Default: 0.50
	CandidateThreshold float64

	// MaxCandidates caps the disambiguation list. Default: 5
	MaxCandidates int

	// ActivityWindowDays bounds the recency decay of last_search_at.
	// Default: 365
	ActivityWindowDays int

	// Weights blends the per-field scores
	Weights Weights
}

// DefaultConfig returns the default matching configuration
func DefaultConfig() Config {
	return Config{
		AutoLinkThreshold:  0.95,
		CandidateThreshold: 0.50,
		MaxCandidates:      5,
		ActivityWindowDays: 365,
		Weights:            DefaultWeights(),
	}
}

// Validate checks the configuration for consistency
func (c Config) Validate() error {
	if c.AutoLinkThreshold <= 0 || c.AutoLinkThreshold > 1 {
		return errors.New("auto link threshold must be in (0, 1]")
	}
	if c.CandidateThreshold <= 0 || c.CandidateThreshold > 1 {
		return errors.New("candidate threshold must be in (0, 1]")
	}
	if c.CandidateThreshold > c.AutoLinkThreshold {
		return errors.New("candidate threshold cannot exceed auto link threshold")
	}
	if c.MaxCandidates <= 0 {
		return errors.New("max candidates must be positive")
	}
	return nil
}

// IdentifiedRecord is a Record tied to the client account it belongs to
type IdentifiedRecord struct {
	AccountID uuid.UUID
	Record
}

// Candidate is a scored record eligible for linking
type Candidate struct {
	AccountID  uuid.UUID
	Record     Record
	Confidence float64
}

// Outcome is the result of evaluating a profile against a candidate pool.
// Exactly one of three states holds: AutoLink is set (link without
// confirmation), Candidates is non-empty (disambiguation required), or both
// are empty (create a new account).
type Outcome struct {
	AutoLink   *Candidate
	Candidates []Candidate
}

// ShouldCreate reports whether no existing record qualified at all
func (o Outcome) ShouldCreate() bool {
	return o.AutoLink == nil && len(o.Candidates) == 0
}

// Matcher applies the scoring policy to a pool of existing records
type Matcher struct {
	scorer *Scorer
	config Config
}

// NewMatcher creates a Matcher from the given configuration
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{
		scorer: NewScorer(cfg.Weights, cfg.ActivityWindowDays),
		config: cfg,
	}
}

// Scorer exposes the underlying scorer
func (m *Matcher) Scorer() *Scorer {
	return m.scorer
}

// Evaluate scores the profile against every record and applies the decision
// policy: a single candidate at or above the auto-link threshold wins
// outright; two or more above it are inherently ambiguous and fall through
// to disambiguation; otherwise all candidates at or above the candidate
// threshold are returned ranked descending by confidence.
func (m *Matcher) Evaluate(profile Profile, records []IdentifiedRecord) Outcome {
	candidates := make([]Candidate, 0, len(records))
	for _, rec := range records {
		score := m.scorer.Score(profile, rec.Record)
		if score >= m.config.CandidateThreshold {
			candidates = append(candidates, Candidate{
				AccountID:  rec.AccountID,
				Record:     rec.Record,
				Confidence: score,
			})
		}
	}

	if len(candidates) == 0 {
		return Outcome{}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].AccountID.String() < candidates[j].AccountID.String()
	})

	if candidates[0].Confidence >= m.config.AutoLinkThreshold {
		if len(candidates) == 1 || candidates[1].Confidence < m.config.AutoLinkThreshold {
			winner := candidates[0]
			return Outcome{AutoLink: &winner}
		}
	}

	if len(candidates) > m.config.MaxCandidates {
		candidates = candidates[:m.config.MaxCandidates]
	}

	return Outcome{Candidates: candidates}
}
