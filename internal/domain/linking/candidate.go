package linking

import (
	"time"

	"github.com/google/uuid"
)

// ClientCandidate is a possible match surfaced to the partner during client
// disambiguation. Candidates are transient: they are recomputed on every
// verify call and never persisted.
type ClientCandidate struct {
	ClientAccountID uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	LastSearchAt    *time.Time
	MatchConfidence float64
}
