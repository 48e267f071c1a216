package search

import (
	"github.com/outfit/partner-api/internal/domain/shared"
)

const maxTravelersPerKind = 8

// TravelerInfo describes who is traveling. It is optional on search requests
// and defaults to a single adult.
type TravelerInfo struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// NewTravelerInfo creates validated traveler info
func NewTravelerInfo(adults, children int) (TravelerInfo, error) {
	if adults < 1 || adults > maxTravelersPerKind {
		return TravelerInfo{}, shared.NewDomainError("INVALID_TRAVELERS", "Adults must be between 1 and 8")
	}
	if children < 0 || children > maxTravelersPerKind {
		return TravelerInfo{}, shared.NewDomainError("INVALID_TRAVELERS", "Children must be between 0 and 8")
	}
	return TravelerInfo{Adults: adults, Children: children}, nil
}

// DefaultTravelerInfo returns the single-adult default
func DefaultTravelerInfo() TravelerInfo {
	return TravelerInfo{Adults: 1}
}

// Total returns the total traveler count
func (ti TravelerInfo) Total() int {
	return ti.Adults + ti.Children
}
