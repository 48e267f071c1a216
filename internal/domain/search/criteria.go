package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/domain/shared/valueobject"
)

const (
	maxStayNights = 30
	maxRooms      = 8
)

// Criteria is the structured form of a hotel search. Free-text queries skip
// it and are handed to the search engine untouched.
type Criteria struct {
	Destination    string             `json:"destination"`
	CheckIn        time.Time          `json:"check_in"`
	CheckOut       time.Time          `json:"check_out"`
	Rooms          int                `json:"rooms"`
	MaxNightlyRate *valueobject.Money `json:"max_nightly_rate,omitempty"`
}

// NewCriteria creates validated search criteria. Dates are compared at day
// granularity in UTC; a zero rooms count defaults to one room.
func NewCriteria(destination string, checkIn, checkOut time.Time, rooms int, maxNightlyRate *valueobject.Money) (*Criteria, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "Destination cannot be empty")
	}
	if len(destination) > 200 {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "Destination cannot exceed 200 characters")
	}
	if err := validateStayDates(checkIn, checkOut); err != nil {
		return nil, err
	}
	if rooms == 0 {
		rooms = 1
	}
	if rooms < 1 || rooms > maxRooms {
		return nil, shared.NewDomainError("INVALID_ROOMS", fmt.Sprintf("Rooms must be between 1 and %d", maxRooms))
	}
	if maxNightlyRate != nil && !maxNightlyRate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Max nightly rate must be positive")
	}

	return &Criteria{
		Destination:    destination,
		CheckIn:        toDay(checkIn),
		CheckOut:       toDay(checkOut),
		Rooms:          rooms,
		MaxNightlyRate: maxNightlyRate,
	}, nil
}

// Nights returns the stay length in nights
func (c *Criteria) Nights() int {
	return int(c.CheckOut.Sub(c.CheckIn).Hours() / 24)
}

func validateStayDates(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Check-in and check-out dates are required")
	}

	in := toDay(checkIn)
	out := toDay(checkOut)
	today := toDay(time.Now())

	if in.Before(today) {
		return shared.NewDomainError("INVALID_DATES", "Check-in date cannot be in the past")
	}
	if !out.After(in) {
		return shared.NewDomainError("INVALID_DATES", "Check-out date must be after check-in date")
	}
	if out.Sub(in) > maxStayNights*24*time.Hour {
		return shared.NewDomainError("INVALID_DATES", fmt.Sprintf("Stay cannot exceed %d nights", maxStayNights))
	}
	return nil
}

func toDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
