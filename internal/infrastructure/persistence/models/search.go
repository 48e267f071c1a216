package models

import (
	"time"

	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchSessionModel is the persistence model for the SearchSession aggregate.
// Structured criteria are flattened into nullable columns; a NULL destination
// marks a free-text session.
type SearchSessionModel struct {
	PartnerAggregateModel
	AgentAccountID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	ClientAccountID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Query                  string           `gorm:"type:varchar(500)"`
	Destination            *string          `gorm:"type:varchar(200)"`
	CheckIn                *time.Time       `gorm:"type:date"`
	CheckOut               *time.Time       `gorm:"type:date"`
	Rooms                  *int
	MaxNightlyRate         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxNightlyRateCurrency string           `gorm:"type:varchar(3)"`
	Adults                 int              `gorm:"not null;default:1"`
	Children               int              `gorm:"not null;default:0"`
	DeeplinkURL            string           `gorm:"type:text"`
	Status                 string           `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt              time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SearchSessionModel) TableName() string {
	return "search_sessions"
}

// ToDomain converts the persistence model to a domain SearchSession aggregate.
func (m *SearchSessionModel) ToDomain() *search.SearchSession {
	session := &search.SearchSession{
		AgentAccountID:  m.AgentAccountID,
		ClientAccountID: m.ClientAccountID,
		Query:           m.Query,
		Criteria:        m.criteriaToDomain(),
		TravelerInfo:    search.TravelerInfo{Adults: m.Adults, Children: m.Children},
		DeeplinkURL:     m.DeeplinkURL,
		Status:          search.SessionStatus(m.Status),
		ExpiresAt:       m.ExpiresAt,
	}
	m.PopulatePartnerAggregateRoot(&session.PartnerAggregateRoot)
	return session
}

// FromDomain populates the persistence model from a domain SearchSession aggregate.
func (m *SearchSessionModel) FromDomain(s *search.SearchSession) {
	m.FromDomainPartnerAggregateRoot(s.PartnerAggregateRoot)
	m.AgentAccountID = s.AgentAccountID
	m.ClientAccountID = s.ClientAccountID
	m.Query = s.Query
	m.Destination = nil
	m.CheckIn = nil
	m.CheckOut = nil
	m.Rooms = nil
	m.MaxNightlyRate = nil
	m.MaxNightlyRateCurrency = ""
	if c := s.Criteria; c != nil {
		destination := c.Destination
		checkIn := c.CheckIn
		checkOut := c.CheckOut
		rooms := c.Rooms
		m.Destination = &destination
		m.CheckIn = &checkIn
		m.CheckOut = &checkOut
		m.Rooms = &rooms
		if c.MaxNightlyRate != nil {
			rate := c.MaxNightlyRate.Amount()
			m.MaxNightlyRate = &rate
			m.MaxNightlyRateCurrency = string(c.MaxNightlyRate.Currency())
		}
	}
	m.Adults = s.TravelerInfo.Adults
	m.Children = s.TravelerInfo.Children
	m.DeeplinkURL = s.DeeplinkURL
	m.Status = string(s.Status)
	m.ExpiresAt = s.ExpiresAt
}

// SearchSessionModelFromDomain creates a new persistence model from a domain SearchSession aggregate.
func SearchSessionModelFromDomain(s *search.SearchSession) *SearchSessionModel {
	m := &SearchSessionModel{}
	m.FromDomain(s)
	return m
}

func (m *SearchSessionModel) criteriaToDomain() *search.Criteria {
	if m.Destination == nil {
		return nil
	}
	criteria := &search.Criteria{
		Destination: *m.Destination,
	}
	if m.CheckIn != nil {
		criteria.CheckIn = *m.CheckIn
	}
	if m.CheckOut != nil {
		criteria.CheckOut = *m.CheckOut
	}
	if m.Rooms != nil {
		criteria.Rooms = *m.Rooms
	}
	if m.MaxNightlyRate != nil {
		currency := valueobject.Currency(m.MaxNightlyRateCurrency)
		if currency == "" {
			currency = valueobject.DefaultCurrency
		}
		rate, err := valueobject.NewMoney(*m.MaxNightlyRate, currency)
		if err == nil {
			criteria.MaxNightlyRate = &rate
		}
	}
	return criteria
}
