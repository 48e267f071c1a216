package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/partner"
)

// CreatePartnerRequest is the request to provision a new partner
type CreatePartnerRequest struct {
	Name         string `json:"name" binding:"required,max=200" example:"TravelCo"`
	ContactEmail string `json:"contact_email,omitempty" binding:"omitempty,email,max=200" example:"api-team@travelco.example"`
}

// PartnerResponse is the partner representation returned to admins. Key
// material never appears here; only the lookup prefix does.
type PartnerResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	ContactEmail string     `json:"contact_email,omitempty"`
	APIKeyPrefix string     `json:"api_key_prefix"`
	Status       string     `json:"status"`
	KeyRotatedAt *time.Time `json:"key_rotated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PartnerCreatedResponse carries the raw API key exactly once, at creation.
// It is never readable again; losing it means rotating the key.
type PartnerCreatedResponse struct {
	PartnerResponse
	APIKey string `json:"api_key"`
}

// APIKeyRotatedResponse carries the replacement key exactly once, at rotation
type APIKeyRotatedResponse struct {
	PartnerID    uuid.UUID  `json:"partner_id"`
	APIKey       string     `json:"api_key"`
	APIKeyPrefix string     `json:"api_key_prefix"`
	KeyRotatedAt *time.Time `json:"key_rotated_at,omitempty"`
}

// PartnerListFilter carries pagination and filtering for partner listings
type PartnerListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=active suspended"`
	Search   string `form:"search" binding:"omitempty,max=200"`
}

// ToPartnerResponse converts a partner aggregate to its response form
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:           p.ID,
		Name:         p.Name,
		ContactEmail: p.ContactEmail,
		APIKeyPrefix: p.APIKeyPrefix,
		Status:       p.Status.String(),
		KeyRotatedAt: p.KeyRotatedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToPartnerResponses converts a list of partner aggregates
func ToPartnerResponses(partners []partner.Partner) []PartnerResponse {
	responses := make([]PartnerResponse, 0, len(partners))
	for i := range partners {
		responses = append(responses, ToPartnerResponse(&partners[i]))
	}
	return responses
}
