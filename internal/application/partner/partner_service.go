package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// PartnerService provisions and administers partner platforms. It is the
// backing for the admin surface, not the partner-facing API.
type PartnerService struct {
	partners partner.PartnerRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partners partner.PartnerRepository, eventBus shared.EventPublisher, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		partners: partners,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create provisions a partner and returns its raw API key. The key is shown
// exactly once; only its bcrypt hash and lookup prefix are stored.
func (s *PartnerService) Create(ctx context.Context, req CreatePartnerRequest) (*PartnerCreatedResponse, error) {
	exists, err := s.partners.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner with this name already exists")
	}

	p, rawKey, err := partner.NewPartner(req.Name, req.ContactEmail)
	if err != nil {
		return nil, err
	}

	if err := s.partners.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("Partner provisioned",
		zap.String("partner_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.String("api_key_prefix", p.APIKeyPrefix),
	)

	return &PartnerCreatedResponse{
		PartnerResponse: ToPartnerResponse(p),
		APIKey:          rawKey,
	}, nil
}

// GetByID retrieves a partner by ID
func (s *PartnerService) GetByID(ctx context.Context, partnerID uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	response := ToPartnerResponse(p)
	return &response, nil
}

// List retrieves partners with filtering and pagination
func (s *PartnerService) List(ctx context.Context, filter PartnerListFilter) ([]PartnerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	partners, err := s.partners.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.partners.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPartnerResponses(partners), total, nil
}

// RotateKey replaces the partner's API key and returns the new raw key. The
// old key stops authenticating as soon as the save lands.
func (s *PartnerService) RotateKey(ctx context.Context, partnerID uuid.UUID) (*APIKeyRotatedResponse, error) {
	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	rawKey, err := p.RotateAPIKey()
	if err != nil {
		return nil, err
	}

	if err := s.partners.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("Partner API key rotated",
		zap.String("partner_id", p.ID.String()),
		zap.String("api_key_prefix", p.APIKeyPrefix),
	)

	return &APIKeyRotatedResponse{
		PartnerID:    p.ID,
		APIKey:       rawKey,
		APIKeyPrefix: p.APIKeyPrefix,
		KeyRotatedAt: p.KeyRotatedAt,
	}, nil
}

// Suspend blocks the partner from the API without destroying its links
func (s *PartnerService) Suspend(ctx context.Context, partnerID uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Suspend(); err != nil {
		return nil, err
	}

	if err := s.partners.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("Partner suspended", zap.String("partner_id", p.ID.String()))

	response := ToPartnerResponse(p)
	return &response, nil
}

// Activate reinstates a suspended partner
func (s *PartnerService) Activate(ctx context.Context, partnerID uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Activate(); err != nil {
		return nil, err
	}

	if err := s.partners.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("Partner activated", zap.String("partner_id", p.ID.String()))

	response := ToPartnerResponse(p)
	return &response, nil
}

func (s *PartnerService) publishEvents(ctx context.Context, src eventSource) {
	if s.eventBus == nil {
		return
	}
	for _, event := range src.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	src.ClearDomainEvents()
}
