package linking

import (
	"context"
	"time"

	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// sweepBatchSize caps how many overdue links one sweep pass processes
const sweepBatchSize = 500

// ExpiredLinkStats summarizes one sweep over overdue pending links
type ExpiredLinkStats struct {
	TotalOverdue int       `json:"total_overdue"`
	Expired      int       `json:"expired"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// LinkExpirationService expires pending client links whose disambiguation
// deadline passed. An expired link is not deleted; a later verify call
// reopens it with a fresh profile snapshot and deadline.
type LinkExpirationService struct {
	clientLinks linking.ClientLinkRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewLinkExpirationService creates a new LinkExpirationService
func NewLinkExpirationService(
	clientLinks linking.ClientLinkRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *LinkExpirationService {
	return &LinkExpirationService{
		clientLinks: clientLinks,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ExpireOverdueLinks finds pending links past their deadline and expires
// them one by one, publishing an event for each
func (s *LinkExpirationService) ExpireOverdueLinks(ctx context.Context) (*ExpiredLinkStats, error) {
	stats := &ExpiredLinkStats{
		ProcessedAt: time.Now(),
	}

	overdue, err := s.clientLinks.FindExpiredPending(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		s.logger.Error("Failed to find overdue pending links", zap.Error(err))
		return nil, err
	}

	stats.TotalOverdue = len(overdue)
	if stats.TotalOverdue == 0 {
		s.logger.Debug("No overdue pending links found")
		return stats, nil
	}

	for i := range overdue {
		link := &overdue[i]
		if err := s.expireLink(ctx, link); err != nil {
			s.logger.Error("Failed to expire pending link",
				zap.String("link_id", link.ID.String()),
				zap.String("partner_id", link.PartnerID.String()),
				zap.String("partner_client_id", link.PartnerClientID),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Expired++
	}

	s.logger.Info("Completed pending link expiry sweep",
		zap.Int("total", stats.TotalOverdue),
		zap.Int("expired", stats.Expired),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

func (s *LinkExpirationService) expireLink(ctx context.Context, link *linking.ClientLink) error {
	if err := link.Expire(); err != nil {
		return err
	}

	// Optimistic lock: a concurrent resolve that finalized this link wins
	// and the version check fails the sweep for this row
	if err := s.clientLinks.SaveWithLock(ctx, link); err != nil {
		return err
	}

	if s.eventBus != nil {
		for _, event := range link.GetDomainEvents() {
			if err := s.eventBus.Publish(ctx, event); err != nil {
				s.logger.Warn("Failed to publish link expiry event",
					zap.String("link_id", link.ID.String()),
					zap.Error(err),
				)
			}
		}
	}
	link.ClearDomainEvents()

	s.logger.Debug("Expired pending client link",
		zap.String("link_id", link.ID.String()),
		zap.String("partner_client_id", link.PartnerClientID),
	)

	return nil
}
