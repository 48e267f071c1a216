// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLinkStoreMetricsProvider implements LinkStoreMetricsProvider using GORM.
// It queries the link store tables directly for aggregated metrics.
type GormLinkStoreMetricsProvider struct {
	db *gorm.DB
}

// NewGormLinkStoreMetricsProvider creates a new GormLinkStoreMetricsProvider.
func NewGormLinkStoreMetricsProvider(db *gorm.DB) *GormLinkStoreMetricsProvider {
	return &GormLinkStoreMetricsProvider{db: db}
}

// CountPendingClientLinksByPartner returns the number of unresolved client links per partner.
func (p *GormLinkStoreMetricsProvider) CountPendingClientLinksByPartner(ctx context.Context) (map[uuid.UUID]int64, error) {
	type result struct {
		PartnerID uuid.UUID `gorm:"column:partner_id"`
		Pending   int64     `gorm:"column:pending"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("partner_client_links").
		Select("partner_id, COUNT(*) as pending").
		Where("status = ?", "pending").
		Group("partner_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.PartnerID] = r.Pending
	}

	return m, nil
}

// CountActiveSearchSessions returns the number of non-expired search sessions.
func (p *GormLinkStoreMetricsProvider) CountActiveSearchSessions(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("search_sessions").
		Where("status = ? AND expires_at > ?", "active", time.Now()).
		Count(&count).Error

	return count, err
}
