package search

import (
	"context"
	"time"

	"github.com/outfit/partner-api/internal/domain/search"
	"go.uber.org/zap"
)

// SessionExpirationService expires search sessions whose deeplink deadline
// passed. Expiry is a bulk status flip; nothing downstream reacts to an
// individual session expiring, so no per-row events are published.
type SessionExpirationService struct {
	sessions search.SearchSessionRepository
	logger   *zap.Logger
}

// NewSessionExpirationService creates a new SessionExpirationService
func NewSessionExpirationService(sessions search.SearchSessionRepository, logger *zap.Logger) *SessionExpirationService {
	return &SessionExpirationService{
		sessions: sessions,
		logger:   logger,
	}
}

// ExpireSessions marks all overdue active sessions as expired and returns
// how many rows changed
func (s *SessionExpirationService) ExpireSessions(ctx context.Context) (int64, error) {
	count, err := s.sessions.ExpireBefore(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to expire search sessions", zap.Error(err))
		return 0, err
	}

	if count > 0 {
		s.logger.Info("Expired search sessions", zap.Int64("count", count))
	}

	return count, nil
}
