package auth

import (
	"context"
	"errors"
	"time"

	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrInvalidAPIKey is returned for any key that fails verification. The
// message is deliberately uniform so callers cannot tell unknown, rotated,
// and suspended keys apart.
var ErrInvalidAPIKey = shared.NewDomainError("INVALID_API_KEY", "Invalid API key")

// APIKeyVerifier authenticates partner API keys. Keys that pass the bcrypt
// check are cached by prefix so repeat calls skip bcrypt entirely; cache
// failures fall through to the repository.
type APIKeyVerifier struct {
	repo     partner.PartnerRepository
	cache    partner.CredentialCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAPIKeyVerifier creates a new API key verifier. A nil cache disables
// credential caching, as does cfg.APIKeyCacheEnabled being false.
func NewAPIKeyVerifier(repo partner.PartnerRepository, cache partner.CredentialCache, cfg config.AuthConfig, logger *zap.Logger) *APIKeyVerifier {
	if !cfg.APIKeyCacheEnabled {
		cache = nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &APIKeyVerifier{
		repo:     repo,
		cache:    cache,
		cacheTTL: cfg.APIKeyCacheTTL,
		logger:   logger,
	}
}

// Verify authenticates a raw API key and returns the verified credential
func (v *APIKeyVerifier) Verify(ctx context.Context, rawKey string) (*partner.VerifiedCredential, error) {
	prefix, secret, err := partner.ParseAPIKey(rawKey)
	if err != nil {
		return nil, err
	}

	if v.cache != nil {
		cred, cacheErr := v.cache.Get(ctx, prefix)
		if cacheErr != nil {
			v.logger.Warn("Credential cache read failed, falling through to repository",
				zap.String("prefix", prefix),
				zap.Error(cacheErr))
		} else if cred != nil && cred.MatchesKey(rawKey) {
			if cred.Status != partner.PartnerStatusActive {
				return nil, ErrInvalidAPIKey
			}
			return cred, nil
		}
		// A digest mismatch means the cached entry belongs to a superseded
		// key for this prefix; the repository is authoritative.
	}

	p, err := v.repo.FindByAPIKeyPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}

	if !p.VerifySecret(secret) {
		return nil, ErrInvalidAPIKey
	}
	if !p.IsActive() {
		return nil, ErrInvalidAPIKey
	}

	cred := partner.NewVerifiedCredential(p, rawKey)
	if v.cache != nil {
		if cacheErr := v.cache.Set(ctx, prefix, cred, v.cacheTTL); cacheErr != nil {
			v.logger.Warn("Failed to cache verified credential",
				zap.String("prefix", prefix),
				zap.Error(cacheErr))
		}
	}

	return cred, nil
}
