package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/logger"
	"github.com/outfit/partner-api/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Partner auth context keys
const (
	PartnerCredentialKey = "partner_credential"
	PartnerIDKey         = "partner_id"
	PartnerNameKey       = "partner_name"
	APIKeyHeader         = "X-Outfit-Api-Key"
)

// KeyVerifier authenticates a raw partner API key
type KeyVerifier interface {
	Verify(ctx context.Context, rawKey string) (*partner.VerifiedCredential, error)
}

// APIKeyMiddlewareConfig holds configuration for API key middleware
type APIKeyMiddlewareConfig struct {
	// Verifier is required for key validation
	Verifier KeyVerifier
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback if the key is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultAPIKeyConfig returns default API key middleware configuration
func DefaultAPIKeyConfig(verifier KeyVerifier) APIKeyMiddlewareConfig {
	return APIKeyMiddlewareConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
		OnError: nil,
		Logger:  nil,
	}
}

// APIKeyAuthMiddleware creates partner API key authentication middleware
func APIKeyAuthMiddleware(verifier KeyVerifier) gin.HandlerFunc {
	return APIKeyAuthMiddlewareWithConfig(DefaultAPIKeyConfig(verifier))
}

// APIKeyAuthMiddlewareWithConfig creates partner API key authentication middleware with custom config
func APIKeyAuthMiddlewareWithConfig(cfg APIKeyMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Check skip paths
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		// Check skip path prefixes
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		rawKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if rawKey == "" {
			handleAPIKeyError(c, cfg, shared.NewDomainError(dto.ErrCodeInvalidAPIKey, "Missing API key"))
			return
		}

		cred, err := cfg.Verifier.Verify(c.Request.Context(), rawKey)
		if err != nil {
			handleAPIKeyError(c, cfg, err)
			return
		}

		// Store the credential in context for downstream use
		c.Set(PartnerCredentialKey, cred)
		c.Set(PartnerIDKey, cred.PartnerID.String())
		c.Set(PartnerNameKey, cred.PartnerName)

		// Also set in request context for logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithPartnerID(ctx, log, cred.PartnerID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("API key authentication successful",
				zap.String("partner_id", cred.PartnerID.String()),
				zap.String("partner_name", cred.PartnerName),
			)
		}

		c.Next()
	}
}

// handleAPIKeyError handles authentication errors. Domain errors keep their
// code; anything else means the verification backend itself failed.
func handleAPIKeyError(c *gin.Context, cfg APIKeyMiddlewareConfig, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("API key authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "Authentication backend unavailable"))
}

// GetPartnerCredential retrieves the verified credential from gin.Context
func GetPartnerCredential(c *gin.Context) *partner.VerifiedCredential {
	if cred, exists := c.Get(PartnerCredentialKey); exists {
		if vc, ok := cred.(*partner.VerifiedCredential); ok {
			return vc
		}
	}
	return nil
}

// MustGetPartnerCredential retrieves the verified credential or panics if not found
func MustGetPartnerCredential(c *gin.Context) *partner.VerifiedCredential {
	cred := GetPartnerCredential(c)
	if cred == nil {
		panic("partner credential not found in context")
	}
	return cred
}

// GetPartnerID retrieves the authenticated partner ID from context
func GetPartnerID(c *gin.Context) string {
	if partnerID, exists := c.Get(PartnerIDKey); exists {
		if id, ok := partnerID.(string); ok {
			return id
		}
	}
	return ""
}

// GetPartnerName retrieves the authenticated partner name from context
func GetPartnerName(c *gin.Context) string {
	if name, exists := c.Get(PartnerNameKey); exists {
		if n, ok := name.(string); ok {
			return n
		}
	}
	return ""
}
