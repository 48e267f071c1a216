package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidDeeplink       = errors.New("invalid deeplink token")
	ErrExpiredDeeplink       = errors.New("deeplink has expired")
	ErrDeeplinkNotYetValid   = errors.New("deeplink is not yet valid")
	ErrInvalidDeeplinkClaims = errors.New("invalid deeplink claims")
	ErrMissingSessionID      = errors.New("missing session_id in deeplink claims")
	ErrMissingPartnerID      = errors.New("missing partner_id in deeplink claims")
)

// deeplinkPath is the path component the signed token is attached to. The
// main Outfit application serves this route and restores the search session.
const deeplinkPath = "/deeplink"

// DeeplinkClaims are the claims embedded in a signed deeplink token
type DeeplinkClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	PartnerID string `json:"partner_id"`
}

// DeeplinkService signs deeplink URLs for search sessions. The token expiry
// follows the session's own deadline, so a link dies with its session.
type DeeplinkService struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	issuer  string
}

// NewDeeplinkService creates a new deeplink signing service
func NewDeeplinkService(cfg config.DeeplinkConfig) *DeeplinkService {
	return &DeeplinkService{
		secret:  []byte(cfg.Secret),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		ttl:     cfg.TTL,
		issuer:  cfg.Issuer,
	}
}

// Build returns the signed deeplink URL for the session
func (s *DeeplinkService) Build(ctx context.Context, session *search.SearchSession) (string, error) {
	now := time.Now()
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.ttl)
	}

	claims := &DeeplinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   session.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: session.ID.String(),
		PartnerID: session.PartnerID.String(),
	}

	token, err := s.generateToken(claims)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s?token=%s", s.baseURL, deeplinkPath, url.QueryEscape(token)), nil
}

// generateToken creates a signed JWT token
func (s *DeeplinkService) generateToken(claims *DeeplinkClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate validates a deeplink token and returns its claims
func (s *DeeplinkService) Validate(tokenString string) (*DeeplinkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeeplinkClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidDeeplink
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredDeeplink
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrDeeplinkNotYetValid
		}
		return nil, ErrInvalidDeeplink
	}

	claims, ok := token.Claims.(*DeeplinkClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidDeeplinkClaims
	}

	// Validate required claims
	if claims.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	if claims.PartnerID == "" {
		return nil, ErrMissingPartnerID
	}

	return claims, nil
}

// TokenFromURL extracts the signed token from a deeplink URL
func TokenFromURL(deeplinkURL string) (string, error) {
	u, err := url.Parse(deeplinkURL)
	if err != nil {
		return "", ErrInvalidDeeplink
	}
	token := u.Query().Get("token")
	if token == "" {
		return "", ErrInvalidDeeplink
	}
	return token, nil
}

// GetSessionUUID extracts and parses the session ID from claims
func (c *DeeplinkClaims) GetSessionUUID() (uuid.UUID, error) {
	return uuid.Parse(c.SessionID)
}

// GetPartnerUUID extracts and parses the partner ID from claims
func (c *DeeplinkClaims) GetPartnerUUID() (uuid.UUID, error) {
	return uuid.Parse(c.PartnerID)
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *DeeplinkClaims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// Ensure DeeplinkService implements the domain port
var _ search.DeeplinkBuilder = (*DeeplinkService)(nil)
