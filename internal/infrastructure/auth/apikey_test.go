package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/cache"
	"github.com/outfit/partner-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPartnerRepository is a mock implementation of partner.PartnerRepository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByAPIKeyPrefix(ctx context.Context, prefix string) (*partner.Partner, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartnerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func createVerifiedPartner(t *testing.T) (*partner.Partner, string) {
	t.Helper()
	p, rawKey, err := partner.NewPartner("TravelCo", "ops@travelco.example")
	require.NoError(t, err)
	return p, rawKey
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		APIKeyCacheEnabled: true,
		APIKeyCacheTTL:     time.Minute,
	}
}

func TestAPIKeyVerifier_Verify_Success(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	verifier := NewAPIKeyVerifier(repo, nil, testAuthConfig(), nil)

	cred, err := verifier.Verify(context.Background(), rawKey)

	require.NoError(t, err)
	assert.Equal(t, p.ID, cred.PartnerID)
	assert.Equal(t, "TravelCo", cred.PartnerName)
	assert.Equal(t, partner.PartnerStatusActive, cred.Status)
	assert.True(t, cred.MatchesKey(rawKey))
}

func TestAPIKeyVerifier_Verify_MalformedKey(t *testing.T) {
	repo := new(MockPartnerRepository)

	verifier := NewAPIKeyVerifier(repo, nil, testAuthConfig(), nil)

	_, err := verifier.Verify(context.Background(), "not-an-api-key")

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_API_KEY", domainErr.Code)
	// Malformed keys never touch storage
	repo.AssertNotCalled(t, "FindByAPIKeyPrefix", mock.Anything, mock.Anything)
}

func TestAPIKeyVerifier_Verify_UnknownPrefix(t *testing.T) {
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	verifier := NewAPIKeyVerifier(repo, nil, testAuthConfig(), nil)

	_, err := verifier.Verify(context.Background(), "ok_deadbeef_"+strings.Repeat("0", 32))

	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAPIKeyVerifier_Verify_WrongSecret(t *testing.T) {
	p, _ := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	verifier := NewAPIKeyVerifier(repo, nil, testAuthConfig(), nil)

	wrongKey := "ok_" + p.APIKeyPrefix + "_" + strings.Repeat("0", 32)
	_, err := verifier.Verify(context.Background(), wrongKey)

	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAPIKeyVerifier_Verify_SuspendedPartner(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	require.NoError(t, p.Suspend())

	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	verifier := NewAPIKeyVerifier(repo, nil, testAuthConfig(), nil)

	_, err := verifier.Verify(context.Background(), rawKey)

	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAPIKeyVerifier_Verify_CacheSkipsRepository(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	memCache := cache.NewInMemoryCredentialCache()
	defer memCache.Close()

	verifier := NewAPIKeyVerifier(repo, memCache, testAuthConfig(), nil)

	// First call verifies against the repository and populates the cache
	cred1, err := verifier.Verify(context.Background(), rawKey)
	require.NoError(t, err)

	// Second call is served from cache without another repository hit
	cred2, err := verifier.Verify(context.Background(), rawKey)
	require.NoError(t, err)

	assert.Equal(t, cred1.PartnerID, cred2.PartnerID)
	repo.AssertNumberOfCalls(t, "FindByAPIKeyPrefix", 1)
}

func TestAPIKeyVerifier_Verify_CacheDisabled(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	memCache := cache.NewInMemoryCredentialCache()
	defer memCache.Close()

	cfg := config.AuthConfig{APIKeyCacheEnabled: false, APIKeyCacheTTL: time.Minute}
	verifier := NewAPIKeyVerifier(repo, memCache, cfg, nil)

	_, err := verifier.Verify(context.Background(), rawKey)
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), rawKey)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "FindByAPIKeyPrefix", 2)
}

func TestAPIKeyVerifier_Verify_StaleCachedDigest(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)
	repo.On("FindByAPIKeyPrefix", mock.Anything, p.APIKeyPrefix).Return(p, nil)

	memCache := cache.NewInMemoryCredentialCache()
	defer memCache.Close()

	// Cache an entry for a superseded key under the same prefix
	staleKey := "ok_" + p.APIKeyPrefix + "_" + strings.Repeat("0", 32)
	stale := partner.NewVerifiedCredential(p, staleKey)
	require.NoError(t, memCache.Set(context.Background(), p.APIKeyPrefix, stale, time.Minute))

	verifier := NewAPIKeyVerifier(repo, memCache, testAuthConfig(), nil)

	cred, err := verifier.Verify(context.Background(), rawKey)

	require.NoError(t, err)
	assert.True(t, cred.MatchesKey(rawKey))
	// The stale entry did not satisfy the lookup; the repository did
	repo.AssertNumberOfCalls(t, "FindByAPIKeyPrefix", 1)
}

func TestAPIKeyVerifier_Verify_CachedSuspendedCredential(t *testing.T) {
	p, rawKey := createVerifiedPartner(t)
	repo := new(MockPartnerRepository)

	memCache := cache.NewInMemoryCredentialCache()
	defer memCache.Close()

	cred := partner.NewVerifiedCredential(p, rawKey)
	cred.Status = partner.PartnerStatusSuspended
	require.NoError(t, memCache.Set(context.Background(), p.APIKeyPrefix, cred, time.Minute))

	verifier := NewAPIKeyVerifier(repo, memCache, testAuthConfig(), nil)

	_, err := verifier.Verify(context.Background(), rawKey)

	assert.ErrorIs(t, err, ErrInvalidAPIKey)
	repo.AssertNotCalled(t, "FindByAPIKeyPrefix", mock.Anything, mock.Anything)
}
