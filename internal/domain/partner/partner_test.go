package partner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartner(t *testing.T) {
	t.Run("creates partner with a usable API key", func(t *testing.T) {
		p, rawKey, err := NewPartner("Acme Travel Software", "ops@acmetravel.com")

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Acme Travel Software", p.Name)
		assert.Equal(t, "ops@acmetravel.com", p.ContactEmail)
		assert.Equal(t, PartnerStatusActive, p.Status)
		assert.Len(t, p.GetDomainEvents(), 1)

		prefix, secret, err := ParseAPIKey(rawKey)
		require.NoError(t, err)
		assert.Equal(t, p.APIKeyPrefix, prefix)
		assert.True(t, p.VerifySecret(secret))
		assert.NotContains(t, p.APIKeyHash, secret, "hash must not embed the secret")
	})

	t.Run("allows empty contact email", func(t *testing.T) {
		p, _, err := NewPartner("Acme Travel Software", "")

		require.NoError(t, err)
		assert.Empty(t, p.ContactEmail)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, _, err := NewPartner("  ", "")
		assert.Error(t, err)
	})

	t.Run("fails with malformed contact email", func(t *testing.T) {
		_, _, err := NewPartner("Acme Travel Software", "not-an-email")
		assert.Error(t, err)
	})
}

func TestParseAPIKey(t *testing.T) {
	t.Run("parses a well-formed key", func(t *testing.T) {
		_, rawKey, err := NewPartner("Acme Travel Software", "")
		require.NoError(t, err)

		prefix, secret, err := ParseAPIKey(rawKey)

		require.NoError(t, err)
		assert.Len(t, prefix, 8)
		assert.Len(t, secret, 32)
		assert.True(t, strings.HasPrefix(rawKey, "ok_"+prefix+"_"))
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		cases := []string{
			"",
			"ok_short",
			"ok_12345678",
			"nope_12345678_0123456789abcdef0123456789abcdef",
			"ok_1234567_0123456789abcdef0123456789abcdef",
			"ok_12345678_tooshort",
		}
		for _, raw := range cases {
			_, _, err := ParseAPIKey(raw)
			assert.Error(t, err, "key %q must not parse", raw)
		}
	})
}

func TestPartner_RotateAPIKey(t *testing.T) {
	p, oldRaw, err := NewPartner("Acme Travel Software", "")
	require.NoError(t, err)
	oldPrefix := p.APIKeyPrefix
	_, oldSecret, err := ParseAPIKey(oldRaw)
	require.NoError(t, err)

	newRaw, err := p.RotateAPIKey()

	require.NoError(t, err)
	assert.NotEqual(t, oldRaw, newRaw)
	assert.NotEqual(t, oldPrefix, p.APIKeyPrefix)
	require.NotNil(t, p.KeyRotatedAt)
	assert.Equal(t, 2, p.GetVersion())

	_, newSecret, err := ParseAPIKey(newRaw)
	require.NoError(t, err)
	assert.True(t, p.VerifySecret(newSecret))
	assert.False(t, p.VerifySecret(oldSecret), "rotated key must stop verifying")
}

func TestPartner_SuspendActivate(t *testing.T) {
	p, _, err := NewPartner("Acme Travel Software", "")
	require.NoError(t, err)

	require.NoError(t, p.Suspend())
	assert.False(t, p.IsActive())
	assert.Error(t, p.Suspend(), "double suspend must fail")

	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive())
	assert.Error(t, p.Activate(), "double activate must fail")
}

func TestPartnerStatus_IsValid(t *testing.T) {
	assert.True(t, PartnerStatusActive.IsValid())
	assert.True(t, PartnerStatusSuspended.IsValid())
	assert.False(t, PartnerStatus("deleted").IsValid())
}
