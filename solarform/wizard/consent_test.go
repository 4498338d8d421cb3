package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralConsent(t *testing.T) {
	p := GeneralConsent{}
	assert.False(t, p.Valid(nil))
	assert.Equal(t, "No contact authorization", p.Summary(nil))

	consent, err := p.Toggle(nil, GeneralConsentID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{GeneralConsentID}, consent)
	assert.True(t, p.Valid(consent))
	assert.Equal(t, "Yes, authorizes contact", p.Summary(consent))

	consent, err = p.Toggle(consent, GeneralConsentID, false)
	require.NoError(t, err)
	assert.Empty(t, consent)

	_, err = p.Toggle(nil, "tesla", true)
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestProviderConsent(t *testing.T) {
	p := NewProviderConsent()
	assert.Len(t, p.Options(), 5)

	consent, err := p.Toggle(nil, "vivint", true)
	require.NoError(t, err)
	consent, err = p.Toggle(consent, "sunrun", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"vivint", "sunrun"}, consent)
	assert.True(t, p.Valid(consent))
	assert.Equal(t, "Authorizes contact from: Sunrun Solar, Vivint Solar", p.Summary(consent))

	consent, err = p.Toggle(consent, "vivint", false)
	require.NoError(t, err)
	consent, err = p.Toggle(consent, "sunrun", false)
	require.NoError(t, err)
	assert.Empty(t, consent)
	assert.False(t, p.Valid(consent))
	assert.Equal(t, "No contact authorization", p.Summary(consent))

	// removing an absent id is a no-op
	consent, err = p.Toggle(consent, "tesla", false)
	require.NoError(t, err)
	assert.Empty(t, consent)
}

func TestProviderConsentCustomCatalog(t *testing.T) {
	p := &ProviderConsent{Catalog: []Provider{{ID: "local", Name: "Local Installer"}}}
	_, err := p.Toggle(nil, "tesla", true)
	assert.True(t, errors.Is(err, ErrUnknownProvider))

	consent, err := p.Toggle(nil, "local", true)
	require.NoError(t, err)
	assert.Equal(t, "Authorizes contact from: Local Installer", p.Summary(consent))
	assert.False(t, p.Valid([]string{"tesla"}))
}
