package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	s := NewSettingsWithKeyring(keyring.NewArrayKeyring(nil))

	v, err := s.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, s.SetBool("fullVersionUnlocked", true))
	v, err = s.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, s.Delete("fullVersionUnlocked"))
	require.NoError(t, s.Delete("fullVersionUnlocked"))
	v, err = s.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestSettingsRejectsGarbage(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "flag", Data: []byte("maybe")}})
	s := NewSettingsWithKeyring(ring)

	_, err := s.Bool("flag")
	assert.Error(t, err)
}
