package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	key1 := DeriveKey([]byte("passphrase"), []byte("fixed-salt-16byt"))
	key2 := DeriveKey([]byte("passphrase"), []byte("fixed-salt-16byt"))

	assert.Len(t, key1, KeySize)
	assert.Equal(t, key1, key2)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	key1 := DeriveKey([]byte("passphrase"), []byte("salt-1"))
	key2 := DeriveKey([]byte("passphrase"), []byte("salt-2"))

	assert.NotEqual(t, key1, key2)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	sealed, err := Seal(key, []byte("eyJhbGciOi.token"))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, []byte("token")), "plaintext must not leak")

	plain, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", string(plain))
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_Failures(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	other := DeriveKey([]byte("other"), []byte("salt"))

	sealed, err := Seal(key, []byte("secret"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := Open(other, sealed)
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		bad := append([]byte(nil), sealed...)
		bad[len(bad)-1] ^= 0xff
		_, err := Open(key, bad)
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Open(key, []byte{1, 2, 3})
		require.ErrorIs(t, err, ErrSealedTooShort)
	})

	t.Run("bad key size", func(t *testing.T) {
		_, err := Seal([]byte("short"), []byte("x"))
		require.Error(t, err)
	})
}
