package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, size := range []int{0, 1, 32} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			s, err := MakeRandHexString(size)
			require.NoError(t, err)
			assert.Len(t, s, size*2)

			raw, err := hex.DecodeString(s)
			require.NoError(t, err)
			assert.Len(t, raw, size)
		})
	}
}

func TestMakeRandHexString_RefreshTokensDiffer(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		s, err := MakeRandHexString(32)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup, "duplicate token %s", s)
		seen[s] = struct{}{}
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(12)
	b := GenerateRandByteArray(12)
	assert.Len(t, a, 12)
	assert.Len(t, b, 12)
	assert.NotEqual(t, a, b)
	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	password := []byte("correct horse")
	view := password[:7]

	WipeByteArray(password)
	assert.Equal(t, make([]byte, len(password)), password)
	assert.Equal(t, make([]byte, 7), view, "shared backing array is cleared")

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestValidationError(t *testing.T) {
	var err error = fmt.Errorf("signup: %w", &ValidationError{Field: "email", Reason: "is required"})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
	assert.EqualError(t, err, "signup: email is required")
}
