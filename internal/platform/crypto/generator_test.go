package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomString_Unique(t *testing.T) {
	first, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	second, err := GenerateSecureRandomString(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestSignAndVerifyValue(t *testing.T) {
	signed := SignValue("secret", "token-value")

	value, err := VerifyValue("secret", signed)
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}

func TestVerifyValue_TamperedValue(t *testing.T) {
	signed := SignValue("secret", "token-value")

	_, err := VerifyValue("secret", "x"+signed)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyValue_WrongSecret(t *testing.T) {
	signed := SignValue("secret", "token-value")

	_, err := VerifyValue("other-secret", signed)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyValue_Malformed(t *testing.T) {
	for _, input := range []string{"", "no-separator", ".sigonly", "valueonly."} {
		_, err := VerifyValue("secret", input)
		assert.ErrorIs(t, err, ErrBadSignature, "input %q", input)
	}
}
