package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("marble#123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(h, "pbkdf2$"))
	assert.Len(t, strings.Split(h, "$"), 3)

	assert.True(t, Verify("marble#123", h))
	assert.False(t, Verify("marble#124", h))
	assert.False(t, Verify("", h))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("same-password", h1))
	assert.True(t, Verify("same-password", h2))
}

func TestVerifyMalformed(t *testing.T) {
	assert.False(t, Verify("x", ""))
	assert.False(t, Verify("x", "plaintext"))
	assert.False(t, Verify("x", "bcrypt$abc$def"))
	assert.False(t, Verify("x", "pbkdf2$not-base64!!$also-not"))
}
