package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewTokenCipher_InvalidKeySize(t *testing.T) {
	_, err := NewTokenCipher([]byte("too-short"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	tokens := []string{
		"ya29.a0AfB_byD-access-token",
		"1//0gRefreshTokenWith-Special_Chars.apps.googleusercontent.com",
		"",
		"short",
	}

	for _, token := range tokens {
		blob, err := c.EncryptToken(token)
		require.NoError(t, err)

		got, err := c.DecryptToken(blob)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	}
}

func TestTokenCipher_NondeterministicCiphertext(t *testing.T) {
	c, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	a, err := c.EncryptToken("same-token")
	require.NoError(t, err)
	b, err := c.EncryptToken("same-token")
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a, b), "two encryptions of the same token must differ")
}

func TestTokenCipher_WrongKey(t *testing.T) {
	c1, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)
	c2, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	blob, err := c1.EncryptToken("secret-token")
	require.NoError(t, err)

	_, err = c2.DecryptToken(blob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestTokenCipher_TamperedBlob(t *testing.T) {
	c, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	blob, err := c.EncryptToken("secret-token")
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = c.DecryptToken(blob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestTokenCipher_UnsupportedVersion(t *testing.T) {
	c, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	blob, err := c.EncryptToken("secret-token")
	require.NoError(t, err)

	blob[0] = 0x7F

	_, err = c.DecryptToken(blob)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestTokenCipher_TruncatedBlob(t *testing.T) {
	c, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	_, err = c.DecryptToken([]byte{blobVersion, 0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidBlobSize)
}
