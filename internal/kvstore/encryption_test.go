package kvstore

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	secretKey := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, secretKey)
	require.NoError(t, err)
	enc, err := NewGCMEncryptor(string(secretKey))
	require.NoError(t, err)
	val := "some-refresh-token-123"

	valEnc, err := enc.Encrypt(val)
	require.NoError(t, err)
	assert.NotEqual(t, val, valEnc)
	valDec, err := enc.Decrypt(valEnc)

	require.NoError(t, err)
	assert.Equal(t, val, valDec)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	enc, err := NewGCMEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	first, err := enc.Encrypt("value")
	require.NoError(t, err)
	second, err := enc.Encrypt("value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptGarbage(t *testing.T) {
	enc, err := NewGCMEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64 !!")
	assert.Error(t, err)
	_, err = enc.Decrypt("c2hvcnQ=")
	assert.Error(t, err)
}

func TestDecryptWithOtherKey(t *testing.T) {
	enc, err := NewGCMEncryptor("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	other, err := NewGCMEncryptor("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	valEnc, err := enc.Encrypt("value")
	require.NoError(t, err)

	_, err = other.Decrypt(valEnc)

	assert.Error(t, err)
}
