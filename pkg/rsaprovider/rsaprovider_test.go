package rsaprovider_test

import (
	"encoding/pem"
	"testing"

	"github.com/cardflow/hsmkit/pkg/rsaprovider"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPairRejectsUnsupportedBits(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	_, err := p.GenerateKeyPair(1536)
	require.Error(t, err)
}

func TestGenerateEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	kp, err := p.GenerateKeyPair(2048)
	require.NoError(t, err)
	require.NotEmpty(t, kp.PrivateKeyDER)
	require.NotEmpty(t, kp.PublicKeyDER)

	plaintext := []byte("a pin encryption key component")

	ciphertext, err := p.EncryptOAEP(kp.PublicKeyDER, plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	decrypted, err := p.DecryptOAEP(kp.PrivateKeyDER, ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptOAEPRejectsNonRSAPublicKey(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	_, err := p.EncryptOAEP([]byte("not a key"), []byte("data"))
	require.Error(t, err)
}

func TestImportPEMRejectsMissingBlock(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	_, _, err := p.ImportPEM("not pem at all")
	require.Error(t, err)
}

func TestImportPEMRoundTripsGeneratedPrivateKey(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	kp, err := p.GenerateKeyPair(2048)
	require.NoError(t, err)

	pemText := pemEncode("PRIVATE KEY", kp.PrivateKeyDER)

	der, isPrivate, err := p.ImportPEM(pemText)
	require.NoError(t, err)
	require.True(t, isPrivate)
	require.Equal(t, kp.PrivateKeyDER, der)
}

func TestImportEncryptedPEMRequiresPassword(t *testing.T) {
	t.Parallel()

	p := rsaprovider.Default{}

	_, err := p.ImportEncryptedPEM("irrelevant", nil)
	require.Error(t, err)
}

func pemEncode(blockType string, der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}
