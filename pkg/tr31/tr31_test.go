package tr31_test

import (
	"strings"
	"testing"

	"github.com/cardflow/hsmkit/pkg/tr31"
	"github.com/stretchr/testify/require"
)

// buildBlock assembles a syntactically valid TR-31 string with the
// header fields from the reference vector (version B, usage B1,
// algorithm T, mode X, kvn 00, exportability N, 3 optional blocks) and
// enough trailing key/authenticator material to satisfy the declared
// total length.
func buildBlock(totalLen int) string {
	ks := "KS18" + strings.Repeat("00", 18)
	pb := "PB00"
	tc := "TC00"
	optional := ks + pb + tc

	authenticator := strings.Repeat("A", 16)
	fixedLen := tr31.HeaderLength + len(optional) + len(authenticator)
	encryptedKey := strings.Repeat("F", totalLen-fixedLen)

	header := "B" +
		zeroPad(totalLen, 4) +
		"B1" + "T" + "X" + "00" + "N" + "03" + "00"

	return header + optional + encryptedKey + authenticator
}

func zeroPad(n, width int) string {
	s := itoa(n)
	for len(s) < width {
		s = "0" + s
	}

	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	return string(digits)
}

func TestParseReferenceHeader(t *testing.T) {
	t.Parallel()

	input := buildBlock(128)
	parsed, err := tr31.Parse(input)
	require.NoError(t, err)

	require.Equal(t, byte('B'), parsed.Header.VersionID)
	require.Equal(t, 128, parsed.Header.Length)
	require.Equal(t, "B1", parsed.Header.KeyUsage)
	require.Equal(t, byte('T'), parsed.Header.Algorithm)
	require.Equal(t, byte('X'), parsed.Header.ModeOfUse)
	require.Equal(t, "00", parsed.Header.KeyVersion)
	require.Equal(t, byte('N'), parsed.Header.Exportability)
	require.Equal(t, 3, parsed.Header.OptionalBlockCount)

	require.Len(t, parsed.OptionalBlocks, 3)
	require.Equal(t, "KS", parsed.OptionalBlocks[0].ID)
	require.Equal(t, 18, parsed.OptionalBlocks[0].LengthByte)
	require.Len(t, parsed.OptionalBlocks[0].ValueHex, 36)

	require.Len(t, parsed.Authenticator, 16)
}

func TestParseStripsTransportMarker(t *testing.T) {
	t.Parallel()

	input := "R" + buildBlock(128)
	parsed, err := tr31.Parse(input)
	require.NoError(t, err)
	require.Equal(t, 3, len(parsed.OptionalBlocks))
}

func TestParseRejectsLengthMismatch(t *testing.T) {
	t.Parallel()

	input := buildBlock(128) + "EXTRA"
	_, err := tr31.Parse(input)
	require.Error(t, err)
}

func TestParseStopsOnMalformedOptionalBlock(t *testing.T) {
	t.Parallel()

	// Declares 3 optional blocks but only one is well formed; the
	// remainder should be treated as key+authenticator instead of
	// erroring.
	ks := "KS18" + strings.Repeat("00", 18)
	authenticator := strings.Repeat("A", 16)
	junk := "!!notablock!" // even length: the encrypted key must be even-length hex
	body := ks + junk
	total := tr31.HeaderLength + len(body) + len(authenticator)

	header := "B" + zeroPad(total, 4) + "B1TX00N0300"
	input := header + body + authenticator

	parsed, err := tr31.Parse(input)
	require.NoError(t, err)
	require.Len(t, parsed.OptionalBlocks, 1)
	require.Contains(t, parsed.EncryptedKey, "!!notablock")
}

func TestParseVersionDAuthenticatorLength(t *testing.T) {
	t.Parallel()

	authenticator := strings.Repeat("D", 64)
	encryptedKey := strings.Repeat("1", 20)
	total := tr31.HeaderLength + len(encryptedKey) + len(authenticator)
	header := "D" + zeroPad(total, 4) + "B1TX00N0000"
	input := header + encryptedKey + authenticator

	parsed, err := tr31.Parse(input)
	require.NoError(t, err)
	require.Equal(t, authenticator, parsed.Authenticator)
	require.Equal(t, encryptedKey, parsed.EncryptedKey)
}
