package pinblock

import (
	"fmt"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
	"github.com/cardflow/hsmkit/pkg/hexutil"
	"github.com/cardflow/hsmkit/pkg/observability"
)

// EncodeISO4 builds an ISO 9564-1 Format 4 Encrypt-XOR-Encrypt PIN
// block. Unlike the other formats, ISO4 needs an AES PIN Encryption
// Key; it therefore has its own entry point rather than going through
// EncodePinBlock's uniform (pin, pan) signature, which carries no key
// material. Returns the plaintext PIN field (the "clear" artifact) and
// the final encrypted block, both uppercase hex.
func EncodeISO4(
	provider blockcipher.Provider,
	pin, pan, pekHex string,
	obs ...observability.Observer,
) (clearHex, encryptedHex string, err error) {
	if len(pin) < 4 || len(pin) > 12 {
		return "", "", errInvalidPinLength
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("pin contains non-digit characters: %w", errInvalidPinLength)
		}
	}

	if pekHex == "" {
		return "", "", errMissingPek
	}
	pek, err := hexutil.Decode(pekHex)
	if err != nil {
		return "", "", err
	}
	if len(pek) != 16 && len(pek) != 24 && len(pek) != 32 {
		return "", "", errInvalidPekLength
	}

	blockA, err := iso4PinField(pin)
	if err != nil {
		return "", "", err
	}

	blockB, err := iso4PanField(pan)
	if err != nil {
		return "", "", err
	}

	e1, err := provider.EncryptECBNoPadding(blockcipher.AES, pek, blockA)
	if err != nil {
		return "", "", err
	}

	x := xorBytes(blockB, e1)

	final, err := provider.EncryptECBNoPadding(blockcipher.AES, pek, x)
	if err != nil {
		return "", "", err
	}

	clearHex = hexutil.Encode(blockA)
	encryptedHex = hexutil.Encode(final)

	observability.Notify(obs, observability.Event{
		Name: "pin_block_encoded",
		Fields: map[string]string{
			"format": "iso4",
		},
	})

	return clearHex, encryptedHex, nil
}

// DecodeISO4 recovers the PIN from an ISO 9564-1 Format 4 PIN block,
// the inverse of EncodeISO4.
func DecodeISO4(provider blockcipher.Provider, encryptedHex, pan, pekHex string) (string, error) {
	if pekHex == "" {
		return "", errMissingPek
	}
	pek, err := hexutil.Decode(pekHex)
	if err != nil {
		return "", err
	}
	if len(pek) != 16 && len(pek) != 24 && len(pek) != 32 {
		return "", errInvalidPekLength
	}

	final, err := hexutil.Decode(encryptedHex)
	if err != nil {
		return "", err
	}
	if len(final) != 16 {
		return "", errInvalidPinBlockLength
	}

	blockB, err := iso4PanField(pan)
	if err != nil {
		return "", err
	}

	x, err := provider.DecryptECBNoPadding(blockcipher.AES, pek, final)
	if err != nil {
		return "", err
	}

	e1 := xorBytes(x, blockB)

	blockA, err := provider.DecryptECBNoPadding(blockcipher.AES, pek, e1)
	if err != nil {
		return "", err
	}

	return parseISO4PinField(blockA)
}

// iso4PinField builds Block A: control nibble '4', PIN length nibble,
// the PIN digits, 'A' fill to 16 nibbles, then 16 random nibbles.
func iso4PinField(pin string) ([]byte, error) {
	first := fmt.Sprintf("4%X%s", len(pin), pin)
	for len(first) < 16 {
		first += "A"
	}

	second := ""
	for len(second) < 16 {
		second += GetRandomHexDigit()
	}

	return hexutil.Decode(first + second)
}

// parseISO4PinField is the inverse of iso4PinField, extracting the PIN
// from a decrypted Block A.
func parseISO4PinField(blockA []byte) (string, error) {
	hexField := hexutil.Encode(blockA)
	if len(hexField) != 32 {
		return "", errInvalidPinBlockLength
	}
	if hexField[0] != '4' {
		return "", fmt.Errorf("%w: decoded iso4 pin field has invalid format prefix, expected '4'", errPinBlockDecoding)
	}

	pinLen := hexDigitValue(hexField[1])
	if pinLen < 4 || pinLen > 12 {
		return "", fmt.Errorf("%w: decoded iso4 pin field has invalid pin length", errPinBlockDecoding)
	}

	pinEnd := 2 + pinLen
	if pinEnd > 16 {
		return "", fmt.Errorf("%w: pin length exceeds block boundary in iso4", errPinBlockDecoding)
	}
	pin := hexField[2:pinEnd]

	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: decoded iso4 pin field contains non-numeric pin characters", errPinBlockDecoding)
		}
	}

	return pin, nil
}

func hexDigitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// iso4PanField builds Block B: left-pad PAN with '0' to at least 12
// digits, then m = len(paddedPan) - 12 as a single hex nibble,
// followed by the padded PAN, then '0' fill to 32 nibbles.
func iso4PanField(pan string) ([]byte, error) {
	panDigits := ""
	for _, r := range pan {
		if r >= '0' && r <= '9' {
			panDigits += string(r)
		}
	}
	if panDigits == "" {
		return nil, errPanRequired
	}

	for len(panDigits) < 12 {
		panDigits = "0" + panDigits
	}

	m := len(panDigits) - 12
	if m > 15 {
		return nil, errInvalidPanLength
	}

	field := fmt.Sprintf("%X%s", m, panDigits)
	for len(field) < 32 {
		field += "0"
	}

	return hexutil.Decode(field)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out
}
