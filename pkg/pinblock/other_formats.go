// Package pinblock implements various PIN block encoding and decoding formats.
package pinblock

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// panFieldLast12 extracts the rightmost 12 numeric digits of pan, which
// ANSI X9.8 folds behind a '0000' prefix into an 8-byte field before
// XORing it against the PIN field.
func panFieldLast12(pan, formatName string) (string, error) {
	panOnlyDigits := ""
	for _, r := range pan {
		if r >= '0' && r <= '9' {
			panOnlyDigits += string(r)
		}
	}

	if panOnlyDigits == "" {
		return "", errPanNoDigits
	}

	if len(panOnlyDigits) < 12 {
		return "", fmt.Errorf(
			"%w: pan must contain at least 12 processable digits for %s",
			errInvalidPanLength,
			formatName,
		)
	}

	return panOnlyDigits[len(panOnlyDigits)-12:], nil
}

// encodeXORPinPanBlock builds the PIN field (length nibble + PIN + 'F'
// padding), folds the given 12 PAN digits behind a '0000' prefix, and
// XORs the two 8-byte fields together.
func encodeXORPinPanBlock(pin, relevantPan, formatName string) (string, error) {
	pinFieldStr := fmt.Sprintf("%X%s", len(pin), pin)
	for len(pinFieldStr) < 16 {
		pinFieldStr += "F"
	}
	pinField, err := hex.DecodeString(pinFieldStr)
	if err != nil {
		return "", fmt.Errorf("%w: encoding pin field for %s", errInternalEncoding, formatName)
	}

	panField, err := hex.DecodeString("0000" + relevantPan)
	if err != nil {
		return "", fmt.Errorf("%w: encoding pan field for %s", errInternalEncoding, formatName)
	}

	if len(pinField) != 8 || len(panField) != 8 {
		return "", fmt.Errorf("%w: field length mismatch for %s xor", errInternalEncoding, formatName)
	}

	result := make([]byte, 8)
	for i := 0; i < 8; i++ {
		result[i] = pinField[i] ^ panField[i]
	}

	return strings.ToUpper(hex.EncodeToString(result)), nil
}

// decodeXORPinPanBlock reverses encodeXORPinPanBlock: XOR the PIN block
// against the folded PAN field, then parse the resulting "LPPPP...F"
// clear PIN field, enforcing minPinLen/maxPinLen and 'F' padding on the
// remainder.
func decodeXORPinPanBlock(pinBlockHex, relevantPan string, minPinLen, maxPinLen int, formatName string) (string, error) {
	pinBlockBytes, err := hex.DecodeString(pinBlockHex)
	if err != nil {
		return "", fmt.Errorf("%w: invalid hex for %s pin block", errInternalDecoding, formatName)
	}

	panField, err := hex.DecodeString("0000" + relevantPan)
	if err != nil {
		return "", fmt.Errorf("%w: decoding pan field for %s", errInternalDecoding, formatName)
	}
	if len(pinBlockBytes) != 8 {
		return "", fmt.Errorf("%w: %s pin block must be 16 hex characters", errInvalidPinBlockLength, formatName)
	}
	if len(panField) != 8 {
		return "", fmt.Errorf("%w: field length mismatch for %s xor", errInternalDecoding, formatName)
	}

	clearPinFieldBytes := make([]byte, 8)
	for i := 0; i < 8; i++ {
		clearPinFieldBytes[i] = pinBlockBytes[i] ^ panField[i]
	}
	clearPinFieldHex := strings.ToUpper(hex.EncodeToString(clearPinFieldBytes))

	pinLenHex := string(clearPinFieldHex[0])
	pinLen, err := strconv.ParseInt(pinLenHex, 16, 64)
	if err != nil || pinLen < int64(minPinLen) || pinLen > int64(maxPinLen) {
		return "", fmt.Errorf("%w: decoded %s pin block has invalid pin length", errPinBlockDecoding, formatName)
	}

	pinStartIndex := 1
	pinEndIndex := pinStartIndex + int(pinLen)
	if pinEndIndex > 16 {
		return "", fmt.Errorf("%w: pin length exceeds block boundary in %s", errPinBlockDecoding, formatName)
	}
	pin := clearPinFieldHex[pinStartIndex:pinEndIndex]

	padding := clearPinFieldHex[pinEndIndex:]
	for _, charRune := range padding {
		if charRune != 'F' {
			return "", fmt.Errorf("%w: decoded %s pin block has invalid padding character", errPinBlockDecoding, formatName)
		}
	}

	return pin, nil
}

// ANSI X9.8 (also known as Format 0 or ECI-2 or DIEBOLD-0).
// PIN: 4-14 digits.
// PAN: The 12 rightmost digits of the PAN (including the check digit) are used.
func encodeANSIX98(pin, pan string) (string, error) {
	if pan == "" {
		return "", errPanRequired
	}

	relevantPan, err := panFieldLast12(pan, "ansi x9.8")
	if err != nil {
		return "", err
	}

	return encodeXORPinPanBlock(pin, relevantPan, "ansi x9.8")
}

func decodeANSIX98(pinBlockHex, pan string) (string, error) {
	if pan == "" {
		return "", errPanRequired
	}

	relevantPan, err := panFieldLast12(pan, "ansi x9.8 decoding")
	if err != nil {
		return "", err
	}

	return decodeXORPinPanBlock(pinBlockHex, relevantPan, 4, 14, "ansi x9.8")
}

// VISA1/2/3/4 live in visa_formats.go alongside the other VISA Thales
// formats that share its PAN-folding helpers.

func encodeDOCUTEL(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func decodeDOCUTEL(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func encodeNCR(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func decodeNCR(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

// ECI1 lives in iso_formats.go next to ISO1, the format it mirrors.

func encodeDIEBOLD(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func decodeDIEBOLD(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func encodeIBM3624(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}

func decodeIBM3624(_, _ string) (string, error) {
	return "", errFormatNotImplemented
}
