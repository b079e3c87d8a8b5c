package pinblock

import (
	"fmt"
	"strconv"
)

// decodePanBasedFormat decodes any PIN block format built by XORing a
// '<formatPrefix><len>PIN...F' field against '0000' plus 12 PAN digits.
// ISO0, PLUS Network, and Mastercard Pay Now & Pay Later all share this
// shape and differ only in formatPrefix and which end of the PAN
// panFromLeft selects.
func decodePanBasedFormat(pinBlockHex, pan string, panFromLeft bool, formatPrefix byte, formatName string) (string, error) {
	relevantPan, err := get12PanDigits(pan, panFromLeft)
	if err != nil {
		return "", fmt.Errorf("failed to get relevant PAN for %s: %w", formatName, err)
	}
	panFieldStr := "0000" + relevantPan

	clearPinFieldHex, err := xorHexStrings(pinBlockHex, panFieldStr)
	if err != nil {
		return "", fmt.Errorf("%w: xor failed during %s decoding: %v", errInternalDecoding, formatName, err)
	}

	if clearPinFieldHex[0] != formatPrefix {
		return "", fmt.Errorf(
			"%w: decoded %s pin block has invalid format prefix, expected '%c'",
			errPinBlockDecoding,
			formatName,
			formatPrefix,
		)
	}

	pinLenHex := string(clearPinFieldHex[1])
	pinLen, err := strconv.ParseInt(pinLenHex, 16, 64)
	if err != nil || pinLen < 4 || pinLen > 12 {
		return "", fmt.Errorf(
			"%w: decoded %s pin block has invalid pin length",
			errPinBlockDecoding,
			formatName,
		)
	}

	pinStartIndex := 2
	pinEndIndex := pinStartIndex + int(pinLen)
	if pinEndIndex > 16 {
		return "", fmt.Errorf("%w: pin length exceeds block boundary in %s", errPinBlockDecoding, formatName)
	}
	decodedPin := clearPinFieldHex[pinStartIndex:pinEndIndex]

	padding := clearPinFieldHex[pinEndIndex:]
	for _, charRune := range padding {
		if charRune != 'F' {
			return "", fmt.Errorf(
				"%w: decoded %s pin block has invalid padding, expected 'F'",
				errPinBlockDecoding,
				formatName,
			)
		}
	}

	return decodedPin, nil
}
