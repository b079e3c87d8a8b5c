package pinblock

import (
	"fmt"
	"strconv"
	"strings"
)

// VISA1 folds the PIN field against '0000' plus the 12 PAN digits
// immediately preceding the check digit, using get12PanDigits(pan, false)
// for that extraction (so the PAN needs at least 13 digits). PIN: 4-12 digits.
func encodeVISA1(pin, pan string) (string, error) {
	if pan == "" {
		return "", errPanRequired
	}

	relevantPan, err := get12PanDigits(pan, false)
	if err != nil {
		return "", err
	}

	pinFieldStr := fmt.Sprintf("%X%s", len(pin), pin)
	for len(pinFieldStr) < 16 {
		pinFieldStr += "F"
	}

	return xorHexStrings(pinFieldStr, "0000"+relevantPan)
}

func decodeVISA1(pinBlockHex, pan string) (string, error) {
	if pan == "" {
		return "", errPanRequired
	}

	relevantPan, err := get12PanDigits(pan, false)
	if err != nil {
		return "", err
	}
	if len(pinBlockHex) != 16 {
		return "", fmt.Errorf("%w: visa1 pin block must be 16 hex characters", errInvalidPinBlockLength)
	}

	clearPinFieldHex, err := xorHexStrings(pinBlockHex, "0000"+relevantPan)
	if err != nil {
		return "", fmt.Errorf("%w: xor failed during visa1 decoding: %v", errInternalDecoding, err)
	}

	// Validate format "LPPPP...". L is PIN length (0x4-0xC).
	pinLenHex := string(clearPinFieldHex[0])
	pinLen, err := strconv.ParseInt(pinLenHex, 16, 64)
	if err != nil || pinLen < 4 || pinLen > 12 { // VISA1 PIN length 4-12.
		return "", fmt.Errorf(
			"%w: decoded visa1 pin block has invalid pin length",
			errPinBlockDecoding,
		)
	}

	pinStartIndex := 1 // PIN starts after the length character.
	pinEndIndex := pinStartIndex + int(pinLen)
	if pinEndIndex > 16 { // 16 is length of clearPinFieldHex.
		return "", fmt.Errorf("%w: pin length exceeds block boundary in visa1", errPinBlockDecoding)
	}
	pin := clearPinFieldHex[pinStartIndex:pinEndIndex]

	padding := clearPinFieldHex[pinEndIndex:]
	for _, charRune := range padding {
		if charRune != 'F' {
			return "", fmt.Errorf(
				"%w: decoded visa1 pin block has invalid padding character",
				errPinBlockDecoding,
			)
		}
	}

	return pin, nil
}

// VISA2, VISA3, and VISA4 are recognized formats without a public wire
// spec to implement against; kept as named, dispatchable stubs.
func encodeVISA2(_, _ string) (string, error) { return "", errFormatNotImplemented }
func decodeVISA2(_, _ string) (string, error) { return "", errFormatNotImplemented }
func encodeVISA3(_, _ string) (string, error) { return "", errFormatNotImplemented }
func decodeVISA3(_, _ string) (string, error) { return "", errFormatNotImplemented }
func encodeVISA4(_, _ string) (string, error) { return "", errFormatNotImplemented }
func decodeVISA4(_, _ string) (string, error) { return "", errFormatNotImplemented }

// Thales Format 41 (Visa new PIN only).
// `pin` is new PIN, `pan` (repurposed) is UDK_HEX.
func encodeVISANEWPINONLY(newPin, udkHex string) (string, error) {
	if len(udkHex) < 8 { // Needs 8 rightmost hex digits.
		return "", fmt.Errorf(
			"%w: udkHex too short for visa41 (min 8 hex chars)",
			errInvalidPanLength,
		)
	}

	// Step 1 (Key Block): '00000000' + 8 rightmost digits of UDK.
	keyBlockStr := "00000000" + udkHex[len(udkHex)-8:]

	// Step 2 (PIN Data Block): '0' + New PIN Length + New PIN + 'F' padding.
	pinDataBlockStr := fmt.Sprintf("0%X%s", len(newPin), newPin)
	for len(pinDataBlockStr) < 16 {
		pinDataBlockStr += "F"
	}

	// Step 3: XOR.
	return xorHexStrings(keyBlockStr, pinDataBlockStr)
}

func decodeVISANEWPINONLY(pinBlockHex, udkHex string) (string, error) {
	if len(udkHex) < 8 {
		return "", fmt.Errorf(
			"%w: udkHex too short for visa41 decoding (min 8 hex chars)",
			errInvalidPanLength,
		)
	}
	keyBlockStr := "00000000" + udkHex[len(udkHex)-8:]

	// XOR with keyBlock to get clear PIN Data Block.
	clearPinDataBlockHex, err := xorHexStrings(pinBlockHex, keyBlockStr)
	if err != nil {
		return "", fmt.Errorf("%w: xor failed during visa41 decoding: %v", errInternalDecoding, err)
	}

	// Validate format "0LPPPP...".
	if clearPinDataBlockHex[0] != '0' {
		return "", fmt.Errorf(
			"%w: decoded visa41 pin block has invalid format prefix",
			errPinBlockDecoding,
		)
	}
	pinLenHex := string(clearPinDataBlockHex[1])
	pinLen, err := strconv.ParseInt(pinLenHex, 16, 64)
	if err != nil || pinLen < 4 || pinLen > 12 {
		return "", fmt.Errorf(
			"%w: decoded visa41 pin block has invalid pin length",
			errPinBlockDecoding,
		)
	}

	pinStartIndex := 2
	pinEndIndex := pinStartIndex + int(pinLen)
	if pinEndIndex > 16 {
		return "", fmt.Errorf(
			"%w: pin length exceeds block boundary in visa41",
			errPinBlockDecoding,
		)
	}
	decodedPin := clearPinDataBlockHex[pinStartIndex:pinEndIndex]

	// Validate padding.
	padding := clearPinDataBlockHex[pinEndIndex:]
	for _, charRune := range padding {
		if charRune != 'F' {
			return "", fmt.Errorf(
				"%w: decoded visa41 pin block has invalid padding",
				errPinBlockDecoding,
			)
		}
	}

	return decodedPin, nil
}

// Thales Format 42 (Visa new & old PIN).
// `newPin` is the new PIN.
// `panAndOldPinAndUdk` is "OLDPIN|UDKHEX".
func encodeVISANEWOLDIN(newPin, oldPinAndUdkHex string) (string, error) {
	parts := strings.Split(oldPinAndUdkHex, "|")
	if len(parts) != 2 {
		return "", fmt.Errorf(
			"%w: invalid format for oldPinAndUdkHex, expected 'OLDPIN|UDKHEX'",
			errInvalidPanLength,
		)
	}
	oldPin := parts[0]
	udkHex := parts[1]

	if len(udkHex) < 8 {
		return "", fmt.Errorf(
			"%w: udkHex too short for visa42 (min 8 hex chars)",
			errInvalidPanLength,
		)
	}
	if len(oldPin) < 4 || len(oldPin) > 12 { // Assuming old PIN also 4-12.
		return "", fmt.Errorf("%w: old pin length invalid for visa42", errInvalidPinLength)
	}

	// Step 1 (Key Block): '00000000' + 8 rightmost UDK.
	keyBlockStr := "00000000" + udkHex[len(udkHex)-8:]

	// Step 2 (New PIN Data Block): '0' + New PIN Length + New PIN + 'F' padding.
	newPinDataBlockStr := fmt.Sprintf("0%X%s", len(newPin), newPin)
	for len(newPinDataBlockStr) < 16 {
		newPinDataBlockStr += "F"
	}

	// Step 3 (Old PIN Data Block): Old PIN + '0' padding to 16 hex chars.
	oldPinDataBlockStr := oldPin
	for len(oldPinDataBlockStr) < 16 {
		oldPinDataBlockStr += "0"
	}

	// Step 4: XOR all three.
	intermediateXor, err := xorHexStrings(keyBlockStr, newPinDataBlockStr)
	if err != nil {
		return "", fmt.Errorf("%w: visa42 xor step 1 failed: %v", errInternalEncoding, err)
	}

	return xorHexStrings(intermediateXor, oldPinDataBlockStr)
}

func decodeVISANEWOLDIN(pinBlockHex, oldPinAndUdkHex string) (string, error) {
	parts := strings.Split(oldPinAndUdkHex, "|")
	if len(parts) != 2 {
		return "", fmt.Errorf(
			"%w: invalid format for oldPinAndUdkHex for visa42 decoding, expected 'OLDPIN|UDKHEX'",
			errInvalidPanLength,
		)
	}
	oldPin := parts[0]
	udkHex := parts[1]

	if len(udkHex) < 8 {
		return "", fmt.Errorf(
			"%w: udkHex too short for visa42 decoding (min 8 hex chars)",
			errInvalidPanLength,
		)
	}
	if len(oldPin) < 4 || len(oldPin) > 12 {
		return "", fmt.Errorf("%w: old pin length invalid for visa42 decoding", errInvalidPinLength)
	}

	// Reconstruct the three blocks used in encoding.
	keyBlockStr := "00000000" + udkHex[len(udkHex)-8:]
	oldPinDataBlockStr := oldPin
	for len(oldPinDataBlockStr) < 16 {
		oldPinDataBlockStr += "0"
	}

	// XOR pinBlockHex with keyBlockStr and oldPinDataBlockStr to get the New PIN Data Block.
	// P_final = B1 ^ B2 ^ B3  => B2 = P_final ^ B1 ^ B3
	intermediateXor, err := xorHexStrings(pinBlockHex, keyBlockStr)
	if err != nil {
		return "", fmt.Errorf("%w: visa42 decode xor step 1 failed: %v", errInternalDecoding, err)
	}
	clearNewPinDataBlockHex, err := xorHexStrings(intermediateXor, oldPinDataBlockStr)
	if err != nil {
		return "", fmt.Errorf("%w: visa42 decode xor step 2 failed: %v", errInternalDecoding, err)
	}

	// Validate format "0LPPPP..." for the New PIN Data Block.
	if clearNewPinDataBlockHex[0] != '0' {
		return "", fmt.Errorf(
			"%w: decoded visa42 new pin block has invalid format prefix",
			errPinBlockDecoding,
		)
	}
	pinLenHex := string(clearNewPinDataBlockHex[1])
	pinLen, err := strconv.ParseInt(pinLenHex, 16, 64)
	if err != nil || pinLen < 4 || pinLen > 12 {
		return "", fmt.Errorf(
			"%w: decoded visa42 new pin block has invalid pin length",
			errPinBlockDecoding,
		)
	}

	pinStartIndex := 2
	pinEndIndex := pinStartIndex + int(pinLen)
	if pinEndIndex > 16 {
		return "", fmt.Errorf(
			"%w: new pin length exceeds block boundary in visa42",
			errPinBlockDecoding,
		)
	}
	decodedNewPin := clearNewPinDataBlockHex[pinStartIndex:pinEndIndex]

	// Validate padding.
	padding := clearNewPinDataBlockHex[pinEndIndex:]
	for _, charRune := range padding {
		if charRune != 'F' {
			return "", fmt.Errorf(
				"%w: decoded visa42 new pin block has invalid padding",
				errPinBlockDecoding,
			)
		}
	}

	return decodedNewPin, nil // Returns the new PIN.
}
