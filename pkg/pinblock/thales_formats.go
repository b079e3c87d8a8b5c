package pinblock

import (
	"fmt"
)

// encodePanFoldedBlock builds a '<prefix><len>PIN...F' field and XORs it
// against '0000' plus the 12 PAN digits selected by panFromLeft. It is the
// encode-side counterpart of decodePanBasedFormat in common.go, covering
// PLUS Network (Thales 04) and Mastercard Pay Now & Pay Later (Thales 35)
// below, which fold the PAN in from opposite ends.
func encodePanFoldedBlock(pin, pan string, panFromLeft bool, formatPrefix byte) (string, error) {
	pinFieldStr := fmt.Sprintf("%c%X%s", formatPrefix, len(pin), pin)
	for len(pinFieldStr) < 16 {
		pinFieldStr += "F"
	}

	relevantPan, err := get12PanDigits(pan, panFromLeft)
	if err != nil {
		return "", err
	}
	panFieldStr := "0000" + relevantPan

	return xorHexStrings(pinFieldStr, panFieldStr)
}

// Thales Format 04 (PLUS Network): PAN folded in from the left, PIN field
// prefixed like ISO0.
func encodePLUSNETWORK(pin, pan string) (string, error) {
	return encodePanFoldedBlock(pin, pan, true, '0')
}

func decodePLUSNETWORK(pinBlockHex, pan string) (string, error) {
	return decodePanBasedFormat(pinBlockHex, pan, true, '0', "plus network")
}

// Thales Format 35 (Mastercard Pay Now & Pay Later): PAN folded in from the
// right excluding the check digit, PIN field prefixed like ISO2.
func encodeMASTERCARDPAYNOWPAYLATER(pin, pan string) (string, error) {
	return encodePanFoldedBlock(pin, pan, false, '2')
}

func decodeMASTERCARDPAYNOWPAYLATER(pinBlockHex, pan string) (string, error) {
	return decodePanBasedFormat(pinBlockHex, pan, false, '2', "mastercard paynowpaylater")
}
