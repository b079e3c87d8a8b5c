// Package pinblock implements various PIN block encoding and decoding formats.
package pinblock

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// Supported PIN block formats.
// This list is based on common industry standards.
// Not all formats listed here are implemented in this example; for full implementation,
// detailed specifications for each format are required.
const (
	ISO0 PinBlockFormat = iota // ISO 9564-1 Format 0.
	ISO1                       // ISO 9564-1 Format 1.
	ISO2                       // ISO 9564-1 Format 2.
	ISO3                       // ISO 9564-1 Format 3.
	// ISO 9564-1 Format 4 (Thales Format 48) is not part of this iota
	// block: it is AES-keyed and exposed only through its own
	// EncodeISO4/DecodeISO4 entry points in iso4.go, since the uniform
	// (pin, pan) signature here has no slot for a PIN Encryption Key.
	ANSIX98                  // ANSI X9.8.
	VISA1                    // VISA VTS PIN Block Format 1.
	ECI1                     // ECI Format 1.
	DIEBOLD                  // Diebold Format.
	IBM3624                  // IBM 3624 Format.
	VISA2                    // VISA VTS PIN Block Format 2.
	VISA3                    // VISA VTS PIN Block Format 3.
	VISA4                    // VISA VTS PIN Block Format 4.
	DOCUTEL                  // Docutel PIN Block Format.
	NCR                      // NCR PIN Block Format.
	PLUSNETWORK              // Thales Format 04 (PLUS Network).
	MASTERCARDPAYNOWPAYLATER // Thales Format 35 (Mastercard Pay Now & Pay Later).
	VISANEWPINONLY           // Thales Format 41 (Visa new PIN only).
	VISANEWOLDIN             // Thales Format 42 (Visa new & old PIN).
	// Each requires its specific encoding/decoding algorithm from standard documents.
)

// Each sentinel below also wraps the hsmerr taxonomy shared across the
// module's other packages, so a caller several layers up (e.g. the CLI's
// top-level error reporter) can classify a PIN block failure with
// errors.Is against hsmerr without pinblock losing its own, more
// specific sentinels for package-internal tests and callers.
var (
	errInvalidPinLength      = fmt.Errorf("%w: invalid pin length", hsmerr.ErrInvalidLength)
	errInvalidPanLength      = fmt.Errorf("%w: invalid pan length", hsmerr.ErrInvalidLength)
	errInvalidPinBlockLength = fmt.Errorf("%w: invalid pin block length", hsmerr.ErrInvalidLength)
	errInvalidPinBlockFormat = fmt.Errorf("%w: unsupported or invalid pin block format", hsmerr.ErrMalformedInput)
	errPinBlockDecoding      = fmt.Errorf("%w: pin block decoding failed", hsmerr.ErrStructuralMismatch)
	errPanRequired           = fmt.Errorf("%w: pan is required for this pin block format", hsmerr.ErrMissingRequired)
	errPanNoDigits           = fmt.Errorf("%w: pan contains no processable digits", hsmerr.ErrMalformedInput)
	errInternalEncoding      = fmt.Errorf("%w: internal error during encoding", hsmerr.ErrInternal)
	errInternalDecoding      = fmt.Errorf("%w: internal error during decoding", hsmerr.ErrInternal)
	errRandomGeneration      = fmt.Errorf("%w: failed to generate random data", hsmerr.ErrInternal)
	errFormatNotImplemented  = fmt.Errorf("%w: pin block format not implemented", hsmerr.ErrMalformedInput)
	errInvalidPekLength      = fmt.Errorf("%w: invalid pin encryption key length", hsmerr.ErrInvalidLength)
	errMissingPek            = fmt.Errorf("%w: pin encryption key is required for this format", hsmerr.ErrMissingRequired)
)

// PinBlockFormat defines the type for PIN block formats.
// Each format specifies a method for encrypting or formatting a PIN.
type PinBlockFormat int

// EncodePinBlock creates a PIN block from a PIN and PAN (if required by the format).
// PIN should be a string of 4-12 digits.
// PAN, if used, should be the account number string; relevant parts are extracted as per format spec.
// Returns the PIN block as an uppercase hex string.
func EncodePinBlock(pin, pan string, format PinBlockFormat) (string, error) {
	if len(pin) < 4 || len(pin) > 12 {
		return "", errInvalidPinLength
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("pin contains non-digit characters: %w", errInvalidPinLength)
		}
	}

	switch format {
	case ISO0:
		return encodeISO0(pin, pan)
	case ISO1:
		return encodeISO1(pin, pan)
	case ISO2:
		return encodeISO2(pin, pan)
	case ISO3:
		return encodeISO3(pin, pan)
	case ANSIX98:
		return encodeANSIX98(pin, pan)
	case VISA1:
		return encodeVISA1(pin, pan)
	case ECI1:
		return encodeECI1(pin, pan)
	case DIEBOLD:
		return encodeDIEBOLD(pin, pan)
	case IBM3624:
		return encodeIBM3624(pin, pan)
	case VISA2:
		return encodeVISA2(pin, pan)
	case VISA3:
		return encodeVISA3(pin, pan)
	case VISA4:
		return encodeVISA4(pin, pan)
	case DOCUTEL:
		return encodeDOCUTEL(pin, pan)
	case NCR:
		return encodeNCR(pin, pan)
	case PLUSNETWORK:
		return encodePLUSNETWORK(pin, pan)
	case MASTERCARDPAYNOWPAYLATER:
		return encodeMASTERCARDPAYNOWPAYLATER(pin, pan)
	case VISANEWPINONLY:
		return encodeVISANEWPINONLY(pin, pan)
	case VISANEWOLDIN:
		return encodeVISANEWOLDIN(pin, pan)
	default:
		return "", errInvalidPinBlockFormat
	}
}

// DecodePinBlock extracts the PIN from a PIN block and PAN (if required by the format).
// pinBlockHex is the PIN block as an uppercase or lowercase hex string.
// PAN, if used, should be the account number string.
// Returns the extracted PIN as a string of digits.
func DecodePinBlock(pinBlockHex, pan string, format PinBlockFormat) (string, error) {
	if len(pinBlockHex) != 16 {
		return "", errInvalidPinBlockLength
	}
	// Normalize to uppercase for consistent processing, though hex.DecodeString handles both.
	pinBlockHex = strings.ToUpper(pinBlockHex)
	_, err := hex.DecodeString(pinBlockHex) // Validate hex.
	if err != nil {
		return "", fmt.Errorf("pin block is not a valid hex string: %w", errInvalidPinBlockLength)
	}

	switch format {
	case ISO0:
		return decodeISO0(pinBlockHex, pan)
	case ISO1:
		return decodeISO1(pinBlockHex, pan)
	case ISO2:
		return decodeISO2(pinBlockHex, pan)
	case ISO3:
		return decodeISO3(pinBlockHex, pan)
	case ANSIX98:
		return decodeANSIX98(pinBlockHex, pan)
	case VISA1:
		return decodeVISA1(pinBlockHex, pan)
	case ECI1:
		return decodeECI1(pinBlockHex, pan)
	case DIEBOLD:
		return decodeDIEBOLD(pinBlockHex, pan)
	case IBM3624:
		return decodeIBM3624(pinBlockHex, pan)
	case VISA2:
		return decodeVISA2(pinBlockHex, pan)
	case VISA3:
		return decodeVISA3(pinBlockHex, pan)
	case VISA4:
		return decodeVISA4(pinBlockHex, pan)
	case DOCUTEL:
		return decodeDOCUTEL(pinBlockHex, pan)
	case NCR:
		return decodeNCR(pinBlockHex, pan)
	case PLUSNETWORK:
		return decodePLUSNETWORK(pinBlockHex, pan)
	case MASTERCARDPAYNOWPAYLATER:
		return decodeMASTERCARDPAYNOWPAYLATER(pinBlockHex, pan)
	case VISANEWPINONLY:
		return decodeVISANEWPINONLY(pinBlockHex, pan)
	case VISANEWOLDIN:
		return decodeVISANEWOLDIN(pinBlockHex, pan)
	default:
		return "", errInvalidPinBlockFormat
	}
}

// thalesFormatCodes maps Thales two-digit format codes onto
// PinBlockFormat values, for callers that only know the numeric code.
var thalesFormatCodes = map[string]PinBlockFormat{
	"01": ISO0,
	"02": DOCUTEL,
	"03": IBM3624,
	"04": PLUSNETWORK,
	"05": ISO1,
	"34": ISO2,
	"35": MASTERCARDPAYNOWPAYLATER,
	"41": VISANEWPINONLY,
	"42": VISANEWOLDIN,
	"47": ISO3,
	// "48" (ISO Format 4) is deliberately absent: it requires a PIN
	// Encryption Key that this code-to-format lookup has no slot for.
	// Use the dedicated pb iso4 command instead.
}

// FormatFromThalesCode resolves a Thales two-digit PIN block format
// code to a PinBlockFormat.
func FormatFromThalesCode(formatCode string) (PinBlockFormat, error) {
	format, exists := thalesFormatCodes[formatCode]
	if !exists {
		return 0, fmt.Errorf("%w: %s", errInvalidPinBlockFormat, formatCode)
	}

	return format, nil
}

// GetGenerator returns a function to encode a PIN block based on the format code.
func GetGenerator(formatCode string) func(pin, pan string) (string, error) {
	format, err := FormatFromThalesCode(formatCode)
	if err != nil {
		return func(pin, pan string) (string, error) {
			return "", fmt.Errorf("unsupported format code: %s", formatCode)
		}
	}

	return func(pin, pan string) (string, error) {
		return EncodePinBlock(pin, pan, format)
	}
}
