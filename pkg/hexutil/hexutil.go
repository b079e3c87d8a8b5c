// Package hexutil implements the hex/xor leaf primitive: hex <-> bytes
// conversion and equal-length XOR across N operands. Every other package
// in this module builds on it, following go_hsm's own layering where
// cryptoutils.XOR / cryptoutils.Raw2Str sit underneath everything else.
package hexutil

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// Decode converts a hex string to its raw bytes. The input is
// case-insensitive. It fails with hsmerr.ErrMalformedInput if the length
// is odd or the string contains non-hex characters.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length hex string", hsmerr.ErrMalformedInput)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", hsmerr.ErrMalformedInput, err)
	}

	return b, nil
}

// Encode returns the uppercase hex encoding of raw bytes.
func Encode(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// XOR returns the bitwise XOR across all operands, each given as a hex
// string. A single-operand input returns its operand (re-encoded
// uppercase) unchanged; an empty input returns an empty string. All
// operands MUST decode to equal byte length; mismatched lengths fail
// with hsmerr.ErrInvalidLength. Unlike go_hsm's cryptoutils.XOR (which
// silently operates only on its fixed two operands) this generalizes to
// N operands, and unlike the source system this spec is distilled from
// (which zero-extends mismatched operands) it rejects them outright —
// implementers of new code must not rely on zero-padding.
func XOR(hexOperands ...string) (string, error) {
	if len(hexOperands) == 0 {
		return "", nil
	}

	decoded := make([][]byte, len(hexOperands))
	for i, h := range hexOperands {
		b, err := Decode(h)
		if err != nil {
			return "", fmt.Errorf("xor operand %d: %w", i, err)
		}
		decoded[i] = b
	}

	want := len(decoded[0])
	for i, b := range decoded {
		if len(b) != want {
			return "", fmt.Errorf(
				"%w: operand %d has %d bytes, want %d",
				hsmerr.ErrInvalidLength,
				i,
				len(b),
				want,
			)
		}
	}

	result := make([]byte, want)
	copy(result, decoded[0])
	for _, b := range decoded[1:] {
		for i := range result {
			result[i] ^= b[i]
		}
	}

	return Encode(result), nil
}
