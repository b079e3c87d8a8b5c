// Package misc implements the small, standalone payment-crypto helpers
// that don't belong to a larger module: Luhn check-digit arithmetic, DES
// odd-parity adjustment, and secure random hex generation (spec §4.7).
// The parity helpers are grounded directly on go_hsm's
// cryptoutils.ParityOf / CheckKeyParity / FixKeyParity; random hex is
// grounded on go_hsm's pkg/pinblock.GetRandomHexDigit, generalized to an
// arbitrary byte count via crypto/rand.
package misc

import (
	"crypto/rand"
	"fmt"

	"github.com/cardflow/hsmkit/pkg/hexutil"
	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// LuhnCheckDigit computes the Luhn check digit for a digit string of any
// length (including zero). Every other digit of base is doubled from the
// right, starting with base's rightmost digit (the one that ends up
// immediately left of the appended check digit), subtracting 9 whenever
// doubling exceeds 9. Fails with
// hsmerr.ErrMalformedInput if base contains non-digit characters.
func LuhnCheckDigit(base string) (string, error) {
	sum, err := luhnSum(base, true)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", (10-sum%10)%10), nil
}

// LuhnValidate reports whether the full digit string (base plus its
// trailing check digit) satisfies the Luhn checksum.
func LuhnValidate(full string) (bool, error) {
	sum, err := luhnSum(full, false)
	if err != nil {
		return false, err
	}

	return sum%10 == 0, nil
}

// luhnSum walks digits from the rightmost position, doubling every
// other digit. startDoubled controls whether the rightmost digit itself
// is doubled (true for calculating a check digit to append after digits,
// false for validating a digit string that already includes its check
// digit).
func luhnSum(digits string, startDoubled bool) (int, error) {
	sum := 0
	shouldDouble := startDoubled
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: non-digit character in luhn input", hsmerr.ErrMalformedInput)
		}
		d := int(c - '0')
		if shouldDouble {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		shouldDouble = !shouldDouble
	}

	return sum, nil
}

// FixDESParity sets each byte of a 16- or 24-byte key to odd parity, as
// DES/3DES require. Keys of any other length are returned unchanged.
func FixDESParity(key []byte) []byte {
	if len(key) != 16 && len(key) != 24 {
		out := make([]byte, len(key))
		copy(out, key)

		return out
	}

	out := make([]byte, len(key))
	for i, b := range key {
		if bitCount(b)%2 == 0 {
			out[i] = b ^ 1
		} else {
			out[i] = b
		}
	}

	return out
}

func bitCount(b byte) int {
	n := 0
	for b != 0 {
		n++
		b &= b - 1
	}

	return n
}

// RandomHex returns n cryptographically random bytes, hex-encoded
// uppercase.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: random generation failed: %v", hsmerr.ErrInternal, err)
	}

	return hexutil.Encode(b), nil
}
