// Package hsmerr defines the sentinel error taxonomy shared by every
// payment-cryptography package in this module. Callers match with
// errors.Is against these sentinels; package-level errors elsewhere wrap
// one of them with fmt.Errorf("...: %w", ...) to add detail, following
// the same pattern go_hsm's pkg/pinblock uses for its own sentinels.
package hsmerr

import "errors"

var (
	// ErrMalformedInput covers hex parse failures and non-digit input
	// where digits are required.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidLength covers key, PIN, PAN, KSN, BDK, PEK, component,
	// or TR-31 field lengths that violate a declared profile.
	ErrInvalidLength = errors.New("invalid length")

	// ErrMissingRequired covers required collaborators or inputs that
	// were not supplied, e.g. ISO-4 without a PEK.
	ErrMissingRequired = errors.New("missing required input")

	// ErrStructuralMismatch covers TR-31 declared length mismatches,
	// optional-block over-declaration, and odd-length encrypted keys.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrCryptoFailure is returned when a block-cipher provider rejects
	// an operation (bad padding, unusable key) or a decrypt yields no
	// recoverable plaintext.
	ErrCryptoFailure = errors.New("crypto operation failed")

	// ErrNonASCII flags decrypted textual output containing non-ASCII
	// bytes, directing the caller to a hex-output path instead.
	ErrNonASCII = errors.New("decrypted output is not ascii text")

	// ErrInternal covers unexpected provider exceptions that should be
	// rare in practice.
	ErrInternal = errors.New("internal error")
)
