package errorcodes

import (
	"errors"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// Translate maps one of pkg/hsmerr's sentinel errors to the Thales-style
// two-character HSM error code it corresponds to most closely, so CLI
// failures surface the same vocabulary a Thales-compatible host already
// understands instead of a bare Go error string. Unrecognized errors
// fall back to Err41, the general internal-error code.
func Translate(err error) HSMError {
	switch {
	case errors.Is(err, hsmerr.ErrMalformedInput):
		return Err15
	case errors.Is(err, hsmerr.ErrInvalidLength):
		return Err80
	case errors.Is(err, hsmerr.ErrMissingRequired):
		return Err15
	case errors.Is(err, hsmerr.ErrStructuralMismatch):
		return Err83
	case errors.Is(err, hsmerr.ErrCryptoFailure):
		return Err42
	case errors.Is(err, hsmerr.ErrNonASCII):
		return Err15
	case errors.Is(err, hsmerr.ErrInternal):
		return Err41
	default:
		return Err41
	}
}
