// Package kcv computes a Key Check Value: the first 3 bytes of the
// ECB-NoPadding encryption of a zero block under a key, used by two
// parties to confirm they hold the same key without exchanging it.
// Grounded on go_hsm's cryptoutils.KeyCV, generalized to accept an
// injected blockcipher.Provider and both the 3DES and AES families
// named in spec §4.2 (the source only ever computed 3DES KCVs).
package kcv

import (
	"fmt"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
	"github.com/cardflow/hsmkit/pkg/hexutil"
	"github.com/cardflow/hsmkit/pkg/hsmerr"
	"github.com/cardflow/hsmkit/pkg/observability"
)

// Length is the number of Key Check Value bytes returned (6 hex chars).
const Length = 3

// Compute returns the uppercase hex Key Check Value for keyHex under the
// given family, using provider to perform the zero-block encryption.
//
// For family=ThreeDES, a key of exactly 16 hex chars (a single 8-byte DES
// component) is doubled to an 8-byte-duplicated 16-byte 2-key 3DES key
// before encryption — this rule applies only to KCV computation, never
// to actual encryption operations (spec §4.2).
func Compute(
	provider blockcipher.Provider,
	keyHex string,
	family blockcipher.Family,
	obs ...observability.Observer,
) (string, error) {
	keyBytes, err := hexutil.Decode(keyHex)
	if err != nil {
		return "", err
	}

	if err := validateKeyLength(family, len(keyBytes)); err != nil {
		return "", err
	}

	if family == blockcipher.ThreeDES && len(keyBytes) == 8 {
		keyBytes = append(append([]byte{}, keyBytes...), keyBytes...)
	}

	zero := make([]byte, family.BlockSize())
	out, err := provider.EncryptECBNoPadding(family, keyBytes, zero)
	if err != nil {
		return "", fmt.Errorf("%w: kcv encryption failed: %v", hsmerr.ErrCryptoFailure, err)
	}

	kcvHex := hexutil.Encode(out[:Length])

	observability.Notify(obs, observability.Event{
		Name: "kcv_computed",
		Fields: map[string]string{
			"family": family.String(),
			"kcv":    kcvHex,
		},
	})

	return kcvHex, nil
}

func validateKeyLength(family blockcipher.Family, n int) error {
	switch family {
	case blockcipher.ThreeDES:
		if n == 8 || n == 16 || n == 24 {
			return nil
		}
	case blockcipher.AES:
		if n == 16 || n == 24 || n == 32 {
			return nil
		}
	}

	return fmt.Errorf("%w: unsupported key length %d bytes for family", hsmerr.ErrInvalidLength, n)
}
