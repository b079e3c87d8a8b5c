// Package blockcipher defines the block-cipher provider collaborator
// consumed by kcv, pinblock, and dukpt (spec §6). It is injected
// explicitly rather than reached through a process-wide global, per the
// "ambient global object" redesign flag in go_hsm's own design notes
// (the source this module was distilled from reaches a crypto library
// through a global symbol; this package is the fix).
package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"fmt"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
)

// Family identifies the block-cipher algorithm family.
type Family int

const (
	// ThreeDES selects DES/Triple-DES (8-byte blocks).
	ThreeDES Family = iota
	// AES selects AES (16-byte blocks).
	AES
)

// BlockSize returns the cipher block size in bytes for the family.
func (f Family) BlockSize() int {
	if f == AES {
		return aes.BlockSize
	}

	return des.BlockSize
}

// String returns a lowercase name for the family, for logging.
func (f Family) String() string {
	if f == AES {
		return "aes"
	}

	return "3des"
}

// Padding identifies a padding scheme for the generic CBC interface.
type Padding int

const (
	NoPadding Padding = iota
	Pkcs7
	AnsiX923
	Iso10126
	ZeroPadding
)

// Provider is the external block-cipher collaborator. Implementations
// must be safe for concurrent use, matching the core's pure-function
// concurrency model (spec §5).
type Provider interface {
	// EncryptECBNoPadding encrypts data (a multiple of the family's
	// block size) under key using ECB mode with no padding. Returns
	// output of the same length as data.
	EncryptECBNoPadding(family Family, key, data []byte) ([]byte, error)

	// DecryptECBNoPadding is the inverse of EncryptECBNoPadding.
	DecryptECBNoPadding(family Family, key, data []byte) ([]byte, error)

	// EncryptCBC encrypts data under key with the given iv, applying
	// padding to a multiple of the block size before encryption.
	EncryptCBC(family Family, key, iv, data []byte, padding Padding) ([]byte, error)

	// DecryptCBC decrypts data and removes padding.
	DecryptCBC(family Family, key, iv, data []byte, padding Padding) ([]byte, error)
}

// Default is the in-process Provider backed by crypto/aes and crypto/des,
// mirroring the ecb wrapper go_hsm's cryptoutils package builds around
// cipher.Block.
type Default struct{}

var _ Provider = Default{}

func newCipher(family Family, key []byte) (cipher.Block, error) {
	switch family {
	case AES:
		b, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", hsmerr.ErrCryptoFailure, err)
		}

		return b, nil
	case ThreeDES:
		var b cipher.Block
		var err error
		switch len(key) {
		case 8:
			b, err = des.NewCipher(key)
		case 16:
			// crypto/des requires a 24-byte key for 3DES; extend the
			// double-length key to triple length as K1,K2,K1, the same
			// convention go_hsm's cryptoutils.PrepareTripleDESKey uses.
			triple := make([]byte, 24)
			copy(triple, key)
			copy(triple[16:], key[:8])
			b, err = des.NewTripleDESCipher(triple)
		default:
			b, err = des.NewTripleDESCipher(key)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", hsmerr.ErrCryptoFailure, err)
		}

		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown cipher family", hsmerr.ErrInternal)
	}
}

// ecb adapts a cipher.Block into an ECB-mode cipher.BlockMode, the same
// approach as go_hsm's cryptoutils.ecb / NewECBEncrypter.
type ecb struct {
	b         cipher.Block
	decrypt   bool
	blockSize int
}

func (x *ecb) BlockSize() int { return x.blockSize }

func (x *ecb) CryptBlocks(dst, src []byte) {
	if len(src)%x.blockSize != 0 {
		panic(fmt.Sprintf("blockcipher: input length %d not a multiple of block size %d", len(src), x.blockSize))
	}
	for len(src) > 0 {
		if x.decrypt {
			x.b.Decrypt(dst[:x.blockSize], src[:x.blockSize])
		} else {
			x.b.Encrypt(dst[:x.blockSize], src[:x.blockSize])
		}
		src = src[x.blockSize:]
		dst = dst[x.blockSize:]
	}
}

func (Default) cryptECB(family Family, key, data []byte, decrypt bool) ([]byte, error) {
	blockSize := family.BlockSize()
	if len(data)%blockSize != 0 {
		return nil, fmt.Errorf(
			"%w: data length %d is not a multiple of block size %d",
			hsmerr.ErrInvalidLength,
			len(data),
			blockSize,
		)
	}

	b, err := newCipher(family, key)
	if err != nil {
		return nil, err
	}

	mode := &ecb{b: b, decrypt: decrypt, blockSize: blockSize}
	out := make([]byte, len(data))
	mode.CryptBlocks(out, data)

	return out, nil
}

// EncryptECBNoPadding implements Provider.
func (d Default) EncryptECBNoPadding(family Family, key, data []byte) ([]byte, error) {
	return d.cryptECB(family, key, data, false)
}

// DecryptECBNoPadding implements Provider.
func (d Default) DecryptECBNoPadding(family Family, key, data []byte) ([]byte, error) {
	return d.cryptECB(family, key, data, true)
}

// EncryptCBC implements Provider.
func (d Default) EncryptCBC(family Family, key, iv, data []byte, padding Padding) ([]byte, error) {
	blockSize := family.BlockSize()
	if len(iv) != blockSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", hsmerr.ErrInvalidLength, blockSize)
	}

	padded, err := applyPadding(data, blockSize, padding)
	if err != nil {
		return nil, err
	}

	b, err := newCipher(family, key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(b, iv).CryptBlocks(out, padded)

	return out, nil
}

// DecryptCBC implements Provider.
func (d Default) DecryptCBC(family Family, key, iv, data []byte, padding Padding) ([]byte, error) {
	blockSize := family.BlockSize()
	if len(iv) != blockSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", hsmerr.ErrInvalidLength, blockSize)
	}
	if len(data)%blockSize != 0 || len(data) == 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a non-zero multiple of block size", hsmerr.ErrInvalidLength)
	}

	b, err := newCipher(family, key)
	if err != nil {
		return nil, err
	}

	plainPadded := make([]byte, len(data))
	cipher.NewCBCDecrypter(b, iv).CryptBlocks(plainPadded, data)

	out, err := removePadding(plainPadded, blockSize, padding)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 && len(data) > 0 {
		return nil, fmt.Errorf("%w: decryption yielded no significant bytes (check key/iv/padding)", hsmerr.ErrCryptoFailure)
	}

	return out, nil
}

func applyPadding(data []byte, blockSize int, padding Padding) ([]byte, error) {
	switch padding {
	case NoPadding:
		if len(data)%blockSize != 0 {
			return nil, fmt.Errorf("%w: data is not a multiple of block size for NoPadding", hsmerr.ErrInvalidLength)
		}

		return data, nil
	case ZeroPadding:
		padLen := blockSize - len(data)%blockSize
		if padLen == blockSize {
			padLen = 0
		}
		out := make([]byte, len(data)+padLen)
		copy(out, data)

		return out, nil
	case Pkcs7:
		padLen := blockSize - len(data)%blockSize
		out := make([]byte, len(data)+padLen)
		copy(out, data)
		for i := len(data); i < len(out); i++ {
			out[i] = byte(padLen)
		}

		return out, nil
	case AnsiX923:
		padLen := blockSize - len(data)%blockSize
		out := make([]byte, len(data)+padLen)
		copy(out, data)
		out[len(out)-1] = byte(padLen)

		return out, nil
	case Iso10126:
		padLen := blockSize - len(data)%blockSize
		out := make([]byte, len(data)+padLen)
		copy(out, data)
		out[len(out)-1] = byte(padLen)

		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown padding scheme", hsmerr.ErrInternal)
	}
}

func removePadding(data []byte, blockSize int, padding Padding) ([]byte, error) {
	switch padding {
	case NoPadding:
		return data, nil
	case ZeroPadding:
		i := len(data)
		for i > 0 && data[i-1] == 0 {
			i--
		}

		return data[:i], nil
	case Pkcs7:
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty ciphertext", hsmerr.ErrCryptoFailure)
		}
		padLen := int(data[len(data)-1])
		if padLen == 0 || padLen > blockSize || padLen > len(data) {
			return nil, fmt.Errorf("%w: invalid pkcs7 padding", hsmerr.ErrCryptoFailure)
		}
		for _, b := range data[len(data)-padLen:] {
			if int(b) != padLen {
				return nil, fmt.Errorf("%w: invalid pkcs7 padding", hsmerr.ErrCryptoFailure)
			}
		}

		return data[:len(data)-padLen], nil
	case AnsiX923, Iso10126:
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty ciphertext", hsmerr.ErrCryptoFailure)
		}
		padLen := int(data[len(data)-1])
		if padLen == 0 || padLen > blockSize || padLen > len(data) {
			return nil, fmt.Errorf("%w: invalid padding", hsmerr.ErrCryptoFailure)
		}

		return data[:len(data)-padLen], nil
	default:
		return nil, fmt.Errorf("%w: unknown padding scheme", hsmerr.ErrInternal)
	}
}
