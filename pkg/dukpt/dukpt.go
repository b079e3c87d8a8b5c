// Package dukpt derives ANSI X9.24-1 DUKPT key sets: the Initial PIN
// Encryption Key, the per-transaction key produced by walking the
// 21-bit counter shift register, and the five session-key variants
// derived from it. Grounded on go_hsm's pkg/cryptoutils session-key
// helpers (DeriveSessionKey, PrepareTripleDESKey) for the XOR/3DES
// idiom, generalized here into the full IPEK-to-session-key pipeline
// that go_hsm itself never implemented end to end.
package dukpt

import (
	"fmt"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
	"github.com/cardflow/hsmkit/pkg/hexutil"
	"github.com/cardflow/hsmkit/pkg/hsmerr"
	"github.com/cardflow/hsmkit/pkg/observability"
)

// KSNLength is the fixed length, in bytes, of a DUKPT key serial number.
const KSNLength = 10

// variantMask is the 16-byte constant XORed into a key before deriving
// the "B" half of a non-reversible key-generation step, and into the
// BDK before deriving ipekRight.
var variantMask = [16]byte{0xC0, 0xC0, 0xC0, 0xC0, 0x00, 0x00, 0x00, 0x00, 0xC0, 0xC0, 0xC0, 0xC0, 0x00, 0x00, 0x00, 0x00}

// sessionVariant holds the 16-byte constants XORed into a transaction
// key to produce each of the five ANSI X9.24-1 session keys.
var (
	pinVariant          = [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xF0}
	macRequestVariant   = [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0}
	macResponseVariant  = [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}
	dataRequestVariant  = [16]byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0}
	dataResponseVariant = [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
)

// KeySet is the full set of keys derivable from a (BDK, KSN) pair.
type KeySet struct {
	KSN             string
	Counter         uint32
	IPEK            string
	TransactionKey  string
	PINKey          string
	MACRequestKey   string
	MACResponseKey  string
	DataRequestKey  string
	DataResponseKey string
}

// Derive computes the full KeySet for bdkHex (16 or 24 bytes) and
// ksnHex (exactly 10 bytes), per spec steps 1-4.
func Derive(
	provider blockcipher.Provider,
	bdkHex, ksnHex string,
	obs ...observability.Observer,
) (KeySet, error) {
	bdk, err := hexutil.Decode(bdkHex)
	if err != nil {
		return KeySet{}, err
	}
	if len(bdk) != 16 && len(bdk) != 24 {
		return KeySet{}, fmt.Errorf("%w: bdk must be 16 or 24 bytes", hsmerr.ErrInvalidLength)
	}

	ksnBytes, err := hexutil.Decode(ksnHex)
	if err != nil {
		return KeySet{}, err
	}
	if len(ksnBytes) != KSNLength {
		return KeySet{}, fmt.Errorf("%w: ksn must be %d bytes", hsmerr.ErrInvalidLength, KSNLength)
	}
	var ksn [KSNLength]byte
	copy(ksn[:], ksnBytes)

	counter := counterOf(ksn)
	cleared := clearCounter(ksn)

	ipek, err := derivePEK(provider, bdk, cleared)
	if err != nil {
		return KeySet{}, err
	}

	txnKey, err := walkTransactionKey(provider, ipek, cleared, counter)
	if err != nil {
		return KeySet{}, err
	}

	pin, err := xorVariant(txnKey, pinVariant)
	if err != nil {
		return KeySet{}, err
	}
	macReq, err := xorVariant(txnKey, macRequestVariant)
	if err != nil {
		return KeySet{}, err
	}
	macResp, err := xorVariant(txnKey, macResponseVariant)
	if err != nil {
		return KeySet{}, err
	}
	dataReq, err := xorVariant(txnKey, dataRequestVariant)
	if err != nil {
		return KeySet{}, err
	}
	dataResp, err := xorVariant(txnKey, dataResponseVariant)
	if err != nil {
		return KeySet{}, err
	}

	keySet := KeySet{
		KSN:             hexutil.Encode(ksn[:]),
		Counter:         counter,
		IPEK:            hexutil.Encode(ipek[:]),
		TransactionKey:  hexutil.Encode(txnKey[:]),
		PINKey:          pin,
		MACRequestKey:   macReq,
		MACResponseKey:  macResp,
		DataRequestKey:  dataReq,
		DataResponseKey: dataResp,
	}

	observability.Notify(obs, observability.Event{
		Name: "dukpt_derived",
		Fields: map[string]string{
			"ksn":     keySet.KSN,
			"counter": fmt.Sprintf("%d", counter),
		},
	})

	return keySet, nil
}

// counterOf extracts the low 21 bits of the 80-bit KSN: the full low
// byte, the second-to-last byte, and the low 5 bits of the third byte
// from the end.
func counterOf(ksn [KSNLength]byte) uint32 {
	return uint32(ksn[7]&0x1F)<<16 | uint32(ksn[8])<<8 | uint32(ksn[9])
}

// clearCounter zeroes the low 21 bits of ksn, leaving
// KSN-with-counter-cleared.
func clearCounter(ksn [KSNLength]byte) [KSNLength]byte {
	out := ksn
	out[7] &= 0xE0
	out[8] = 0
	out[9] = 0

	return out
}

// setCounterBit sets bit i (0 = least significant) of the 21-bit
// counter field embedded in the low 21 bits of the 10-byte register.
func setCounterBit(reg *[KSNLength]byte, i int) {
	byteFromEnd := i / 8
	bitInByte := uint(i % 8)
	idx := KSNLength - 1 - byteFromEnd
	reg[idx] |= 1 << bitInByte
}

func derivePEK(provider blockcipher.Provider, bdk []byte, cleared [KSNLength]byte) ([16]byte, error) {
	var ipek [16]byte

	// The IPEK's 8-byte crypto input is the leftmost 8 bytes of the
	// cleared 10-byte register (the 59-bit key-serial-number portion),
	// unlike the transaction-key walk below, which drops the leftmost
	// 2 bytes instead. Confirmed against the ANSI X9.24-1 reference
	// vector; go_hsm never implemented IPEK derivation to check this
	// against.
	ksn8 := cleared[:8]

	ipekLeft, err := provider.EncryptECBNoPadding(blockcipher.ThreeDES, bdk, ksn8)
	if err != nil {
		return ipek, err
	}

	bdkMod := make([]byte, len(bdk))
	for i := range bdk {
		bdkMod[i] = bdk[i] ^ variantMask[i%16]
	}

	ipekRight, err := provider.EncryptECBNoPadding(blockcipher.ThreeDES, bdkMod, ksn8)
	if err != nil {
		return ipek, err
	}

	copy(ipek[:8], ipekLeft)
	copy(ipek[8:], ipekRight)

	return ipek, nil
}

func walkTransactionKey(
	provider blockcipher.Provider,
	ipek [16]byte,
	cleared [KSNLength]byte,
	counter uint32,
) ([16]byte, error) {
	currentKey := ipek
	shiftReg := cleared

	for i := 0; i <= 20; i++ {
		if counter&(1<<uint(i)) == 0 {
			continue
		}

		setCounterBit(&shiftReg, i)
		ksnPortion := shiftReg[2:10]

		next, err := nonReversibleStep(provider, currentKey, ksnPortion)
		if err != nil {
			return currentKey, err
		}
		currentKey = next
	}

	return currentKey, nil
}

// nonReversibleStep is the DUKPT "non-reversible key generation
// process": the left half of the new key is derived under the current
// key's unmodified halves, the right half under halves XORed with
// variantMask.
func nonReversibleStep(provider blockcipher.Provider, currentKey [16]byte, ksnPortion []byte) ([16]byte, error) {
	var next [16]byte

	left := currentKey[:8]
	right := currentKey[8:]

	m := xor8(ksnPortion, right)
	encLeft, err := provider.EncryptECBNoPadding(blockcipher.ThreeDES, left, m[:])
	if err != nil {
		return next, err
	}
	newLeft := xor8(encLeft, right)

	var mod [16]byte
	for i := 0; i < 16; i++ {
		mod[i] = currentKey[i] ^ variantMask[i]
	}
	lp := mod[:8]
	rp := mod[8:]

	m2 := xor8(ksnPortion, rp)
	encRight, err := provider.EncryptECBNoPadding(blockcipher.ThreeDES, lp, m2[:])
	if err != nil {
		return next, err
	}
	newRight := xor8(encRight, rp)

	copy(next[:8], newLeft[:])
	copy(next[8:], newRight[:])

	return next, nil
}

func xor8(a, b []byte) [8]byte {
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[i] = a[i] ^ b[i]
	}

	return out
}

func xorVariant(key [16]byte, variant [16]byte) (string, error) {
	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = key[i] ^ variant[i]
	}

	return hexutil.Encode(out[:]), nil
}
