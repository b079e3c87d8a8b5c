package pinblock

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
)

func TestISO4PinFieldLayout(t *testing.T) {
	t.Parallel()

	blockA, err := iso4PinField("1234")
	if err != nil {
		t.Fatalf("iso4PinField() unexpected error: %v", err)
	}
	hexField := strings.ToUpper(hex.EncodeToString(blockA))
	if !strings.HasPrefix(hexField, "441234AAAAAAAAAA") {
		t.Errorf("iso4PinField() = %s, want prefix 441234AAAAAAAAAA", hexField)
	}
	if len(hexField) != 32 {
		t.Errorf("iso4PinField() length = %d, want 32", len(hexField))
	}
}

func TestISO4PanFieldLayout(t *testing.T) {
	t.Parallel()

	blockB, err := iso4PanField("43219876543210987")
	if err != nil {
		t.Fatalf("iso4PanField() unexpected error: %v", err)
	}
	hexField := strings.ToUpper(hex.EncodeToString(blockB))
	want := "5" + "43219876543210987" + "00000000000000"
	if hexField != want {
		t.Errorf("iso4PanField() = %s, want %s", hexField, want)
	}
}

func TestISO4EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	provider := blockcipher.Default{}
	pek := "00112233445566778899AABBCCDDEEFF"
	pin := "1234"
	pan := "43219876543210987"

	clear, encrypted, err := EncodeISO4(provider, pin, pan, pek)
	if err != nil {
		t.Fatalf("EncodeISO4() unexpected error: %v", err)
	}
	if !strings.HasPrefix(clear, "441234AAAAAAAAAA") {
		t.Errorf("EncodeISO4() clear = %s, want prefix 441234AAAAAAAAAA", clear)
	}
	if len(encrypted) != 32 {
		t.Errorf("EncodeISO4() encrypted length = %d, want 32", len(encrypted))
	}

	decoded, err := DecodeISO4(provider, encrypted, pan, pek)
	if err != nil {
		t.Fatalf("DecodeISO4() unexpected error: %v", err)
	}
	if decoded != pin {
		t.Errorf("DecodeISO4() = %s, want %s", decoded, pin)
	}
}

func TestISO4RejectsBadPekLength(t *testing.T) {
	t.Parallel()

	provider := blockcipher.Default{}
	_, _, err := EncodeISO4(provider, "1234", "43219876543210987", "AABB")
	if err == nil {
		t.Fatal("EncodeISO4() expected error for short pek, got nil")
	}
}

func TestISO4RequiresPek(t *testing.T) {
	t.Parallel()

	provider := blockcipher.Default{}
	_, _, err := EncodeISO4(provider, "1234", "43219876543210987", "")
	if err == nil {
		t.Fatal("EncodeISO4() expected error for missing pek, got nil")
	}
}
