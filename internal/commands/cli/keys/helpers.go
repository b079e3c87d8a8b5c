package keys

import (
	"fmt"
	"strings"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
)

// parseFamily maps a CLI-friendly family name onto a blockcipher.Family.
func parseFamily(name string) (blockcipher.Family, error) {
	switch strings.ToLower(name) {
	case "3des", "des", "tdes":
		return blockcipher.ThreeDES, nil
	case "aes":
		return blockcipher.AES, nil
	default:
		return 0, fmt.Errorf("unsupported family: %s (must be 3des or aes)", name)
	}
}
