// Package cli contains utilities for CLI operations.
package cli

import (
	"fmt"
	"io"
)

// GetSupportedPinBlockFormats returns a map of Thales format codes to readable format descriptions.
func GetSupportedPinBlockFormats() map[string]string {
	return map[string]string{
		"01": "ISO 9564-1 Format 0 (ANSI X9.8)",
		"02": "Docutel Format (not implemented)",
		"03": "Diebold/IBM 3624 Format (not implemented)",
		"04": "PLUS Network Format",
		"05": "ISO 9564-1 Format 1",
		"34": "ISO 9564-1 Format 2",
		"35": "Mastercard Pay Now & Pay Later Format",
		"41": "Visa PIN-only Change Format",
		"42": "Visa Old+New PIN Change Format",
		"47": "ISO 9564-1 Format 3",
		"48": "ISO 9564-1 Format 4 (not selectable by format code)",
	}
}

// PrintSupportedFormats writes the supported PIN block formats to w in a
// readable format.
func PrintSupportedFormats(w io.Writer) {
	formats := GetSupportedPinBlockFormats()
	fmt.Fprintln(w, "Supported PIN block formats:")
	fmt.Fprintln(w, "----------------------------")
	for code, desc := range formats {
		fmt.Fprintf(w, "%s: %s\n", code, desc)
	}
}
