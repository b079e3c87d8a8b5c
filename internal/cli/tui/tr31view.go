// Package tui provides an interactive terminal viewer for a parsed
// TR-31 key block, adapted from go_hsm's key block header configuration
// wizard. Where the teacher's model stepped a user through *building* a
// header field by field, this one steps a user through *inspecting* one
// that has already been parsed, since pkg/tr31 only parses and never
// constructs a header.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardflow/hsmkit/pkg/tr31"
)

// keyUsageDescriptions maps a TR-31 key usage code to its meaning, the
// same code table go_hsm's header wizard offers as radio options.
var keyUsageDescriptions = map[string]string{
	"B0": "Base Derivation Key (BDK)",
	"B1": "DUKPT Initial Key (IKEY)",
	"B2": "Base Key Variant",
	"C0": "Card Verification Key",
	"D0": "Data Encryption Key (Generic)",
	"D1": "Data Encryption Key (DEK)",
	"D2": "Data Encryption Key (TDEA)",
	"E0": "EMV/Chip Master Key: Application Cryptogram (MKAC)",
	"E1": "EMV/Chip Master Key: Secure Messaging Confidentiality (MKSMC)",
	"E2": "EMV/Chip Master Key: Secure Messaging Integrity (MKSMI)",
	"E3": "EMV/Chip Master Key: Data Authentication Code (MKDAC)",
	"E4": "EMV/Chip Master Key: Dynamic Numbers (MKDN)",
	"E5": "EMV/Chip Master Key: Card Personalization",
	"E6": "EMV/Chip Master Key: Other",
	"G0": "General Purpose Key",
	"I0": "Initialization Value",
	"K0": "Key Encryption/Wrapping Key (Generic)",
	"K1": "Key Encryption Key (KEK)",
	"K2": "Key Wrapping Key",
	"K3": "Key Block Protection Key",
	"M0": "ISO 16609 MAC algorithm 1 (using 3-DES)",
	"M1": "ISO 9797-1 MAC algorithm 1",
	"M2": "ISO 9797-1 MAC algorithm 2",
	"M3": "ISO 9797-1 MAC algorithm 3",
	"M4": "ISO 9797-1 MAC algorithm 4",
	"M5": "AES CMAC",
	"M6": "HMAC key",
	"M7": "ISO 9797-1 MAC algorithm 5",
	"M8": "ISO 9797-1 MAC algorithm 6",
	"P0": "PIN Encryption Key (Generic)",
	"P1": "PIN Encryption Key (IBM Format)",
	"S0": "Asymmetric key for digital signature",
	"S1": "Asymmetric key pair for CA use",
	"S2": "Asymmetric key for non-repudiation",
	"T0": "Transport Key",
	"T1": "Terminal Master Key (TMK)",
	"V0": "PIN Verification Key (Generic)",
	"V1": "PIN Verification Key (IBM 3624 algorithm)",
	"V2": "PIN Verification Key (Visa PVV algorithm)",
	"V3": "PIN Verification Key (X9.8, ANSIX9.24, Supplement)",
	"V4": "PIN Verification Key (X9.132, algorithm 1)",
	"V5": "PIN Verification Key (X9.132, algorithm 2)",
	"X0": "Key Agreement Key",
	"X1": "Asymmetric Key Agreement Key",
	"Y0": "Asymmetric key for key transport",
}

var algorithmDescriptions = map[byte]string{
	'A': "AES",
	'D': "DES",
	'E': "Elliptic Curve (future reference)",
	'H': "HMAC",
	'R': "RSA",
	'S': "DSA (future reference)",
	'T': "Triple DES",
}

var modeOfUseDescriptions = map[byte]string{
	'B': "Both Encrypt and Decrypt",
	'C': "MAC Calculation (Both Generate and Verify)",
	'D': "Decrypt Only",
	'E': "Encrypt Only",
	'G': "MAC Generate Only",
	'N': "No special restrictions",
	'S': "Digital Signature Generation Only",
	'V': "Digital Signature Verification Only",
	'X': "Key Derivation Only",
}

var exportabilityDescriptions = map[byte]string{
	'E': "Exportable in a trusted key block",
	'N': "Non-exportable",
	'S': "Sensitive - exportable in trusted key block with authentication",
}

// field is one inspectable line of the parsed block: a label, its raw
// value, and a human-readable description looked up from the code
// tables above (or empty when the value has no fixed meaning).
type field struct {
	label       string
	value       string
	description string
}

func describe(table map[byte]string, b byte) string {
	if d, ok := table[b]; ok {
		return d
	}

	return "unrecognized code"
}

func headerFields(h tr31.Header) []field {
	return []field{
		{"Version ID", string(h.VersionID), "key block format version"},
		{"Length", fmt.Sprintf("%d", h.Length), "declared total ASCII length"},
		{"Key Usage", h.KeyUsage, describeUsage(h.KeyUsage)},
		{"Algorithm", string(h.Algorithm), describe(algorithmDescriptions, h.Algorithm)},
		{"Mode Of Use", string(h.ModeOfUse), describe(modeOfUseDescriptions, h.ModeOfUse)},
		{"Key Version", h.KeyVersion, "key version number or component indicator"},
		{"Exportability", string(h.Exportability), describe(exportabilityDescriptions, h.Exportability)},
		{"Optional Blocks", fmt.Sprintf("%d", h.OptionalBlockCount), "declared optional block count"},
		{"Reserved", h.Reserved, "reserved field"},
	}
}

func describeUsage(code string) string {
	if d, ok := keyUsageDescriptions[code]; ok {
		return d
	}

	return "unrecognized code"
}

// blockModel steps through a parsed TR-31 block's header fields,
// optional blocks, and trailing encrypted-key/authenticator section.
type blockModel struct {
	parsed  tr31.ParsedBlock
	fields  []field
	current int
	quit    bool
}

// NewBlockModel builds the viewer model for an already-parsed block.
func NewBlockModel(parsed tr31.ParsedBlock) tea.Model {
	fields := headerFields(parsed.Header)

	for _, ob := range parsed.OptionalBlocks {
		fields = append(fields, field{
			label:       fmt.Sprintf("Optional Block %s", ob.ID),
			value:       ob.ValueHex,
			description: fmt.Sprintf("%d declared bytes", ob.LengthByte),
		})
	}

	fields = append(fields,
		field{"Encrypted Key", parsed.EncryptedKey, "wrapped key material, hex"},
		field{"Authenticator", parsed.Authenticator, "MAC/tag trailer, hex"},
	)

	return blockModel{parsed: parsed, fields: fields}
}

func (m blockModel) Init() tea.Cmd {
	return nil
}

func (m blockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "enter":
		m.quit = true

		return m, tea.Quit
	case "up", "k":
		if m.current > 0 {
			m.current--
		}
	case "down", "j", "tab":
		if m.current < len(m.fields)-1 {
			m.current++
		}
	}

	return m, nil
}

func (m blockModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder

	b.WriteString("TR-31 Key Block\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString(fmt.Sprintf("Field %d of %d\n\n", m.current+1, len(m.fields)))

	cur := m.fields[m.current]
	b.WriteString(fmt.Sprintf("%s: %s\n", cur.label, cur.value))
	if cur.description != "" {
		b.WriteString(fmt.Sprintf("  %s\n", cur.description))
	}

	b.WriteString("\n")
	for i, f := range m.fields {
		marker := "  "
		if i == m.current {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s: %s\n", marker, f.label, f.value))
	}

	b.WriteString("\nj/k or ↑/↓: move   q/enter: quit\n")

	return b.String()
}

// RunBlockViewer parses nothing itself; it drives an already-parsed
// block through the interactive viewer until the user quits.
func RunBlockViewer(parsed tr31.ParsedBlock) error {
	_, err := tea.NewProgram(NewBlockModel(parsed)).Run()

	return err
}
