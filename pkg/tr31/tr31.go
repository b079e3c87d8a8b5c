// Package tr31 performs structural parsing of ANSI/ASC X9 TR-31 key
// blocks: the fixed 16-character header, the variable-length run of
// optional blocks, and the trailing encrypted-key/authenticator split.
// No unwrap, decrypt, or MAC verification is performed here; that
// belongs to a key-block-wrap layer such as keyblocklmk, which is
// itself grounded on the parsing loop this package now owns. Field
// layout is grounded on keyblocklmk's Header/OptionalBlock types,
// restructured into a read-only parser per the payment-primitives
// specification this module implements.
package tr31

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cardflow/hsmkit/pkg/hsmerr"
	"github.com/cardflow/hsmkit/pkg/observability"
)

// HeaderLength is the fixed ASCII length of a TR-31 header.
const HeaderLength = 16

// Header is the fixed 16-character TR-31 header.
type Header struct {
	VersionID          byte
	Length             int
	KeyUsage           string
	Algorithm          byte
	ModeOfUse          byte
	KeyVersion         string
	Exportability      byte
	OptionalBlockCount int
	Reserved           string
}

// OptionalBlock is one TR-31 optional block: a 2-character block ID
// and its hex-encoded value, whose declared length is in bytes (so
// the ASCII value is twice as long).
type OptionalBlock struct {
	ID         string
	LengthByte int
	ValueHex   string
}

// ParsedBlock is the full structural decomposition of a TR-31 string.
type ParsedBlock struct {
	Header         Header
	OptionalBlocks []OptionalBlock
	EncryptedKey   string
	Authenticator  string
}

var (
	blockIDPattern = regexp.MustCompile(`^[A-Z0-9]{2}$`)
	lengthPattern  = regexp.MustCompile(`^[0-9]{2}$`)
)

// Parse structurally decomposes a TR-31 key block string. A leading
// 'R' or 'r' transport marker is stripped before parsing.
func Parse(input string, obs ...observability.Observer) (ParsedBlock, error) {
	s := strings.TrimSpace(input)
	if len(s) > 0 && (s[0] == 'R' || s[0] == 'r') {
		s = s[1:]
	}

	header, err := ParseHeader(s)
	if err != nil {
		return ParsedBlock{}, err
	}
	if header.Length != len(s) {
		return ParsedBlock{}, fmt.Errorf(
			"%w: header declares length %d, input has %d characters",
			hsmerr.ErrStructuralMismatch,
			header.Length,
			len(s),
		)
	}

	rest := s[HeaderLength:]

	blocks, consumed := parseOptionalBlocks(rest, header.OptionalBlockCount)
	remainder := rest[consumed:]

	authLen := authenticatorLength(header)
	if len(remainder) < authLen {
		return ParsedBlock{}, fmt.Errorf(
			"%w: remainder shorter than authenticator length %d",
			hsmerr.ErrStructuralMismatch,
			authLen,
		)
	}

	encryptedKey := remainder[:len(remainder)-authLen]
	authenticator := remainder[len(remainder)-authLen:]

	if len(encryptedKey)%2 != 0 {
		return ParsedBlock{}, fmt.Errorf("%w: encrypted key hex length must be even", hsmerr.ErrInvalidLength)
	}

	parsed := ParsedBlock{
		Header:         header,
		OptionalBlocks: blocks,
		EncryptedKey:   encryptedKey,
		Authenticator:  authenticator,
	}

	observability.Notify(obs, observability.Event{
		Name: "tr31_parsed",
		Fields: map[string]string{
			"key_usage":            header.KeyUsage,
			"optional_block_count": fmt.Sprintf("%d", len(blocks)),
		},
	})

	return parsed, nil
}

// ParseHeader decodes the fixed 16-character TR-31 header fields from
// the start of s. Exported so that other key-block wire formats sharing
// this field layout (keyblocklmk's AES key-block variant) can reuse the
// structural slicing instead of duplicating it.
func ParseHeader(s string) (Header, error) {
	if len(s) < HeaderLength {
		return Header{}, fmt.Errorf("%w: input shorter than %d-character header", hsmerr.ErrMalformedInput, HeaderLength)
	}

	h := s[:HeaderLength]

	length, err := strconv.Atoi(h[1:5])
	if err != nil {
		return Header{}, fmt.Errorf("%w: declared length is not decimal", hsmerr.ErrMalformedInput)
	}

	count, err := strconv.Atoi(h[12:14])
	if err != nil {
		return Header{}, fmt.Errorf("%w: optional block count is not decimal", hsmerr.ErrMalformedInput)
	}

	return Header{
		VersionID:          h[0],
		Length:             length,
		KeyUsage:           h[5:7],
		Algorithm:          h[7],
		ModeOfUse:          h[8],
		KeyVersion:         h[9:11],
		Exportability:      h[11],
		OptionalBlockCount: count,
		Reserved:           h[14:16],
	}, nil
}

// parseOptionalBlocks walks up to declaredCount optional blocks out of
// s, stopping early (per the state-machine robustness rule) the moment
// the next block ID or length field doesn't look like one. It returns
// the parsed blocks and the number of ASCII characters consumed.
func parseOptionalBlocks(s string, declaredCount int) ([]OptionalBlock, int) {
	blocks := make([]OptionalBlock, 0, declaredCount)
	pos := 0

	for i := 0; i < declaredCount; i++ {
		if pos+4 > len(s) {
			break
		}

		id := s[pos : pos+2]
		lengthField := s[pos+2 : pos+4]

		if !blockIDPattern.MatchString(id) || !lengthPattern.MatchString(lengthField) {
			break
		}

		lengthBytes, err := strconv.Atoi(lengthField)
		if err != nil {
			break
		}

		valueLen := lengthBytes * 2
		if pos+4+valueLen > len(s) {
			break
		}

		value := s[pos+4 : pos+4+valueLen]

		blocks = append(blocks, OptionalBlock{
			ID:         id,
			LengthByte: lengthBytes,
			ValueHex:   value,
		})

		pos += 4 + valueLen
	}

	return blocks, pos
}

// authenticatorLength returns the trailing hex-character count of the
// authenticator field, keyed off header version and, for version 'C',
// the algorithm character.
func authenticatorLength(h Header) int {
	switch h.VersionID {
	case 'D':
		return 64
	case 'C':
		if h.Algorithm == 'A' {
			return 32
		}

		return 16
	default:
		return 16
	}
}
