package encoding

import (
	"fmt"
	"strings"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/helpers"
)

// Charset selects the character set an identifier field is constrained to.
// a-characters allow punctuation and spaces; d-characters are letters, digits
// and underscore only.
type Charset int

const (
	CharsetA Charset = iota
	CharsetD
)

func (c Charset) String() string {
	if c == CharsetD {
		return "d-characters"
	}
	return "a-characters"
}

func (c Charset) alphabet() string {
	if c == CharsetD {
		return consts.D_CHARACTERS
	}
	return consts.A_CHARACTERS
}

// Contains reports whether b is a member of the charset.
func (c Charset) Contains(b byte) bool {
	return strings.IndexByte(c.alphabet(), b) >= 0
}

// InvalidAlphabetError reports a byte outside the charset a field permits.
type InvalidAlphabetError struct {
	CodePoint byte
	Charset   Charset
}

func (e *InvalidAlphabetError) Error() string {
	return fmt.Sprintf("code point 0x%02X is not in the %s set", e.CodePoint, e.Charset)
}

// TooLongError reports a string that cannot fit its fixed-width field.
type TooLongError struct {
	Length int
	Max    int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("string of length %d exceeds the %d-byte field", e.Length, e.Max)
}

// UnmarshalString decodes a fixed-width identifier field. Trailing padding,
// either filler spaces or NUL bytes, is trimmed first; every byte of the
// remaining logical value must belong to the charset.
func UnmarshalString(data []byte, set Charset) (string, error) {
	end := len(data)
	for end > 0 && (data[end-1] == consts.ISO9660_FILLER || data[end-1] == 0x00) {
		end--
	}
	for _, b := range data[:end] {
		if !set.Contains(b) {
			return "", &InvalidAlphabetError{CodePoint: b, Charset: set}
		}
	}
	return string(data[:end]), nil
}

// MarshalString validates s against the charset and left-justifies it into a
// space-filled field of the given length.
func MarshalString(s string, length int, set Charset) ([]byte, error) {
	if len(s) > length {
		return nil, &TooLongError{Length: len(s), Max: length}
	}
	for i := 0; i < len(s); i++ {
		if !set.Contains(s[i]) {
			return nil, &InvalidAlphabetError{CodePoint: s[i], Charset: set}
		}
	}
	return helpers.PadString(s, length), nil
}
