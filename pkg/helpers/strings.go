package helpers

import "github.com/mlaforet/cdkit/pkg/consts"

// PadString left-justifies s in a new buffer of the given length, filling the
// remainder with the ISO9660 filler byte (space). s is truncated if longer.
func PadString(s string, length int) []byte {
	b := make([]byte, length)
	copy(b, s)
	for i := len(s); i < length; i++ {
		b[i] = consts.ISO9660_FILLER
	}
	return b
}
