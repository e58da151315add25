package encoding

import (
	"encoding/binary"
	"fmt"
)

// RedundancyMismatchError reports a both-byte-orders field whose little-endian
// and big-endian halves decode to different values. The field is corrupt; there
// is no way to tell which half to trust.
type RedundancyMismatchError struct {
	Little uint32
	Big    uint32
}

func (e *RedundancyMismatchError) Error() string {
	return fmt.Sprintf("mismatched both-byte orders: little-endian value %d != big-endian value %d", e.Little, e.Big)
}

// MarshalBothByteOrders32 converts a uint32 value into an 8-byte field that
// encodes the value in both little-endian and big-endian orders.
// The resulting byte order is: (yz, wx, uv, st, st, uv, wx, yz),
// where (st uv wx yz) is the hexadecimal representation of the value.
func MarshalBothByteOrders32(val uint32) [8]byte {
	var data [8]byte
	// First four bytes: little-endian representation.
	binary.LittleEndian.PutUint32(data[0:4], val)
	// Last four bytes: big-endian representation.
	binary.BigEndian.PutUint32(data[4:8], val)
	return data
}

// UnmarshalUint32LSBMSB converts an 8-byte field encoded in both little-
// and big-endian orders back to a uint32 value. It verifies that both halves
// are equal; if they are not, it returns a RedundancyMismatchError.
func UnmarshalUint32LSBMSB(data [8]byte) (uint32, error) {
	// Decode little-endian value from the first four bytes.
	little := binary.LittleEndian.Uint32(data[0:4])
	// Decode big-endian value from the last four bytes.
	big := binary.BigEndian.Uint32(data[4:8])
	if little != big {
		return 0, &RedundancyMismatchError{Little: little, Big: big}
	}
	return little, nil
}

// MarshalBothByteOrders16 converts a uint16 value into a 4-byte field that
// encodes the value in both little-endian and big-endian orders.
// The resulting field has the layout: (yz, wx, wx, yz), where (wx, yz) is the
// hexadecimal representation of the value.
// For example, for the value 0x1234, it returns [0x34, 0x12, 0x12, 0x34].
func MarshalBothByteOrders16(val uint16) [4]byte {
	var data [4]byte
	// First two bytes: little-endian representation.
	binary.LittleEndian.PutUint16(data[0:2], val)
	// Next two bytes: big-endian representation.
	binary.BigEndian.PutUint16(data[2:4], val)
	return data
}

// UnmarshalUint16LSBMSB converts a 4-byte field encoded in both little-
// and big-endian orders back to a uint16 value. It verifies that both halves
// match; if they do not, it returns a RedundancyMismatchError.
func UnmarshalUint16LSBMSB(data [4]byte) (uint16, error) {
	// Read the little-endian value from the first two bytes.
	little := binary.LittleEndian.Uint16(data[0:2])
	// Read the big-endian value from the last two bytes.
	big := binary.BigEndian.Uint16(data[2:4])
	if little != big {
		return 0, &RedundancyMismatchError{Little: uint32(little), Big: uint32(big)}
	}
	return little, nil
}
