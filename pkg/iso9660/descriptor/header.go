package descriptor

import (
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/helpers"
)

// UnknownTypeError reports a volume descriptor type byte outside the set the
// standard defines (0-3 and 255).
type UnknownTypeError struct {
	Type byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown volume descriptor type 0x%02X", e.Type)
}

// UnknownIdentifierError reports a descriptor whose standard identifier field
// does not hold "CD001".
type UnknownIdentifierError struct {
	Identifier string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown standard identifier %q", e.Identifier)
}

// UnknownVersionError reports an unsupported descriptor or structure version.
type UnknownVersionError struct {
	Version uint8
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown descriptor version %d", e.Version)
}

type VolumeDescriptorHeader struct {
	// Volume Descriptor Types.
	//  | 0 = Boot Record
	//  | 1 = Primary
	//  | 2 = Supplementary
	//  | 3 = Partition
	//  | 4 - 254 = Reserved
	//  | 255 = Terminator
	VolumeDescriptorType VolumeDescriptorType `json:"volume_descriptor_type"`
	// Standard Identifier should always be 'CD001' as a string or 0x4344303031.
	StandardIdentifier string `json:"standard_identifier"`
	// Volume Descriptor Version. Always 1.
	VolumeDescriptorVersion uint8 `json:"volume_descriptor_version"`
}

// NewVolumeDescriptorHeader returns a header of the given type with the
// standard identifier and version filled in.
func NewVolumeDescriptorHeader(t VolumeDescriptorType) VolumeDescriptorHeader {
	return VolumeDescriptorHeader{
		VolumeDescriptorType:    t,
		StandardIdentifier:      consts.ISO9660_STD_IDENTIFIER,
		VolumeDescriptorVersion: consts.ISO9660_VOLUME_DESC_VERSION,
	}
}

func (vdh *VolumeDescriptorHeader) Type() VolumeDescriptorType {
	return vdh.VolumeDescriptorType
}

func (vdh *VolumeDescriptorHeader) Identifier() string {
	return vdh.StandardIdentifier
}

func (vdh *VolumeDescriptorHeader) Version() uint8 {
	return vdh.VolumeDescriptorVersion
}

// Marshal converts the VolumeDescriptorHeader into its 7-byte on-disk representation.
func (vdh *VolumeDescriptorHeader) Marshal() ([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte, error) {
	var buf [consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte

	// Byte 0: Volume Descriptor Type.
	buf[0] = byte(vdh.VolumeDescriptorType)

	// Bytes 1-5: Standard Identifier, padded with spaces if short.
	sid := helpers.PadString(vdh.StandardIdentifier, 5)
	copy(buf[1:6], sid)

	// Byte 6: Volume Descriptor Version.
	buf[6] = vdh.VolumeDescriptorVersion

	return buf, nil
}

// Unmarshal parses a 7-byte field into the VolumeDescriptorHeader. The checks
// run in a fixed order: descriptor type first, then the standard identifier,
// then the version.
func (vdh *VolumeDescriptorHeader) Unmarshal(data [consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte) error {
	t := VolumeDescriptorType(data[0])
	switch t {
	case TYPE_BOOT_RECORD, TYPE_PRIMARY_DESCRIPTOR, TYPE_SUPPLEMENTARY_DESCRIPTOR,
		TYPE_PARTITION_DESCRIPTOR, TYPE_TERMINATOR_DESCRIPTOR:
	default:
		return &UnknownTypeError{Type: data[0]}
	}

	ident := string(data[1:6])
	if ident != consts.ISO9660_STD_IDENTIFIER {
		return &UnknownIdentifierError{Identifier: ident}
	}

	if data[6] != consts.ISO9660_VOLUME_DESC_VERSION {
		return &UnknownVersionError{Version: data[6]}
	}

	vdh.VolumeDescriptorType = t
	vdh.StandardIdentifier = ident
	vdh.VolumeDescriptorVersion = data[6]
	return nil
}
