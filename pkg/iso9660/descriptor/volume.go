package descriptor

import (
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
)

// VolumeDescriptorType represents the type of volume descriptor in the ISO9660 standard.
type VolumeDescriptorType byte

const (
	// TYPE_BOOT_RECORD indicates a Boot Record (type 0).
	TYPE_BOOT_RECORD VolumeDescriptorType = 0x00

	// TYPE_PRIMARY_DESCRIPTOR indicates a Primary Volume Descriptor (type 1).
	TYPE_PRIMARY_DESCRIPTOR VolumeDescriptorType = 0x01

	// TYPE_SUPPLEMENTARY_DESCRIPTOR indicates a Supplementary Volume Descriptor (type 2).
	TYPE_SUPPLEMENTARY_DESCRIPTOR VolumeDescriptorType = 0x02

	// TYPE_PARTITION_DESCRIPTOR indicates a Volume Partition Descriptor (type 3).
	TYPE_PARTITION_DESCRIPTOR VolumeDescriptorType = 0x03

	// TYPE_TERMINATOR_DESCRIPTOR indicates the Volume Descriptor Set Terminator (type 255).
	TYPE_TERMINATOR_DESCRIPTOR VolumeDescriptorType = 0xFF
)

func (t VolumeDescriptorType) String() string {
	switch t {
	case TYPE_BOOT_RECORD:
		return "Boot Record"
	case TYPE_PRIMARY_DESCRIPTOR:
		return "Primary Volume Descriptor"
	case TYPE_SUPPLEMENTARY_DESCRIPTOR:
		return "Supplementary Volume Descriptor"
	case TYPE_PARTITION_DESCRIPTOR:
		return "Volume Partition Descriptor"
	case TYPE_TERMINATOR_DESCRIPTOR:
		return "Volume Descriptor Set Terminator"
	default:
		return fmt.Sprintf("Unknown Volume Descriptor (0x%02X)", byte(t))
	}
}

type VolumeDescriptor interface {
	Type() VolumeDescriptorType
	Identifier() string
	Version() uint8
	Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error)
	Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error
}
