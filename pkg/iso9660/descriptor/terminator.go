package descriptor

import (
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
)

// VolumeDescriptorSetTerminator closes the volume descriptor sequence. Its
// sector is the 7-byte header with type 255 followed by zeros.
type VolumeDescriptorSetTerminator struct {
	VolumeDescriptorHeader
}

// NewTerminator returns a ready-to-marshal set terminator.
func NewTerminator() *VolumeDescriptorSetTerminator {
	return &VolumeDescriptorSetTerminator{
		VolumeDescriptorHeader: NewVolumeDescriptorHeader(TYPE_TERMINATOR_DESCRIPTOR),
	}
}

// Marshal converts the terminator into its 2048-byte on-disk representation.
func (t *VolumeDescriptorSetTerminator) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte
	headerBytes, err := t.VolumeDescriptorHeader.Marshal()
	if err != nil {
		return buf, fmt.Errorf("failed to marshal VolumeDescriptorHeader: %w", err)
	}
	copy(buf[0:consts.ISO9660_VOLUME_DESC_HEADER_SIZE], headerBytes[:])
	return buf, nil
}

// Unmarshal parses a 2048-byte sector into the terminator.
func (t *VolumeDescriptorSetTerminator) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	if err := t.VolumeDescriptorHeader.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(data[0:7])); err != nil {
		return fmt.Errorf("failed to unmarshal VolumeDescriptorHeader: %w", err)
	}
	return nil
}
