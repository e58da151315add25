package descriptor

import (
	"encoding/binary"
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/encoding"
)

type BootRecordDescriptor struct {
	VolumeDescriptorHeader
	// Boot System Identifier specifies an identification of a system which
	// can recognize and act upon the contents of the Boot Identifier and the
	// boot system use field. El Torito records write it NUL padded.
	//  | (a-characters)
	BootSystemIdentifier string `json:"boot_system_identifier"`
	// Boot Identifier specifies an identification of the boot system.
	//  | (a-characters)
	BootIdentifier string `json:"boot_identifier"`
	// Boot Catalog Address is the absolute sector of the El Torito boot
	// catalog, the first field of the boot system use area.
	//  | Encoding: LittleEndian
	BootCatalogAddr uint32 `json:"boot_catalog_addr"`
}

// NewElTorito returns the boot record announcing an El Torito boot catalog
// recorded at the given absolute sector.
func NewElTorito(catalogSector uint32) *BootRecordDescriptor {
	return &BootRecordDescriptor{
		VolumeDescriptorHeader: NewVolumeDescriptorHeader(TYPE_BOOT_RECORD),
		BootSystemIdentifier:   consts.EL_TORITO_BOOT_SYSTEM_ID,
		BootCatalogAddr:        catalogSector,
	}
}

// IsElTorito reports whether the boot system identifier names the El Torito
// specification.
func (d *BootRecordDescriptor) IsElTorito() bool {
	return d.BootSystemIdentifier == consts.EL_TORITO_BOOT_SYSTEM_ID
}

// Marshal converts the BootRecordDescriptor into its 2048-byte on-disk
// representation. Identifiers are NUL padded, El Torito style; the rest of
// the boot system use area stays zero.
func (d *BootRecordDescriptor) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte

	// 1. Header: bytes 0-6.
	headerBytes, err := d.VolumeDescriptorHeader.Marshal()
	if err != nil {
		return buf, fmt.Errorf("failed to marshal VolumeDescriptorHeader: %w", err)
	}
	copy(buf[0:consts.ISO9660_VOLUME_DESC_HEADER_SIZE], headerBytes[:])

	// 2. Boot System Identifier: bytes 7-38.
	if _, err := encoding.MarshalString(d.BootSystemIdentifier, 32, encoding.CharsetA); err != nil {
		return buf, fmt.Errorf("failed to marshal bootSystemIdentifier: %w", err)
	}
	copy(buf[7:39], d.BootSystemIdentifier)

	// 3. Boot Identifier: bytes 39-70.
	if _, err := encoding.MarshalString(d.BootIdentifier, 32, encoding.CharsetA); err != nil {
		return buf, fmt.Errorf("failed to marshal bootIdentifier: %w", err)
	}
	copy(buf[39:71], d.BootIdentifier)

	// 4. Boot Catalog Address: bytes 71-74, little-endian.
	binary.LittleEndian.PutUint32(buf[71:75], d.BootCatalogAddr)

	return buf, nil
}

// Unmarshal parses a 2048-byte sector into the BootRecordDescriptor. Both
// space and NUL padded identifiers are accepted.
func (d *BootRecordDescriptor) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	// 1. Header: bytes 0-6.
	if err := d.VolumeDescriptorHeader.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(data[0:7])); err != nil {
		return fmt.Errorf("failed to unmarshal VolumeDescriptorHeader: %w", err)
	}

	// 2. Boot System Identifier: bytes 7-38.
	var err error
	d.BootSystemIdentifier, err = encoding.UnmarshalString(data[7:39], encoding.CharsetA)
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootSystemIdentifier: %w", err)
	}

	// 3. Boot Identifier: bytes 39-70.
	d.BootIdentifier, err = encoding.UnmarshalString(data[39:71], encoding.CharsetA)
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootIdentifier: %w", err)
	}

	// 4. Boot Catalog Address: bytes 71-74, little-endian.
	d.BootCatalogAddr = binary.LittleEndian.Uint32(data[71:75])

	return nil
}
