package boot

import (
	"encoding/binary"
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/encoding"
)

// ValidationEntry is the mandatory first slot of a boot catalog. The
// checksum word at bytes 28-29 is chosen so that all sixteen little-endian
// words of the slot sum to zero; Marshal computes it, Unmarshal leaves its
// verification to the conformance checks.
type ValidationEntry struct {
	HeaderID       byte     `json:"header_id"`
	PlatformID     Platform `json:"platform_id"`
	ManufacturerID string   `json:"manufacturer_id"`
}

// NewValidationEntry returns a validation entry for the given platform.
func NewValidationEntry(platform Platform, manufacturer string) *ValidationEntry {
	return &ValidationEntry{
		HeaderID:       consts.EL_TORITO_VALIDATION_HEADER_ID,
		PlatformID:     platform,
		ManufacturerID: manufacturer,
	}
}

// ValidationChecksum sums the sixteen little-endian words of a catalog slot.
// A conformant validation entry sums to zero.
func ValidationChecksum(data [consts.EL_TORITO_ENTRY_SIZE]byte) uint16 {
	var sum uint16
	for i := 0; i < consts.EL_TORITO_ENTRY_SIZE; i += 2 {
		sum += binary.LittleEndian.Uint16(data[i : i+2])
	}
	return sum
}

// Marshal converts the validation entry into its 32-byte slot.
func (e *ValidationEntry) Marshal() ([consts.EL_TORITO_ENTRY_SIZE]byte, error) {
	var data [consts.EL_TORITO_ENTRY_SIZE]byte

	// 1. headerID, platformID, and the reserved word at bytes 2-3.
	data[0] = e.HeaderID
	data[1] = byte(e.PlatformID)

	// 2. manufacturerID: bytes 4-27 (a-characters, padded with ' ').
	manufacturer, err := encoding.MarshalString(e.ManufacturerID, 24, encoding.CharsetA)
	if err != nil {
		return data, fmt.Errorf("failed to marshal manufacturerID: %w", err)
	}
	copy(data[4:28], manufacturer)

	// 3. Key bytes 0x55 0xAA at 30-31.
	data[30] = consts.EL_TORITO_KEY_BYTE_1
	data[31] = consts.EL_TORITO_KEY_BYTE_2

	// 4. Checksum word at 28-29, the negated sum of the other words.
	binary.LittleEndian.PutUint16(data[28:30], -ValidationChecksum(data))

	return data, nil
}

// Unmarshal parses a 32-byte slot into the validation entry.
func (e *ValidationEntry) Unmarshal(data [consts.EL_TORITO_ENTRY_SIZE]byte) error {
	if data[0] != consts.EL_TORITO_VALIDATION_HEADER_ID {
		return &UnknownHeaderIndicatorError{Indicator: data[0]}
	}
	e.HeaderID = data[0]

	platform, err := ParsePlatform(data[1])
	if err != nil {
		return fmt.Errorf("failed to unmarshal platformID: %w", err)
	}
	e.PlatformID = platform

	e.ManufacturerID, err = encoding.UnmarshalString(data[4:28], encoding.CharsetA)
	if err != nil {
		return fmt.Errorf("failed to unmarshal manufacturerID: %w", err)
	}

	return nil
}

// InitialEntry is the default boot entry at slot 1 of the catalog, used by
// firmware that does not walk section headers.
type InitialEntry struct {
	BootIndicator BootIndicator `json:"boot_indicator"`
	BootMedia     BootMedia     `json:"boot_media"`
	// Load Segment for x86 images; zero means the traditional 0x7C0.
	LoadSegment uint16 `json:"load_segment"`
	// System Type must match byte 5 of the partition table found in the
	// boot image.
	SystemType byte `json:"system_type"`
	// Sector Count of virtual-disk sectors (512 bytes) loaded at boot.
	SectorCount uint16 `json:"sector_count"`
	// Virtual Disk Address: start of the boot image, in 2048-byte sectors.
	VirtualDiskAddr uint32 `json:"virtual_disk_addr"`
}

// Marshal converts the initial entry into its 32-byte slot.
func (e *InitialEntry) Marshal() ([consts.EL_TORITO_ENTRY_SIZE]byte, error) {
	var data [consts.EL_TORITO_ENTRY_SIZE]byte
	data[0] = byte(e.BootIndicator)
	data[1] = byte(e.BootMedia)
	binary.LittleEndian.PutUint16(data[2:4], e.LoadSegment)
	data[4] = e.SystemType
	binary.LittleEndian.PutUint16(data[6:8], e.SectorCount)
	binary.LittleEndian.PutUint32(data[8:12], e.VirtualDiskAddr)
	return data, nil
}

// Unmarshal parses a 32-byte slot into the initial entry.
func (e *InitialEntry) Unmarshal(data [consts.EL_TORITO_ENTRY_SIZE]byte) error {
	indicator, err := ParseBootIndicator(data[0])
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootIndicator: %w", err)
	}
	e.BootIndicator = indicator

	media, err := ParseBootMedia(data[1])
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootMedia: %w", err)
	}
	e.BootMedia = media

	e.LoadSegment = binary.LittleEndian.Uint16(data[2:4])
	e.SystemType = data[4]
	e.SectorCount = binary.LittleEndian.Uint16(data[6:8])
	e.VirtualDiskAddr = binary.LittleEndian.Uint32(data[8:12])
	return nil
}

// SectionHeaderEntry introduces a group of section entries and tells the
// firmware how many follow.
type SectionHeaderEntry struct {
	HeaderIndicator   HeaderIndicator `json:"header_indicator"`
	PlatformID        Platform        `json:"platform_id"`
	SectionEntryCount uint16          `json:"section_entry_count"`
	// Identifier of the section, for boot managers that present a menu.
	//  | (a-characters)
	Identifier string `json:"identifier"`
}

// Marshal converts the section header into its 32-byte slot.
func (e *SectionHeaderEntry) Marshal() ([consts.EL_TORITO_ENTRY_SIZE]byte, error) {
	var data [consts.EL_TORITO_ENTRY_SIZE]byte
	data[0] = byte(e.HeaderIndicator)
	data[1] = byte(e.PlatformID)
	binary.LittleEndian.PutUint16(data[2:4], e.SectionEntryCount)

	identifier, err := encoding.MarshalString(e.Identifier, 28, encoding.CharsetA)
	if err != nil {
		return data, fmt.Errorf("failed to marshal identifier: %w", err)
	}
	copy(data[4:32], identifier)
	return data, nil
}

// Unmarshal parses a 32-byte slot into the section header.
func (e *SectionHeaderEntry) Unmarshal(data [consts.EL_TORITO_ENTRY_SIZE]byte) error {
	indicator, err := ParseHeaderIndicator(data[0])
	if err != nil {
		return fmt.Errorf("failed to unmarshal headerIndicator: %w", err)
	}
	e.HeaderIndicator = indicator

	platform, err := ParsePlatform(data[1])
	if err != nil {
		return fmt.Errorf("failed to unmarshal platformID: %w", err)
	}
	e.PlatformID = platform

	e.SectionEntryCount = binary.LittleEndian.Uint16(data[2:4])

	e.Identifier, err = encoding.UnmarshalString(data[4:32], encoding.CharsetA)
	if err != nil {
		return fmt.Errorf("failed to unmarshal identifier: %w", err)
	}
	return nil
}

// SectionEntry describes one bootable image inside a section. Byte 1 packs
// the boot media into bits 0-3 and the three capability flags into bits 5,
// 6 and 7; the same layout is used in both directions.
type SectionEntry struct {
	BootIndicator            BootIndicator         `json:"boot_indicator"`
	BootMedia                BootMedia             `json:"boot_media"`
	ContinuationEntryFollows bool                  `json:"continuation_entry_follows"`
	ContainsATAPIDriver      bool                  `json:"contains_atapi_driver"`
	ContainsSCSIDrivers      bool                  `json:"contains_scsi_drivers"`
	LoadSegment              uint16                `json:"load_segment"`
	SystemType               byte                  `json:"system_type"`
	SectorCount              uint16                `json:"sector_count"`
	VirtualDiskAddr          uint32                `json:"virtual_disk_addr"`
	SelectionCriteriaType    SelectionCriteriaType `json:"selection_criteria_type"`
	// Vendor-specific criteria bytes 13-31 of the slot, carried verbatim.
	SelectionCriteria [19]byte `json:"selection_criteria"`
}

// Marshal converts the section entry into its 32-byte slot.
func (e *SectionEntry) Marshal() ([consts.EL_TORITO_ENTRY_SIZE]byte, error) {
	var data [consts.EL_TORITO_ENTRY_SIZE]byte

	// The media value must fit in bits 0-3 or it would clobber the flags.
	if byte(e.BootMedia)&^0x0F != 0 {
		return data, &UnknownBootMediaError{Media: byte(e.BootMedia)}
	}

	data[0] = byte(e.BootIndicator)
	data[1] = byte(e.BootMedia)
	if e.ContinuationEntryFollows {
		data[1] |= 1 << 5
	}
	if e.ContainsATAPIDriver {
		data[1] |= 1 << 6
	}
	if e.ContainsSCSIDrivers {
		data[1] |= 1 << 7
	}
	binary.LittleEndian.PutUint16(data[2:4], e.LoadSegment)
	data[4] = e.SystemType
	binary.LittleEndian.PutUint16(data[6:8], e.SectorCount)
	binary.LittleEndian.PutUint32(data[8:12], e.VirtualDiskAddr)
	data[12] = byte(e.SelectionCriteriaType)
	copy(data[13:32], e.SelectionCriteria[:])
	return data, nil
}

// Unmarshal parses a 32-byte slot into the section entry.
func (e *SectionEntry) Unmarshal(data [consts.EL_TORITO_ENTRY_SIZE]byte) error {
	indicator, err := ParseBootIndicator(data[0])
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootIndicator: %w", err)
	}
	e.BootIndicator = indicator

	media, err := ParseBootMedia(data[1] & 0x0F)
	if err != nil {
		return fmt.Errorf("failed to unmarshal bootMedia: %w", err)
	}
	e.BootMedia = media
	e.ContinuationEntryFollows = data[1]&(1<<5) != 0
	e.ContainsATAPIDriver = data[1]&(1<<6) != 0
	e.ContainsSCSIDrivers = data[1]&(1<<7) != 0

	e.LoadSegment = binary.LittleEndian.Uint16(data[2:4])
	e.SystemType = data[4]
	e.SectorCount = binary.LittleEndian.Uint16(data[6:8])
	e.VirtualDiskAddr = binary.LittleEndian.Uint32(data[8:12])
	e.SelectionCriteriaType = SelectionCriteriaType(data[12])
	copy(e.SelectionCriteria[:], data[13:32])
	return nil
}
