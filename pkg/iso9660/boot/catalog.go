package boot

import (
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/logging"
)

// catalogSlots is the number of 32-byte slots in one catalog sector.
const catalogSlots = consts.ISO9660_SECTOR_SIZE / consts.EL_TORITO_ENTRY_SIZE

// Section groups a section header with the entries it announces.
type Section struct {
	Header  SectionHeaderEntry `json:"header"`
	Entries []SectionEntry     `json:"entries"`
}

// Catalog is one boot catalog sector: a validation entry, the initial entry,
// and any number of section groups. A zero first byte in a slot where a
// header is expected ends the catalog.
type Catalog struct {
	Validation *ValidationEntry `json:"validation"`
	Initial    *InitialEntry    `json:"initial"`
	Sections   []Section        `json:"sections,omitempty"`
	Logger     *logging.Logger  `json:"-"`
}

// EntryCount reports how many 32-byte slots the catalog occupies.
func (c *Catalog) EntryCount() int {
	count := 2
	for _, section := range c.Sections {
		count += 1 + len(section.Entries)
	}
	return count
}

// Marshal converts the catalog into its 2048-byte sector. Unused trailing
// slots stay zero, which doubles as the end-of-catalog marker.
func (c *Catalog) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var data [consts.ISO9660_SECTOR_SIZE]byte

	if c.Validation == nil {
		return data, fmt.Errorf("boot catalog requires a validation entry")
	}
	if c.Initial == nil {
		return data, fmt.Errorf("boot catalog requires an initial entry")
	}
	if c.EntryCount() > catalogSlots {
		return data, fmt.Errorf("boot catalog with %d entries exceeds one sector (%d slots)", c.EntryCount(), catalogSlots)
	}

	validation, err := c.Validation.Marshal()
	if err != nil {
		return data, fmt.Errorf("failed to marshal validation entry: %w", err)
	}
	copy(data[0:32], validation[:])

	initial, err := c.Initial.Marshal()
	if err != nil {
		return data, fmt.Errorf("failed to marshal initial entry: %w", err)
	}
	copy(data[32:64], initial[:])

	offset := 2 * consts.EL_TORITO_ENTRY_SIZE
	for i, section := range c.Sections {
		header := section.Header
		header.SectionEntryCount = uint16(len(section.Entries))
		headerBytes, err := header.Marshal()
		if err != nil {
			return data, fmt.Errorf("failed to marshal section header %d: %w", i, err)
		}
		copy(data[offset:offset+consts.EL_TORITO_ENTRY_SIZE], headerBytes[:])
		offset += consts.EL_TORITO_ENTRY_SIZE

		for j := range section.Entries {
			entryBytes, err := section.Entries[j].Marshal()
			if err != nil {
				return data, fmt.Errorf("failed to marshal section %d entry %d: %w", i, j, err)
			}
			copy(data[offset:offset+consts.EL_TORITO_ENTRY_SIZE], entryBytes[:])
			offset += consts.EL_TORITO_ENTRY_SIZE
		}
	}

	return data, nil
}

// Unmarshal parses a 2048-byte catalog sector. Slot 0 must hold the
// validation entry and slot 1 the initial entry; after those, each slot
// either starts a section group, ends the catalog with a zero byte, or is
// rejected.
func (c *Catalog) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	slot := func(n int) [consts.EL_TORITO_ENTRY_SIZE]byte {
		offset := n * consts.EL_TORITO_ENTRY_SIZE
		return [consts.EL_TORITO_ENTRY_SIZE]byte(data[offset : offset+consts.EL_TORITO_ENTRY_SIZE])
	}

	c.Validation = &ValidationEntry{}
	if err := c.Validation.Unmarshal(slot(0)); err != nil {
		return fmt.Errorf("failed to unmarshal validation entry: %w", err)
	}
	if c.Logger != nil {
		c.Logger.Debug("parsed validation entry", "platform", c.Validation.PlatformID.String(), "manufacturer", c.Validation.ManufacturerID)
	}

	c.Initial = &InitialEntry{}
	if err := c.Initial.Unmarshal(slot(1)); err != nil {
		return fmt.Errorf("failed to unmarshal initial entry: %w", err)
	}
	if c.Logger != nil {
		c.Logger.Debug("parsed initial entry", "media", c.Initial.BootMedia.String(), "sector", c.Initial.VirtualDiskAddr)
	}

	c.Sections = nil
	for n := 2; n < catalogSlots; n++ {
		slotBytes := slot(n)
		if slotBytes[0] == 0x00 {
			if c.Logger != nil {
				c.Logger.Debug("end of boot catalog", "slot", n)
			}
			break
		}

		var header SectionHeaderEntry
		if err := header.Unmarshal(slotBytes); err != nil {
			return fmt.Errorf("failed to unmarshal section header at slot %d: %w", n, err)
		}
		if n+int(header.SectionEntryCount) >= catalogSlots {
			return fmt.Errorf("section header at slot %d declares %d entries but only %d slots remain", n, header.SectionEntryCount, catalogSlots-n-1)
		}

		section := Section{Header: header}
		// Entries are consumed by the declared count: a zero first byte
		// inside the group is a not-bootable entry, not the end marker.
		for i := 0; i < int(header.SectionEntryCount); i++ {
			n++
			var entry SectionEntry
			if err := entry.Unmarshal(slot(n)); err != nil {
				return fmt.Errorf("failed to unmarshal section entry at slot %d: %w", n, err)
			}
			section.Entries = append(section.Entries, entry)
		}
		if c.Logger != nil {
			c.Logger.Trace("parsed section", "identifier", header.Identifier, "entries", len(section.Entries))
		}
		c.Sections = append(c.Sections, section)
	}

	return nil
}
