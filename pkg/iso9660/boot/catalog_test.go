package boot

import (
	"testing"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/logging"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{
		Validation: NewValidationEntry(X86, "ACME"),
		Initial: &InitialEntry{
			BootIndicator:   Bootable,
			BootMedia:       Floppy1_44,
			SectorCount:     4,
			VirtualDiskAddr: 19,
		},
		Sections: []Section{
			{
				Header: SectionHeaderEntry{
					HeaderIndicator:   PartialHeader,
					PlatformID:        X86,
					SectionEntryCount: 2,
					Identifier:        "BIOS IMAGES",
				},
				Entries: []SectionEntry{
					{BootIndicator: Bootable, BootMedia: NoEmulation, SectorCount: 8, VirtualDiskAddr: 23},
					{BootIndicator: NotBootable, BootMedia: NoEmulation},
				},
			},
			{
				Header: SectionHeaderEntry{
					HeaderIndicator:   FinalHeader,
					PlatformID:        UEFI,
					SectionEntryCount: 1,
					Identifier:        "UEFI IMAGES",
				},
				Entries: []SectionEntry{
					{BootIndicator: Bootable, BootMedia: NoEmulation, SectorCount: 16, VirtualDiskAddr: 31, ContainsATAPIDriver: true},
				},
			},
		},
	}
}

func TestCatalog_MarshalUnmarshal(t *testing.T) {
	catalog := testCatalog()
	data, err := catalog.Marshal()
	require.NoError(t, err)

	// Slot 0 validation, slot 1 initial, slot 2 first section header.
	require.Equal(t, byte(0x01), data[0])
	require.Equal(t, byte(0x88), data[32])
	require.Equal(t, byte(0x90), data[64])
	// Slot 5 second section header, slot 7 first free slot.
	require.Equal(t, byte(0x91), data[5*32])
	require.Equal(t, byte(0x00), data[7*32])

	var parsed Catalog
	require.NoError(t, parsed.Unmarshal(data))
	require.Equal(t, catalog.Validation, parsed.Validation)
	require.Equal(t, catalog.Initial, parsed.Initial)
	require.Equal(t, catalog.Sections, parsed.Sections)
	require.Equal(t, 7, parsed.EntryCount())
}

func TestCatalog_Unmarshal(t *testing.T) {
	t.Run("catalog without sections", func(t *testing.T) {
		minimal := &Catalog{
			Validation: NewValidationEntry(X86, ""),
			Initial:    &InitialEntry{BootIndicator: Bootable, BootMedia: NoEmulation},
		}
		data, err := minimal.Marshal()
		require.NoError(t, err)

		var parsed Catalog
		require.NoError(t, parsed.Unmarshal(data))
		require.Empty(t, parsed.Sections)
		require.Equal(t, 2, parsed.EntryCount())
	})

	t.Run("the zero slot ends the walk", func(t *testing.T) {
		data, err := testCatalog().Marshal()
		require.NoError(t, err)
		// Zero out the second section header; the slots after it no longer
		// matter even if they hold entry-like bytes.
		for i := 5 * 32; i < 6*32; i++ {
			data[i] = 0x00
		}
		data[8*32] = 0x77

		parsed := Catalog{Logger: logging.DefaultLogger()}
		require.NoError(t, parsed.Unmarshal(data))
		require.Len(t, parsed.Sections, 1)
		require.Equal(t, "BIOS IMAGES", parsed.Sections[0].Header.Identifier)
	})

	t.Run("a stray tag where a header belongs fails", func(t *testing.T) {
		data, err := testCatalog().Marshal()
		require.NoError(t, err)
		data[5*32] = 0x77

		var parsed Catalog
		err = parsed.Unmarshal(data)
		require.Error(t, err)
		var headerErr *UnknownHeaderIndicatorError
		require.ErrorAs(t, err, &headerErr)
		require.Equal(t, byte(0x77), headerErr.Indicator)
	})

	t.Run("not-bootable entries inside a group do not end the catalog", func(t *testing.T) {
		data, err := testCatalog().Marshal()
		require.NoError(t, err)
		// Slot 4 is the second entry of the first section and starts with
		// 0x00; the walk must still reach the final section at slot 5.
		require.Equal(t, byte(0x00), data[4*32])

		var parsed Catalog
		require.NoError(t, parsed.Unmarshal(data))
		require.Len(t, parsed.Sections, 2)
		require.Equal(t, NotBootable, parsed.Sections[0].Entries[1].BootIndicator)
	})

	t.Run("a section count past the sector fails", func(t *testing.T) {
		data, err := testCatalog().Marshal()
		require.NoError(t, err)
		// First section header now claims more entries than slots remain.
		data[64+2] = 0xFF
		data[64+3] = 0x00

		var parsed Catalog
		err = parsed.Unmarshal(data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "slots remain")
	})

	t.Run("a broken validation entry aborts the parse", func(t *testing.T) {
		data, err := testCatalog().Marshal()
		require.NoError(t, err)
		data[1] = 0x33

		var parsed Catalog
		err = parsed.Unmarshal(data)
		require.Error(t, err)
		var platformErr *UnknownPlatformIDError
		require.ErrorAs(t, err, &platformErr)
	})
}

func TestCatalog_MarshalErrors(t *testing.T) {
	t.Run("validation entry is mandatory", func(t *testing.T) {
		catalog := &Catalog{Initial: &InitialEntry{BootIndicator: Bootable}}
		_, err := catalog.Marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "validation entry")
	})

	t.Run("initial entry is mandatory", func(t *testing.T) {
		catalog := &Catalog{Validation: NewValidationEntry(X86, "")}
		_, err := catalog.Marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "initial entry")
	})

	t.Run("catalogs larger than one sector are rejected", func(t *testing.T) {
		catalog := &Catalog{
			Validation: NewValidationEntry(X86, ""),
			Initial:    &InitialEntry{BootIndicator: Bootable, BootMedia: NoEmulation},
		}
		section := Section{
			Header: SectionHeaderEntry{HeaderIndicator: FinalHeader, PlatformID: X86},
		}
		for i := 0; i < consts.ISO9660_SECTOR_SIZE/consts.EL_TORITO_ENTRY_SIZE; i++ {
			section.Entries = append(section.Entries, SectionEntry{BootIndicator: Bootable, BootMedia: NoEmulation})
		}
		catalog.Sections = []Section{section}

		_, err := catalog.Marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "exceeds one sector")
	})

	t.Run("marshal normalizes the declared entry counts", func(t *testing.T) {
		catalog := testCatalog()
		catalog.Sections[0].Header.SectionEntryCount = 40

		data, err := catalog.Marshal()
		require.NoError(t, err)

		var parsed Catalog
		require.NoError(t, parsed.Unmarshal(data))
		require.Equal(t, uint16(2), parsed.Sections[0].Header.SectionEntryCount)
		require.Len(t, parsed.Sections[0].Entries, 2)
	})
}
