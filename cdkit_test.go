package cdkit

import (
	"testing"

	"github.com/mlaforet/cdkit/internal/testdisc"
	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
	"github.com/mlaforet/cdkit/pkg/option"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// writeBootableImage puts a parseable image at the given path: PVD at 16,
// boot record at 17, terminator at 18, catalog at 19.
func writeBootableImage(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	pvd := &descriptor.PrimaryVolumeDescriptor{
		VolumeDescriptorHeader: descriptor.NewVolumeDescriptorHeader(descriptor.TYPE_PRIMARY_DESCRIPTOR),
		SystemIdentifier:       "LINUX",
		VolumeIdentifier:       "CDKIT_TEST",
		VolumeSpaceSize:        100,
		VolumeSetSize:          1,
		VolumeSequenceNumber:   1,
		LogicalBlockSize:       2048,
		FileStructureVersion:   1,
	}
	pvdSector, err := pvd.Marshal()
	require.NoError(t, err)

	bootSector, err := descriptor.NewElTorito(19).Marshal()
	require.NoError(t, err)

	termSector, err := descriptor.NewTerminator().Marshal()
	require.NoError(t, err)

	catalog := &boot.Catalog{
		Validation: boot.NewValidationEntry(boot.X86, "ACME"),
		Initial: &boot.InitialEntry{
			BootIndicator:   boot.Bootable,
			BootMedia:       boot.Floppy1_44,
			SectorCount:     4,
			VirtualDiskAddr: 20,
		},
	}
	catalogSector, err := catalog.Marshal()
	require.NoError(t, err)

	img := testdisc.New()
	img.SetSector(16, pvdSector)
	img.SetSector(17, bootSector)
	img.SetSector(18, termSector)
	img.SetSector(19, catalogSector)

	require.NoError(t, afero.WriteFile(fs, path, img.Bytes(), 0644))
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeBootableImage(t, fs, "disc.iso")

	img, err := Open("disc.iso", option.WithFileSystem(fs))
	require.NoError(t, err)
	defer img.Close()

	require.True(t, img.Parsed())
	require.NotNil(t, img.Descriptors)
	require.Equal(t, "CDKIT_TEST", img.Descriptors.Primary.VolumeIdentifier)
	require.True(t, img.HasElTorito())

	require.NotNil(t, img.Catalog)
	require.Equal(t, "ACME", img.Catalog.Validation.ManufacturerID)
	require.Equal(t, boot.Floppy1_44, img.Catalog.Initial.BootMedia)
}

func TestOpen_ParseOnOpenDisabled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeBootableImage(t, fs, "disc.iso")

	img, err := Open("disc.iso", option.WithFileSystem(fs), option.WithParseOnOpen(false))
	require.NoError(t, err)
	defer img.Close()

	require.False(t, img.Parsed())
	require.Nil(t, img.Descriptors)

	require.NoError(t, img.Parse())
	require.True(t, img.Parsed())
	require.NotNil(t, img.Descriptors.Primary)
}

func TestOpen_ElToritoDisabled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeBootableImage(t, fs, "disc.iso")

	img, err := Open("disc.iso", option.WithFileSystem(fs), option.WithElToritoEnabled(false))
	require.NoError(t, err)
	defer img.Close()

	// The boot record is still decoded; only the catalog is skipped.
	require.True(t, img.HasElTorito())
	require.Nil(t, img.Catalog)
}

func TestOpen_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Open("nope.iso", option.WithFileSystem(fs))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open image")
}

func TestOpen_BadDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	img := testdisc.New()
	img.FillSector(16, 0x42)
	require.NoError(t, afero.WriteFile(fs, "bad.iso", img.Bytes(), 0644))

	_, err := Open("bad.iso", option.WithFileSystem(fs))
	require.Error(t, err)

	var typeErr *descriptor.UnknownTypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestImage_BootCatalogSector(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeBootableImage(t, fs, "disc.iso")

	img, err := Open("disc.iso", option.WithFileSystem(fs))
	require.NoError(t, err)
	defer img.Close()

	sector, err := img.BootCatalogSector()
	require.NoError(t, err)

	// Raw bytes match what the decoded catalog marshals back to.
	expected, err := img.Catalog.Marshal()
	require.NoError(t, err)
	require.Equal(t, expected, sector)
}

func TestImage_BootCatalogSector_NoBootRecord(t *testing.T) {
	fs := afero.NewMemMapFs()

	pvd := &descriptor.PrimaryVolumeDescriptor{
		VolumeDescriptorHeader: descriptor.NewVolumeDescriptorHeader(descriptor.TYPE_PRIMARY_DESCRIPTOR),
		VolumeIdentifier:       "PLAIN",
		VolumeSpaceSize:        20,
		VolumeSetSize:          1,
		VolumeSequenceNumber:   1,
		LogicalBlockSize:       2048,
		FileStructureVersion:   1,
	}
	pvdSector, err := pvd.Marshal()
	require.NoError(t, err)
	termSector, err := descriptor.NewTerminator().Marshal()
	require.NoError(t, err)

	img := testdisc.New()
	img.SetSector(16, pvdSector)
	img.SetSector(17, termSector)
	require.NoError(t, afero.WriteFile(fs, "plain.iso", img.Bytes(), 0644))

	opened, err := Open("plain.iso", option.WithFileSystem(fs))
	require.NoError(t, err)
	defer opened.Close()

	require.False(t, opened.HasElTorito())
	_, err = opened.BootCatalogSector()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no El Torito boot record")
}

func TestSkeleton(t *testing.T) {
	out, err := Skeleton()
	require.NoError(t, err)
	require.Len(t, out, 3*consts.ISO9660_SECTOR_SIZE)

	t.Run("primary descriptor header sector", func(t *testing.T) {
		var header descriptor.VolumeDescriptorHeader
		require.NoError(t, header.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(out[0:7])))
		require.Equal(t, descriptor.TYPE_PRIMARY_DESCRIPTOR, header.VolumeDescriptorType)

		// Nothing past the header is recorded.
		for i := 7; i < consts.ISO9660_SECTOR_SIZE; i++ {
			require.Zero(t, out[i], "byte %d", i)
		}
	})

	t.Run("boot record sector", func(t *testing.T) {
		var bootRecord descriptor.BootRecordDescriptor
		require.NoError(t, bootRecord.Unmarshal([consts.ISO9660_SECTOR_SIZE]byte(out[consts.ISO9660_SECTOR_SIZE:2*consts.ISO9660_SECTOR_SIZE])))
		require.True(t, bootRecord.IsElTorito())
		require.Equal(t, uint32(18), bootRecord.BootCatalogAddr)
	})

	t.Run("boot catalog sector", func(t *testing.T) {
		var catalog boot.Catalog
		require.NoError(t, catalog.Unmarshal([consts.ISO9660_SECTOR_SIZE]byte(out[2*consts.ISO9660_SECTOR_SIZE:])))

		require.Equal(t, boot.X86, catalog.Validation.PlatformID)
		require.Empty(t, catalog.Validation.ManufacturerID)

		require.Equal(t, boot.Bootable, catalog.Initial.BootIndicator)
		require.Equal(t, boot.Floppy1_44, catalog.Initial.BootMedia)
		require.Equal(t, uint16(4), catalog.Initial.SectorCount)
		require.Equal(t, uint32(19), catalog.Initial.VirtualDiskAddr)

		require.Len(t, catalog.Sections, 1)
		section := catalog.Sections[0]
		require.Equal(t, boot.FinalHeader, section.Header.HeaderIndicator)
		require.Equal(t, boot.X86, section.Header.PlatformID)
		require.Len(t, section.Entries, 1)
		require.Equal(t, catalog.Initial.VirtualDiskAddr, section.Entries[0].VirtualDiskAddr)
	})

	t.Run("catalog slot bytes", func(t *testing.T) {
		base := 2 * consts.ISO9660_SECTOR_SIZE
		require.Equal(t, byte(0x01), out[base])      // validation header id
		require.Equal(t, byte(0x55), out[base+30])   // key byte 1
		require.Equal(t, byte(0xAA), out[base+31])   // key byte 2
		require.Equal(t, byte(0x88), out[base+32])   // initial entry, bootable
		require.Equal(t, byte(0x91), out[base+64])   // final section header
		require.Equal(t, byte(0x88), out[base+96])   // section entry, bootable
		require.Equal(t, byte(0x00), out[base+4*32]) // end of catalog
	})
}

func TestSkeleton_Options(t *testing.T) {
	out, err := Skeleton(
		option.WithCatalogSector(30),
		option.WithBootImage(31, 8),
		option.WithPlatform(boot.UEFI),
		option.WithBootMedia(boot.NoEmulation),
		option.WithManufacturer("ACME"),
	)
	require.NoError(t, err)

	var bootRecord descriptor.BootRecordDescriptor
	require.NoError(t, bootRecord.Unmarshal([consts.ISO9660_SECTOR_SIZE]byte(out[consts.ISO9660_SECTOR_SIZE:2*consts.ISO9660_SECTOR_SIZE])))
	require.Equal(t, uint32(30), bootRecord.BootCatalogAddr)

	var catalog boot.Catalog
	require.NoError(t, catalog.Unmarshal([consts.ISO9660_SECTOR_SIZE]byte(out[2*consts.ISO9660_SECTOR_SIZE:])))
	require.Equal(t, boot.UEFI, catalog.Validation.PlatformID)
	require.Equal(t, "ACME", catalog.Validation.ManufacturerID)
	require.Equal(t, boot.NoEmulation, catalog.Initial.BootMedia)
	require.Equal(t, uint16(8), catalog.Initial.SectorCount)
	require.Equal(t, uint32(31), catalog.Initial.VirtualDiskAddr)
	require.Equal(t, boot.UEFI, catalog.Sections[0].Header.PlatformID)
}
