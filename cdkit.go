package cdkit

import (
	"errors"
	"fmt"
	"io"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
	"github.com/mlaforet/cdkit/pkg/iso9660/parser"
	"github.com/mlaforet/cdkit/pkg/logging"
	"github.com/mlaforet/cdkit/pkg/option"
	"github.com/spf13/afero"
)

// Open opens an existing ISO 9660 image file. By default the descriptor
// sequence is walked immediately and the boot catalog is decoded when an
// El Torito boot record is found.
func Open(location string, opts ...option.OpenOption) (*Image, error) {
	// Set default options
	options := option.OpenOptions{
		ParseOnOpen:     true,
		ElToritoEnabled: true,
		FileSystem:      afero.NewOsFs(),
		Logger:          logging.DefaultLogger(),
	}

	// Apply options
	for _, opt := range opts {
		opt(&options)
	}

	file, err := options.FileSystem.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img := &Image{
		file:    file,
		parser:  parser.NewParser(file, options.Logger),
		options: options,
		logger:  options.Logger,
	}

	if options.ParseOnOpen {
		if err := img.Parse(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return img, nil
}

// Image represents an opened ISO 9660 image.
type Image struct {
	// Descriptors is the decoded volume descriptor set, nil until parsed.
	Descriptors *descriptor.VolumeDescriptorSet
	// Catalog is the decoded El Torito boot catalog. It stays nil when the
	// image has no El Torito boot record or decoding it was disabled.
	Catalog *boot.Catalog

	file    afero.File
	parser  *parser.Parser
	options option.OpenOptions
	logger  *logging.Logger
	parsed  bool
}

// Parse walks the volume descriptor sequence and, when enabled, decodes the
// boot catalog.
func (i *Image) Parse() error {
	if i.file == nil {
		return errors.New("image file is not open")
	}

	set, err := i.parser.DescriptorSet()
	if err != nil {
		return fmt.Errorf("failed to parse volume descriptor set: %w", err)
	}
	i.Descriptors = set

	if set.HasElTorito() && i.options.ElToritoEnabled {
		catalog, err := i.parser.BootCatalog(set.Boot)
		if err != nil {
			return fmt.Errorf("failed to parse boot catalog: %w", err)
		}
		i.Catalog = catalog
	}

	i.logger.Debug("finished parsing image", "name", i.file.Name(),
		"descriptors", len(set.Locations), "elTorito", set.HasElTorito())
	i.parsed = true
	return nil
}

// Parsed returns whether the image has been parsed.
func (i *Image) Parsed() bool {
	return i.parsed
}

// HasElTorito returns whether the image carries an El Torito boot record.
func (i *Image) HasElTorito() bool {
	return i.Descriptors != nil && i.Descriptors.HasElTorito()
}

// BootCatalogSector returns the raw boot catalog sector, for checks that
// operate on the undecoded bytes.
func (i *Image) BootCatalogSector() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var sector [consts.ISO9660_SECTOR_SIZE]byte
	if !i.HasElTorito() {
		return sector, errors.New("image has no El Torito boot record")
	}

	offset := int64(i.Descriptors.Boot.BootCatalogAddr) * consts.ISO9660_SECTOR_SIZE
	if _, err := i.file.Seek(offset, io.SeekStart); err != nil {
		return sector, fmt.Errorf("failed to seek to boot catalog: %w", err)
	}
	return parser.ReadSector(i.file)
}

// Close closes the underlying image file.
func (i *Image) Close() error {
	return i.file.Close()
}

// String returns a string representation of the image.
func (i *Image) String() string {
	return fmt.Sprintf("ISO 9660 Image: %s", i.file.Name())
}

// Skeleton assembles the minimal bootable image skeleton: a primary
// descriptor header sector, an El Torito boot record sector and the boot
// catalog sector, in that order. The catalog carries a bootable initial
// entry and one final section group mirroring it.
func Skeleton(opts ...option.SkeletonOption) ([]byte, error) {
	options := option.SkeletonOptions{
		CatalogSector:    18,
		BootImageSector:  19,
		BootImageSectors: 4,
		Platform:         boot.X86,
		BootMedia:        boot.Floppy1_44,
	}
	for _, opt := range opts {
		opt(&options)
	}

	out := make([]byte, 3*consts.ISO9660_SECTOR_SIZE)

	// Sector 0: a primary descriptor header. Only the 7 header bytes are
	// recorded; the rest of the sector stays zero.
	header := descriptor.NewVolumeDescriptorHeader(descriptor.TYPE_PRIMARY_DESCRIPTOR)
	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primary descriptor header: %w", err)
	}
	copy(out[0:], headerBytes[:])

	// Sector 1: the boot record pointing at the catalog.
	bootRecord, err := descriptor.NewElTorito(options.CatalogSector).Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal boot record: %w", err)
	}
	copy(out[consts.ISO9660_SECTOR_SIZE:], bootRecord[:])

	// Sector 2: the boot catalog.
	entry := boot.SectionEntry{
		BootIndicator:   boot.Bootable,
		BootMedia:       options.BootMedia,
		SectorCount:     options.BootImageSectors,
		VirtualDiskAddr: options.BootImageSector,
	}
	catalog := &boot.Catalog{
		Validation: boot.NewValidationEntry(options.Platform, options.Manufacturer),
		Initial: &boot.InitialEntry{
			BootIndicator:   boot.Bootable,
			BootMedia:       options.BootMedia,
			SectorCount:     options.BootImageSectors,
			VirtualDiskAddr: options.BootImageSector,
		},
		Sections: []boot.Section{
			{
				Header: boot.SectionHeaderEntry{
					HeaderIndicator: boot.FinalHeader,
					PlatformID:      options.Platform,
				},
				Entries: []boot.SectionEntry{entry},
			},
		},
	}
	catalogBytes, err := catalog.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal boot catalog: %w", err)
	}
	copy(out[2*consts.ISO9660_SECTOR_SIZE:], catalogBytes[:])

	return out, nil
}
