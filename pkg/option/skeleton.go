package option

import (
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
)

// SkeletonOptions shape the minimal bootable skeleton: which sector the boot
// record points the catalog at, and where the boot image the catalog entries
// describe will live.
type SkeletonOptions struct {
	CatalogSector    uint32
	BootImageSector  uint32
	BootImageSectors uint16
	Platform         boot.Platform
	BootMedia        boot.BootMedia
	Manufacturer     string
}

type SkeletonOption func(*SkeletonOptions)

// WithCatalogSector sets the absolute sector the boot record advertises for
// the boot catalog.
func WithCatalogSector(sector uint32) SkeletonOption {
	return func(o *SkeletonOptions) {
		o.CatalogSector = sector
	}
}

// WithBootImage sets the absolute sector of the boot image and its length in
// 512-byte virtual-disk sectors.
func WithBootImage(sector uint32, sectors uint16) SkeletonOption {
	return func(o *SkeletonOptions) {
		o.BootImageSector = sector
		o.BootImageSectors = sectors
	}
}

func WithPlatform(platform boot.Platform) SkeletonOption {
	return func(o *SkeletonOptions) {
		o.Platform = platform
	}
}

func WithBootMedia(media boot.BootMedia) SkeletonOption {
	return func(o *SkeletonOptions) {
		o.BootMedia = media
	}
}

func WithManufacturer(manufacturer string) SkeletonOption {
	return func(o *SkeletonOptions) {
		o.Manufacturer = manufacturer
	}
}
