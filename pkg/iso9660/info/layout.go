package info

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
)

type DescriptorInfo struct {
	DescriptorType    string `json:"descriptor_type"`
	DescriptorVersion int    `json:"descriptor_version"`
	DescriptorOffset  int64  `json:"descriptor_offset"`
	DescriptorLength  int    `json:"descriptor_length"`
}

type BootEntryInfo struct {
	Platform    string `json:"platform"`
	Media       string `json:"media"`
	Bootable    bool   `json:"bootable"`
	Section     string `json:"section,omitempty"`
	ImageOffset int64  `json:"image_offset"`
	ImageLength int    `json:"image_length"`
}

type ImageLayout struct {
	SystemAreaOffset  int64             `json:"system_area_offset"`
	SystemAreaLength  int               `json:"system_area_length"`
	BootCatalogSystem string            `json:"boot_catalog_system,omitempty"`
	BootCatalogOffset int64             `json:"boot_catalog_offset,omitempty"`
	BootCatalogLength int               `json:"boot_catalog_length,omitempty"`
	VolumeDescriptors []*DescriptorInfo `json:"volume_descriptors"`
	BootEntries       []*BootEntryInfo  `json:"boot_entries,omitempty"`
}

func NewImageLayout() *ImageLayout {
	return &ImageLayout{
		SystemAreaOffset:  0,
		SystemAreaLength:  consts.ISO9660_DATA_AREA_START,
		VolumeDescriptors: make([]*DescriptorInfo, 0),
	}
}

// BuildImageLayout assembles the layout table for one image from its parsed
// descriptor set and, when present, its boot catalog.
func BuildImageLayout(set *descriptor.VolumeDescriptorSet, catalog *boot.Catalog) *ImageLayout {
	layout := NewImageLayout()

	for _, loc := range set.Locations {
		layout.AddVolumeDescriptor(loc.Type.String(), consts.ISO9660_VOLUME_DESC_VERSION, loc.Sector*consts.ISO9660_SECTOR_SIZE, consts.ISO9660_SECTOR_SIZE)
	}

	if set.Boot != nil {
		layout.BootCatalogSystem = set.Boot.BootSystemIdentifier
		layout.BootCatalogOffset = int64(set.Boot.BootCatalogAddr) * consts.ISO9660_SECTOR_SIZE
		layout.BootCatalogLength = consts.ISO9660_SECTOR_SIZE
	}

	if catalog != nil {
		if catalog.Validation != nil && catalog.Initial != nil {
			layout.AddBootEntry(catalog.Validation.PlatformID, catalog.Initial.BootMedia,
				catalog.Initial.BootIndicator == boot.Bootable, "",
				catalog.Initial.VirtualDiskAddr, catalog.Initial.SectorCount)
		}
		for _, section := range catalog.Sections {
			for i := range section.Entries {
				entry := &section.Entries[i]
				layout.AddBootEntry(section.Header.PlatformID, entry.BootMedia,
					entry.BootIndicator == boot.Bootable, section.Header.Identifier,
					entry.VirtualDiskAddr, entry.SectorCount)
			}
		}
	}

	return layout
}

// AddVolumeDescriptor appends a descriptor and keeps the list sorted by offset.
func (l *ImageLayout) AddVolumeDescriptor(descriptorType string, descriptorVersion int, descriptorOffset int64, descriptorLength int) {
	l.VolumeDescriptors = append(l.VolumeDescriptors, &DescriptorInfo{
		DescriptorType:    descriptorType,
		DescriptorVersion: descriptorVersion,
		DescriptorOffset:  descriptorOffset,
		DescriptorLength:  descriptorLength,
	})

	slices.SortFunc(l.VolumeDescriptors, func(a, b *DescriptorInfo) int {
		return int(a.DescriptorOffset - b.DescriptorOffset)
	})
}

// AddBootEntry appends a boot image entry and keeps the list sorted by the
// image offset. Sector counts are 512-byte virtual-disk sectors.
func (l *ImageLayout) AddBootEntry(platform boot.Platform, media boot.BootMedia, bootable bool, section string, virtualDiskAddr uint32, sectorCount uint16) {
	l.BootEntries = append(l.BootEntries, &BootEntryInfo{
		Platform:    platform.String(),
		Media:       media.String(),
		Bootable:    bootable,
		Section:     section,
		ImageOffset: int64(virtualDiskAddr) * consts.ISO9660_SECTOR_SIZE,
		ImageLength: int(sectorCount) * 512,
	})

	slices.SortFunc(l.BootEntries, func(a, b *BootEntryInfo) int {
		return int(a.ImageOffset - b.ImageOffset)
	})
}

// PrettyJSON returns a pretty-printed JSON representation of the layout.
func (l *ImageLayout) PrettyJSON() string {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON: %v", err)
	}
	return string(data)
}

// Print writes the layout details to w in image order.
// - `useColor` controls whether colored output is used.
// - `useHexOffset` prints offsets in hexadecimal if true.
func (l *ImageLayout) Print(w io.Writer, useColor bool, useHexOffset bool) {
	type layoutItem struct {
		Offset   int64
		Length   int
		Detail   string
		Category string
	}

	var items []layoutItem

	// Define color functions (default to no color if useColor is false)
	colorMap := map[string]func(a ...interface{}) string{
		"System Area":       color.New(color.FgBlue, color.Bold).SprintFunc(),
		"Volume Descriptor": color.New(color.FgYellow, color.Bold).SprintFunc(),
		"Boot Catalog":      color.New(color.FgMagenta, color.Bold).SprintFunc(),
		"Boot Image":        color.New(color.FgGreen, color.Bold).SprintFunc(),
	}

	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	offsetColor := color.New(color.FgGreen).SprintFunc()
	lengthColor := color.New(color.FgGreen).SprintFunc()

	if !useColor {
		plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
		for key := range colorMap {
			colorMap[key] = plain
		}
		headerColor = plain
		offsetColor = plain
		lengthColor = plain
	}

	// System Area
	items = append(items, layoutItem{
		Offset:   l.SystemAreaOffset,
		Length:   l.SystemAreaLength,
		Detail:   "System Area",
		Category: "System Area",
	})

	// Boot Catalog (if present)
	if l.BootCatalogOffset > 0 {
		items = append(items, layoutItem{
			Offset:   l.BootCatalogOffset,
			Length:   l.BootCatalogLength,
			Detail:   fmt.Sprintf("Boot Catalog - System: %s", l.BootCatalogSystem),
			Category: "Boot Catalog",
		})
	}

	// Volume Descriptor Set
	for _, vd := range l.VolumeDescriptors {
		items = append(items, layoutItem{
			Offset:   vd.DescriptorOffset,
			Length:   vd.DescriptorLength,
			Detail:   fmt.Sprintf("%s (Version: %d)", vd.DescriptorType, vd.DescriptorVersion),
			Category: "Volume Descriptor",
		})
	}

	// Boot Images
	for _, be := range l.BootEntries {
		detail := fmt.Sprintf("%s %s Image", be.Platform, be.Media)
		if be.Section != "" {
			detail += fmt.Sprintf(" (Section: %s)", be.Section)
		}
		if !be.Bootable {
			detail += " (Not Bootable)"
		}
		items = append(items, layoutItem{
			Offset:   be.ImageOffset,
			Length:   be.ImageLength,
			Detail:   detail,
			Category: "Boot Image",
		})
	}

	// Sort all items by Offset
	slices.SortFunc(items, func(a, b layoutItem) int {
		return int(a.Offset - b.Offset)
	})

	fmt.Fprintln(w, headerColor("\n=== Image Layout ==="))

	// Fixed width settings
	offsetWidth := 14   // Width for [Offset: x]
	categoryWidth := 18 // Width for category names
	lengthWidth := 12   // Width for [Length: x bytes]

	if useHexOffset {
		offsetWidth = 18 // Width for [Offset: 0x...]
	}

	for _, item := range items {
		offsetStr := fmt.Sprintf("Offset: %*d", offsetWidth-8, item.Offset)
		if useHexOffset {
			offsetStr = fmt.Sprintf("Offset: %#*x", offsetWidth-8, item.Offset)
		}

		fmt.Fprintf(w, "[%s] [%s] [%s] %s\n",
			offsetColor(offsetStr),
			colorMap[item.Category](fmt.Sprintf("%-*s", categoryWidth, item.Category)),
			lengthColor(fmt.Sprintf("%*s", lengthWidth, formatSize(item.Length))),
			item.Detail,
		)
	}

	fmt.Fprintln(w, headerColor("===================="))
}

// formatSize converts a size in bytes to a human-readable format.
func formatSize(size int) string {
	const (
		MB = 1024 * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%8.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%8.2f MB", float64(size)/float64(MB))
	default:
		return fmt.Sprintf("%8d B ", size) // Ensures 'B' aligns with MB/GB
	}
}
