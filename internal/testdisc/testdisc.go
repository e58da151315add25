package testdisc

import (
	"io"

	"github.com/mlaforet/cdkit/pkg/consts"
)

// Image is an in-memory disc image that tests grow sector by sector.
type Image struct {
	data []byte
}

func New() *Image {
	return &Image{}
}

// SetSector writes one 2048-byte sector at the given logical sector number,
// growing the image with zero fill as needed.
func (img *Image) SetSector(n int64, sector [consts.ISO9660_SECTOR_SIZE]byte) {
	end := (n + 1) * consts.ISO9660_SECTOR_SIZE
	if int64(len(img.data)) < end {
		grown := make([]byte, end)
		copy(grown, img.data)
		img.data = grown
	}
	copy(img.data[n*consts.ISO9660_SECTOR_SIZE:end], sector[:])
}

// FillSector writes one sector filled with the given byte. Useful for
// planting garbage past the set terminator.
func (img *Image) FillSector(n int64, b byte) {
	var sector [consts.ISO9660_SECTOR_SIZE]byte
	for i := range sector {
		sector[i] = b
	}
	img.SetSector(n, sector)
}

// Bytes returns the raw image.
func (img *Image) Bytes() []byte {
	return img.data
}

// CountingReaderAt wraps an io.ReaderAt and records every read offset, so a
// test can prove which sectors a walk touched.
type CountingReaderAt struct {
	R       io.ReaderAt
	Reads   int
	Offsets []int64
}

func (c *CountingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	c.Reads++
	c.Offsets = append(c.Offsets, off)
	return c.R.ReadAt(p, off)
}

// MaxOffset returns the highest offset read so far, or -1 before any read.
func (c *CountingReaderAt) MaxOffset() int64 {
	max := int64(-1)
	for _, off := range c.Offsets {
		if off > max {
			max = off
		}
	}
	return max
}
