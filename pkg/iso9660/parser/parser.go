package parser

import (
	"fmt"
	"io"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
	"github.com/mlaforet/cdkit/pkg/logging"
)

// NewParser returns a Parser that reads image sectors through reader. A nil
// logger is replaced with the discarding default.
func NewParser(reader io.ReaderAt, logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Parser{
		reader: reader,
		logger: logger,
	}
}

type Parser struct {
	reader io.ReaderAt
	logger *logging.Logger
}

// ReadSector reads exactly one 2048-byte sector from r. A short read reports
// io.ErrUnexpectedEOF; a stream with no bytes left reports io.EOF.
func ReadSector(r io.Reader) ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return buf, err
	}
	return buf, nil
}

// readSectorAt reads the full sector with the given absolute sector number.
func (p *Parser) readSectorAt(sector int64) ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte
	if _, err := p.reader.ReadAt(buf[:], sector*consts.ISO9660_SECTOR_SIZE); err != nil {
		return buf, fmt.Errorf("failed to read sector %d: %w", sector, err)
	}
	return buf, nil
}

// DescriptorSet walks the volume descriptor sequence and returns the decoded
// set. The walk starts at logical sector 16, advances exactly one sector per
// iteration and stops at the set terminator; nothing is read past it. Only
// the first primary descriptor and the first boot record are decoded; repeats
// and the undecoded descriptor kinds are tallied. The first failure aborts
// the walk.
func (p *Parser) DescriptorSet() (*descriptor.VolumeDescriptorSet, error) {
	set := &descriptor.VolumeDescriptorSet{}

	for sector := int64(consts.ISO9660_SYSTEM_AREA_SECTORS); ; sector++ {
		buf, err := p.readSectorAt(sector)
		if err != nil {
			return nil, err
		}

		var header descriptor.VolumeDescriptorHeader
		if err := header.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(buf[0:7])); err != nil {
			return nil, fmt.Errorf("failed to unmarshal descriptor header at sector %d: %w", sector, err)
		}

		set.Locations = append(set.Locations, descriptor.DescriptorLocation{
			Type:   header.VolumeDescriptorType,
			Sector: sector,
		})
		p.logger.Trace("found volume descriptor", "sector", sector, "type", header.VolumeDescriptorType.String())

		switch header.VolumeDescriptorType {
		case descriptor.TYPE_BOOT_RECORD:
			br := &descriptor.BootRecordDescriptor{}
			if err := br.Unmarshal(buf); err != nil {
				return nil, fmt.Errorf("failed to unmarshal boot record at sector %d: %w", sector, err)
			}
			if set.Boot == nil {
				set.Boot = br
				p.logger.Debug("parsed boot record", "sector", sector, "system", br.BootSystemIdentifier)
			} else {
				p.logger.Debug("ignoring extra boot record", "sector", sector)
			}
		case descriptor.TYPE_PRIMARY_DESCRIPTOR:
			pvd := &descriptor.PrimaryVolumeDescriptor{}
			if err := pvd.Unmarshal(buf); err != nil {
				return nil, fmt.Errorf("failed to unmarshal primary volume descriptor at sector %d: %w", sector, err)
			}
			if set.Primary == nil {
				set.Primary = pvd
				p.logger.Debug("parsed primary volume descriptor", "sector", sector, "volume", pvd.VolumeIdentifier)
			} else {
				p.logger.Debug("ignoring extra primary volume descriptor", "sector", sector)
			}
		case descriptor.TYPE_SUPPLEMENTARY_DESCRIPTOR:
			set.SupplementaryCount++
			p.logger.Debug("skipping supplementary volume descriptor", "sector", sector)
		case descriptor.TYPE_PARTITION_DESCRIPTOR:
			set.PartitionCount++
			p.logger.Debug("skipping volume partition descriptor", "sector", sector)
		case descriptor.TYPE_TERMINATOR_DESCRIPTOR:
			term := &descriptor.VolumeDescriptorSetTerminator{}
			if err := term.Unmarshal(buf); err != nil {
				return nil, fmt.Errorf("failed to unmarshal set terminator at sector %d: %w", sector, err)
			}
			set.Terminator = term
			p.logger.Debug("descriptor sequence terminated", "sector", sector)
			return set, nil
		}
	}
}

// BootCatalog reads the boot catalog sector the boot record points at and
// decodes it.
func (p *Parser) BootCatalog(bootRecord *descriptor.BootRecordDescriptor) (*boot.Catalog, error) {
	buf, err := p.readSectorAt(int64(bootRecord.BootCatalogAddr))
	if err != nil {
		return nil, err
	}

	catalog := &boot.Catalog{Logger: p.logger}
	if err := catalog.Unmarshal(buf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boot catalog at sector %d: %w", bootRecord.BootCatalogAddr, err)
	}
	return catalog, nil
}
