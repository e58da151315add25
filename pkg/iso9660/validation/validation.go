package validation

import (
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/boot"
	"github.com/mlaforet/cdkit/pkg/iso9660/descriptor"
)

// CheckDescriptorSet inspects a parsed descriptor set for conformance
// problems the codecs accept, returning one error per finding. An empty
// slice means the set passed.
func CheckDescriptorSet(set *descriptor.VolumeDescriptorSet) []error {
	var findings []error

	if set.Primary == nil {
		findings = append(findings, fmt.Errorf("no primary volume descriptor"))
	} else {
		if set.Primary.LogicalBlockSize != consts.ISO9660_SECTOR_SIZE {
			findings = append(findings, fmt.Errorf("logical block size is %d, want %d", set.Primary.LogicalBlockSize, consts.ISO9660_SECTOR_SIZE))
		}
		if set.Primary.VolumeSpaceSize == 0 {
			findings = append(findings, fmt.Errorf("volume space size is zero"))
		}
		if set.Primary.VolumeSetSize == 0 {
			findings = append(findings, fmt.Errorf("volume set size is zero"))
		}
	}

	if set.Boot != nil {
		if set.Boot.BootCatalogAddr == 0 {
			findings = append(findings, fmt.Errorf("boot record catalog pointer is zero"))
		} else if set.Primary != nil && set.Primary.VolumeSpaceSize > 0 && set.Boot.BootCatalogAddr >= set.Primary.VolumeSpaceSize {
			findings = append(findings, fmt.Errorf("boot catalog sector %d lies outside the volume (%d sectors)", set.Boot.BootCatalogAddr, set.Primary.VolumeSpaceSize))
		}
	}

	if set.Terminator == nil {
		findings = append(findings, fmt.Errorf("descriptor sequence has no terminator"))
	}

	return findings
}

// CheckBootCatalogSector inspects the raw bytes of a boot catalog sector for
// the validation-entry invariants the codec deliberately does not enforce:
// the sixteen words of slot 0 must sum to zero and the slot must close with
// the 0x55 0xAA key bytes.
func CheckBootCatalogSector(data [consts.ISO9660_SECTOR_SIZE]byte) []error {
	var findings []error

	slot0 := [consts.EL_TORITO_ENTRY_SIZE]byte(data[0:consts.EL_TORITO_ENTRY_SIZE])
	if slot0[0] != consts.EL_TORITO_VALIDATION_HEADER_ID {
		findings = append(findings, fmt.Errorf("validation entry header id is 0x%02X, want 0x%02X", slot0[0], consts.EL_TORITO_VALIDATION_HEADER_ID))
	}
	if sum := boot.ValidationChecksum(slot0); sum != 0 {
		findings = append(findings, fmt.Errorf("validation entry words sum to 0x%04X, want zero", sum))
	}
	if slot0[30] != consts.EL_TORITO_KEY_BYTE_1 || slot0[31] != consts.EL_TORITO_KEY_BYTE_2 {
		findings = append(findings, fmt.Errorf("validation entry key bytes are 0x%02X 0x%02X, want 0x%02X 0x%02X", slot0[30], slot0[31], consts.EL_TORITO_KEY_BYTE_1, consts.EL_TORITO_KEY_BYTE_2))
	}

	return findings
}
