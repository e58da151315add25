package boot

import (
	"fmt"
)

// Platform identifies the target booting system of a catalog entry.
type Platform byte

const (
	X86  Platform = 0x00 // Classic PC-BIOS x86
	PPC  Platform = 0x01 // PowerPC
	Mac  Platform = 0x02 // Macintosh systems
	UEFI Platform = 0xEF // Unified Extensible Firmware Interface
)

func (p Platform) String() string {
	switch p {
	case X86:
		return "x86"
	case PPC:
		return "PowerPC"
	case Mac:
		return "Macintosh"
	case UEFI:
		return "UEFI"
	default:
		return fmt.Sprintf("Unknown Platform (0x%02X)", byte(p))
	}
}

// ParsePlatform maps a platform tag byte onto the closed set of assigned
// platforms.
func ParsePlatform(b byte) (Platform, error) {
	switch p := Platform(b); p {
	case X86, PPC, Mac, UEFI:
		return p, nil
	default:
		return 0, &UnknownPlatformIDError{ID: b}
	}
}

// BootIndicator marks a catalog entry as bootable or not.
type BootIndicator byte

const (
	NotBootable BootIndicator = 0x00
	Bootable    BootIndicator = 0x88
)

func (i BootIndicator) String() string {
	switch i {
	case Bootable:
		return "Bootable"
	case NotBootable:
		return "Not Bootable"
	default:
		return fmt.Sprintf("Unknown Boot Indicator (0x%02X)", byte(i))
	}
}

// ParseBootIndicator maps an indicator byte onto the closed set of assigned
// indicators.
func ParseBootIndicator(b byte) (BootIndicator, error) {
	switch i := BootIndicator(b); i {
	case Bootable, NotBootable:
		return i, nil
	default:
		return 0, &UnknownBootIndicatorError{Indicator: b}
	}
}

// BootMedia selects the emulation mode used when booting an entry's image.
type BootMedia byte

const (
	NoEmulation BootMedia = 0x00
	Floppy1_2   BootMedia = 0x01 // Emulate a 1.2 MB floppy
	Floppy1_44  BootMedia = 0x02 // Emulate a 1.44 MB floppy
	Floppy2_88  BootMedia = 0x03 // Emulate a 2.88 MB floppy
	HardDisk    BootMedia = 0x04
)

func (m BootMedia) String() string {
	switch m {
	case NoEmulation:
		return "No Emulation"
	case Floppy1_2:
		return "1.2MB Floppy"
	case Floppy1_44:
		return "1.44MB Floppy"
	case Floppy2_88:
		return "2.88MB Floppy"
	case HardDisk:
		return "Hard Disk"
	default:
		return fmt.Sprintf("Unknown Boot Media (0x%02X)", byte(m))
	}
}

// ParseBootMedia maps a media tag byte onto the closed set of assigned
// emulation modes.
func ParseBootMedia(b byte) (BootMedia, error) {
	switch m := BootMedia(b); m {
	case NoEmulation, Floppy1_2, Floppy1_44, Floppy2_88, HardDisk:
		return m, nil
	default:
		return 0, &UnknownBootMediaError{Media: b}
	}
}

// HeaderIndicator distinguishes a section header that has more headers after
// it from the final one.
type HeaderIndicator byte

const (
	PartialHeader HeaderIndicator = 0x90
	FinalHeader   HeaderIndicator = 0x91
)

func (h HeaderIndicator) String() string {
	switch h {
	case PartialHeader:
		return "Partial Section Header"
	case FinalHeader:
		return "Final Section Header"
	default:
		return fmt.Sprintf("Unknown Header Indicator (0x%02X)", byte(h))
	}
}

// ParseHeaderIndicator maps a header tag byte onto the closed set of assigned
// section header indicators.
func ParseHeaderIndicator(b byte) (HeaderIndicator, error) {
	switch h := HeaderIndicator(b); h {
	case PartialHeader, FinalHeader:
		return h, nil
	default:
		return 0, &UnknownHeaderIndicatorError{Indicator: b}
	}
}

// SelectionCriteriaType tags the vendor-specific criteria bytes of a section
// entry. Unassigned values are carried through as-is rather than rejected;
// String reports them as unknown.
type SelectionCriteriaType byte

const (
	NoSelectionCriteria SelectionCriteriaType = 0x00
	LanguageAndVersion  SelectionCriteriaType = 0x01 // IBM language and version information
)

func (s SelectionCriteriaType) String() string {
	switch s {
	case NoSelectionCriteria:
		return "None"
	case LanguageAndVersion:
		return "Language and Version Information"
	default:
		return fmt.Sprintf("Unknown Selection Criteria (0x%02X)", byte(s))
	}
}

// UnknownPlatformIDError reports a platform tag byte outside the assigned set.
type UnknownPlatformIDError struct {
	ID byte
}

func (e *UnknownPlatformIDError) Error() string {
	return fmt.Sprintf("unknown platform id 0x%02X", e.ID)
}

// UnknownBootIndicatorError reports a boot indicator byte that is neither
// bootable nor not-bootable.
type UnknownBootIndicatorError struct {
	Indicator byte
}

func (e *UnknownBootIndicatorError) Error() string {
	return fmt.Sprintf("unknown boot indicator 0x%02X", e.Indicator)
}

// UnknownBootMediaError reports a media tag byte outside the assigned
// emulation modes.
type UnknownBootMediaError struct {
	Media byte
}

func (e *UnknownBootMediaError) Error() string {
	return fmt.Sprintf("unknown boot media 0x%02X", e.Media)
}

// UnknownHeaderIndicatorError reports a catalog slot whose first byte is not
// an assigned header or entry tag.
type UnknownHeaderIndicatorError struct {
	Indicator byte
}

func (e *UnknownHeaderIndicatorError) Error() string {
	return fmt.Sprintf("unknown header indicator 0x%02X", e.Indicator)
}
