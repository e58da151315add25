package consts

const (
	// Number of system area sectors.
	ISO9660_SYSTEM_AREA_SECTORS = 16

	// Standard ISO9660 identifier.
	ISO9660_STD_IDENTIFIER = "CD001"

	// ISO9660 volume descriptor version (always 1).
	ISO9660_VOLUME_DESC_VERSION = 1

	// ISO9660 default sector size.
	ISO9660_SECTOR_SIZE = 2048

	// ISO9660 volume descriptor header size
	ISO9660_VOLUME_DESC_HEADER_SIZE = 7

	// Byte offset of the first volume descriptor sector.
	ISO9660_DATA_AREA_START = ISO9660_SYSTEM_AREA_SECTORS * ISO9660_SECTOR_SIZE

	// ISO9660 application use area size
	ISO9660_APPLICATION_USE_SIZE = 512

	// ISO9660 decimal date/time field size (16 digits + timezone byte).
	ISO9660_DEC_DATETIME_SIZE = 17

	// El Torito bootable cdrom system identifier.
	EL_TORITO_BOOT_SYSTEM_ID = "EL TORITO SPECIFICATION"

	// El Torito boot catalog entries are fixed 32-byte records.
	EL_TORITO_ENTRY_SIZE = 32

	// El Torito validation entry header id.
	EL_TORITO_VALIDATION_HEADER_ID = 1

	// El Torito validation entry key bytes (offsets 0x1E and 0x1F).
	EL_TORITO_KEY_BYTE_1 = 0x55
	EL_TORITO_KEY_BYTE_2 = 0xAA

	// a-characters: letters of either case, digits, underscore, space and the
	// punctuation marks ! " % & ' ( ) * + , - . / : ; < = > ?
	A_CHARACTERS = " !\"%&'()*+,-./0123456789:;<=>?ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

	// d-characters: letters of either case, digits and underscore.
	D_CHARACTERS = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

	// ISO9660 Filler 0x20 (space)
	ISO9660_FILLER = ' '

	// Marker byte prefixing publisher/preparer/application identifiers that
	// refer to a file in the root directory.
	ISO9660_ID_FILE_MARKER = '_'
)
