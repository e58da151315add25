package descriptor

import (
	"encoding/binary"
	"fmt"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/mlaforet/cdkit/pkg/iso9660/encoding"
)

type PrimaryVolumeDescriptor struct {
	VolumeDescriptorHeader
	// System Identifier specifies a system which can recognize and act upon
	// the content of the system area (logical sectors 0 to 15).
	//  | (a-characters)
	SystemIdentifier string `json:"system_identifier"`
	// Volume Identifier specifies an identification of the volume.
	//  | (d-characters)
	VolumeIdentifier string `json:"volume_identifier"`
	// Volume Space Size specifies the number of logical blocks in which the
	// Volume Space of the volume is recorded, as a 32-bit number.
	//  | Encoding: BothByteOrder
	VolumeSpaceSize uint32 `json:"volume_space_size"`
	// Volume Set Size specifies the assigned Volume Set size of the volume
	// as a 16-bit number.
	//  | Encoding: BothByteOrder
	VolumeSetSize uint16 `json:"volume_set_size"`
	// Volume Sequence Number is the ordinal number of the volume in the
	// Volume Set.
	//  | Encoding: BothByteOrder
	VolumeSequenceNumber uint16 `json:"volume_sequence_number"`
	// Logical Block Size specifies the size in bytes of a logical block.
	//  | Encoding: BothByteOrder
	LogicalBlockSize uint16 `json:"logical_block_size"`
	// Path Table Size specifies the length in bytes of a recorded occurrence
	// of the Path Table identified by this Volume Descriptor.
	//  | Encoding: BothByteOrder
	PathTableSize uint32 `json:"path_table_size"`
	// Logical Block Number of the first block of the Type L Path Table.
	//  | Encoding: LittleEndian
	LocationOfTypeLPathTable uint32 `json:"location_of_type_l_path_table"`
	// Logical Block Number of the first block of the optional Type L Path
	// Table. Zero means no such table is recorded.
	//  | Encoding: LittleEndian
	LocationOfOptionalTypeLPathTable uint32 `json:"location_of_optional_type_l_path_table"`
	// Logical Block Number of the first block of the Type M Path Table.
	//  | Encoding: BigEndian
	LocationOfTypeMPathTable uint32 `json:"location_of_type_m_path_table"`
	// Logical Block Number of the first block of the optional Type M Path
	// Table. Zero means no such table is recorded.
	//  | Encoding: BigEndian
	LocationOfOptionalTypeMPathTable uint32 `json:"location_of_optional_type_m_path_table"`
	// Volume Set Identifier identifies the Volume Set of which the volume is
	// a member.
	//  | (d-characters)
	VolumeSetIdentifier string `json:"volume_set_identifier"`
	// Publisher Identifier names the user who specified what is recorded on
	// the volume. The field is present only when its first byte is the file
	// marker (5F); an all-filler field means no identifier, decoded as nil.
	//  | (a-characters)
	PublisherIdentifier *string `json:"publisher_identifier"`
	// Data Preparer Identifier names the entity which controlled the
	// preparation of the recorded data. Marker-gated like the publisher.
	//  | (a-characters)
	DataPreparerIdentifier *string `json:"data_preparer_identifier"`
	// Application Identifier names the specification of how the data are
	// recorded. Marker-gated like the publisher.
	//  | (a-characters)
	ApplicationIdentifier *string `json:"application_identifier"`
	// Copyright File Identifier names a file in the root directory holding a
	// copyright statement. All filler means no such file.
	//  | (d-characters)
	CopyrightFileIdentifier string `json:"copyright_file_identifier"`
	// Abstract File Identifier names a file in the root directory holding an
	// abstract statement. All filler means no such file.
	//  | (d-characters)
	AbstractFileIdentifier string `json:"abstract_file_identifier"`
	// Bibliographic File Identifier names a file in the root directory
	// holding bibliographic records. All filler means no such file.
	//  | (d-characters)
	BibliographicFileIdentifier string `json:"bibliographic_file_identifier"`
	// Volume Creation Date and Time. Nil when unset.
	//  | 8.4.26.1 Date and Time Format
	VolumeCreationDateAndTime *encoding.DecDateTime `json:"volume_creation_date_and_time"`
	// Volume Modification Date and Time. Nil when unset.
	//  | 8.4.26.1 Date and Time Format
	VolumeModificationDateAndTime *encoding.DecDateTime `json:"volume_modification_date_and_time"`
	// Volume Expiration Date and Time. Nil means the information is never to
	// be regarded as obsolete.
	//  | 8.4.26.1 Date and Time Format
	VolumeExpirationDateAndTime *encoding.DecDateTime `json:"volume_expiration_date_and_time"`
	// Volume Effective Date and Time. Nil means the information may be used
	// at once.
	//  | 8.4.26.1 Date and Time Format
	VolumeEffectiveDateAndTime *encoding.DecDateTime `json:"volume_effective_date_and_time"`
	// File Structure Version of directory records and Path Tables. Always 1.
	FileStructureVersion uint8 `json:"file_structure_version"`
	// Application Use field. Retained only when an Application Identifier is
	// present; its interpretation belongs to that application.
	ApplicationUse *[consts.ISO9660_APPLICATION_USE_SIZE]byte `json:"application_use"`
}

// Marshal converts the PrimaryVolumeDescriptor into its 2048-byte on-disk
// sector. String fields are padded with consts.ISO9660_FILLER (' '); unused
// regions and the root directory record window stay zero.
func (pvd *PrimaryVolumeDescriptor) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var data [consts.ISO9660_SECTOR_SIZE]byte

	// 1. Header: bytes 0-6. Byte 7 is unused and stays zero.
	headerBytes, err := pvd.VolumeDescriptorHeader.Marshal()
	if err != nil {
		return data, fmt.Errorf("failed to marshal VolumeDescriptorHeader: %w", err)
	}
	copy(data[0:consts.ISO9660_VOLUME_DESC_HEADER_SIZE], headerBytes[:])

	// 2. systemIdentifier: bytes 8-39 (a-characters, padded with ' ').
	sysID, err := encoding.MarshalString(pvd.SystemIdentifier, 32, encoding.CharsetA)
	if err != nil {
		return data, fmt.Errorf("failed to marshal systemIdentifier: %w", err)
	}
	copy(data[8:40], sysID)

	// 3. volumeIdentifier: bytes 40-71 (d-characters, padded).
	volID, err := encoding.MarshalString(pvd.VolumeIdentifier, 32, encoding.CharsetD)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeIdentifier: %w", err)
	}
	copy(data[40:72], volID)

	// 4. volumeSpaceSize: bytes 80-87 (both-byte orders for uint32).
	// Bytes 72-79 before it are unused and stay zero.
	vsBytes := encoding.MarshalBothByteOrders32(pvd.VolumeSpaceSize)
	copy(data[80:88], vsBytes[:])

	// 5. volumeSetSize: bytes 120-123 (both-byte orders for uint16).
	// Bytes 88-119 before it are unused and stay zero.
	vssBytes := encoding.MarshalBothByteOrders16(pvd.VolumeSetSize)
	copy(data[120:124], vssBytes[:])

	// 6. volumeSequenceNumber: bytes 124-127 (both-byte orders for uint16).
	vsnBytes := encoding.MarshalBothByteOrders16(pvd.VolumeSequenceNumber)
	copy(data[124:128], vsnBytes[:])

	// 7. logicalBlockSize: bytes 128-131 (both-byte orders for uint16).
	lbsBytes := encoding.MarshalBothByteOrders16(pvd.LogicalBlockSize)
	copy(data[128:132], lbsBytes[:])

	// 8. pathTableSize: bytes 132-139 (both-byte orders for uint32).
	ptsBytes := encoding.MarshalBothByteOrders32(pvd.PathTableSize)
	copy(data[132:140], ptsBytes[:])

	// 9. Path table locations: bytes 140-155. The L tables are little-endian,
	// the M tables big-endian; zero marks an optional table as absent.
	binary.LittleEndian.PutUint32(data[140:144], pvd.LocationOfTypeLPathTable)
	binary.LittleEndian.PutUint32(data[144:148], pvd.LocationOfOptionalTypeLPathTable)
	binary.BigEndian.PutUint32(data[148:152], pvd.LocationOfTypeMPathTable)
	binary.BigEndian.PutUint32(data[152:156], pvd.LocationOfOptionalTypeMPathTable)

	// 10. Root directory record window: bytes 156-189, not produced at this
	// level, stays zero.

	// 11. volumeSetIdentifier: bytes 190-317 (d-characters, padded).
	vsi, err := encoding.MarshalString(pvd.VolumeSetIdentifier, 128, encoding.CharsetD)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeSetIdentifier: %w", err)
	}
	copy(data[190:318], vsi)

	// 12. publisherIdentifier: bytes 318-445 (marker byte + a-characters).
	if err := marshalGatedIdentifier(data[318:446], pvd.PublisherIdentifier); err != nil {
		return data, fmt.Errorf("failed to marshal publisherIdentifier: %w", err)
	}

	// 13. dataPreparerIdentifier: bytes 446-573 (marker byte + a-characters).
	if err := marshalGatedIdentifier(data[446:574], pvd.DataPreparerIdentifier); err != nil {
		return data, fmt.Errorf("failed to marshal dataPreparerIdentifier: %w", err)
	}

	// 14. applicationIdentifier: bytes 574-701 (marker byte + a-characters).
	if err := marshalGatedIdentifier(data[574:702], pvd.ApplicationIdentifier); err != nil {
		return data, fmt.Errorf("failed to marshal applicationIdentifier: %w", err)
	}

	// 15. copyrightFileIdentifier: bytes 702-738 (d-characters, padded).
	cfID, err := encoding.MarshalString(pvd.CopyrightFileIdentifier, 37, encoding.CharsetD)
	if err != nil {
		return data, fmt.Errorf("failed to marshal copyrightFileIdentifier: %w", err)
	}
	copy(data[702:739], cfID)

	// 16. abstractFileIdentifier: bytes 739-775 (d-characters, padded).
	afID, err := encoding.MarshalString(pvd.AbstractFileIdentifier, 37, encoding.CharsetD)
	if err != nil {
		return data, fmt.Errorf("failed to marshal abstractFileIdentifier: %w", err)
	}
	copy(data[739:776], afID)

	// 17. bibliographicFileIdentifier: bytes 776-812 (d-characters, padded).
	bfID, err := encoding.MarshalString(pvd.BibliographicFileIdentifier, 37, encoding.CharsetD)
	if err != nil {
		return data, fmt.Errorf("failed to marshal bibliographicFileIdentifier: %w", err)
	}
	copy(data[776:813], bfID)

	// 18. volumeCreationDateAndTime: bytes 813-829.
	vcdBytes, err := encoding.MarshalDecDateTime(pvd.VolumeCreationDateAndTime)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeCreationDateAndTime: %w", err)
	}
	copy(data[813:830], vcdBytes[:])

	// 19. volumeModificationDateAndTime: bytes 830-846.
	vmdBytes, err := encoding.MarshalDecDateTime(pvd.VolumeModificationDateAndTime)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeModificationDateAndTime: %w", err)
	}
	copy(data[830:847], vmdBytes[:])

	// 20. volumeExpirationDateAndTime: bytes 847-863.
	vedBytes, err := encoding.MarshalDecDateTime(pvd.VolumeExpirationDateAndTime)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeExpirationDateAndTime: %w", err)
	}
	copy(data[847:864], vedBytes[:])

	// 21. volumeEffectiveDateAndTime: bytes 864-880.
	vefBytes, err := encoding.MarshalDecDateTime(pvd.VolumeEffectiveDateAndTime)
	if err != nil {
		return data, fmt.Errorf("failed to marshal volumeEffectiveDateAndTime: %w", err)
	}
	copy(data[864:881], vefBytes[:])

	// 22. fileStructureVersion: byte 881. Byte 882 is unused and stays zero.
	data[881] = pvd.FileStructureVersion

	// 23. applicationUse: bytes 883-1394, recorded only alongside an
	// application identifier. Bytes 1395-2047 are reserved and stay zero.
	if pvd.ApplicationIdentifier != nil && pvd.ApplicationUse != nil {
		copy(data[883:883+consts.ISO9660_APPLICATION_USE_SIZE], pvd.ApplicationUse[:])
	}

	return data, nil
}

// Unmarshal parses a full 2048-byte sector into the PrimaryVolumeDescriptor.
// Unused regions and the root directory record window are not inspected.
func (pvd *PrimaryVolumeDescriptor) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	// 1. Header: bytes 0-6.
	if err := pvd.VolumeDescriptorHeader.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(data[0:7])); err != nil {
		return fmt.Errorf("failed to unmarshal VolumeDescriptorHeader: %w", err)
	}

	// 2. systemIdentifier: bytes 8-39 (a-characters).
	var err error
	pvd.SystemIdentifier, err = encoding.UnmarshalString(data[8:40], encoding.CharsetA)
	if err != nil {
		return fmt.Errorf("failed to unmarshal systemIdentifier: %w", err)
	}

	// 3. volumeIdentifier: bytes 40-71 (d-characters).
	pvd.VolumeIdentifier, err = encoding.UnmarshalString(data[40:72], encoding.CharsetD)
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeIdentifier: %w", err)
	}

	// 4. volumeSpaceSize: bytes 80-87 (both-byte orders for uint32).
	pvd.VolumeSpaceSize, err = encoding.UnmarshalUint32LSBMSB([8]byte(data[80:88]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeSpaceSize: %w", err)
	}

	// 5. volumeSetSize: bytes 120-123 (both-byte orders for uint16).
	pvd.VolumeSetSize, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[120:124]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeSetSize: %w", err)
	}

	// 6. volumeSequenceNumber: bytes 124-127 (both-byte orders for uint16).
	pvd.VolumeSequenceNumber, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[124:128]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeSequenceNumber: %w", err)
	}

	// 7. logicalBlockSize: bytes 128-131 (both-byte orders for uint16).
	pvd.LogicalBlockSize, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[128:132]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal logicalBlockSize: %w", err)
	}

	// 8. pathTableSize: bytes 132-139 (both-byte orders for uint32).
	pvd.PathTableSize, err = encoding.UnmarshalUint32LSBMSB([8]byte(data[132:140]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal pathTableSize: %w", err)
	}

	// 9. Path table locations: bytes 140-155. L tables little-endian, M
	// tables big-endian; zero means the optional table is absent.
	pvd.LocationOfTypeLPathTable = binary.LittleEndian.Uint32(data[140:144])
	pvd.LocationOfOptionalTypeLPathTable = binary.LittleEndian.Uint32(data[144:148])
	pvd.LocationOfTypeMPathTable = binary.BigEndian.Uint32(data[148:152])
	pvd.LocationOfOptionalTypeMPathTable = binary.BigEndian.Uint32(data[152:156])

	// 10. volumeSetIdentifier: bytes 190-317 (d-characters). The root
	// directory record window at 156-189 is not decoded at this level.
	pvd.VolumeSetIdentifier, err = encoding.UnmarshalString(data[190:318], encoding.CharsetD)
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeSetIdentifier: %w", err)
	}

	// 11. publisherIdentifier: bytes 318-445.
	pvd.PublisherIdentifier, err = unmarshalGatedIdentifier(data[318:446])
	if err != nil {
		return fmt.Errorf("failed to unmarshal publisherIdentifier: %w", err)
	}

	// 12. dataPreparerIdentifier: bytes 446-573.
	pvd.DataPreparerIdentifier, err = unmarshalGatedIdentifier(data[446:574])
	if err != nil {
		return fmt.Errorf("failed to unmarshal dataPreparerIdentifier: %w", err)
	}

	// 13. applicationIdentifier: bytes 574-701.
	pvd.ApplicationIdentifier, err = unmarshalGatedIdentifier(data[574:702])
	if err != nil {
		return fmt.Errorf("failed to unmarshal applicationIdentifier: %w", err)
	}

	// 14. copyrightFileIdentifier: bytes 702-738 (d-characters).
	pvd.CopyrightFileIdentifier, err = encoding.UnmarshalString(data[702:739], encoding.CharsetD)
	if err != nil {
		return fmt.Errorf("failed to unmarshal copyrightFileIdentifier: %w", err)
	}

	// 15. abstractFileIdentifier: bytes 739-775 (d-characters).
	pvd.AbstractFileIdentifier, err = encoding.UnmarshalString(data[739:776], encoding.CharsetD)
	if err != nil {
		return fmt.Errorf("failed to unmarshal abstractFileIdentifier: %w", err)
	}

	// 16. bibliographicFileIdentifier: bytes 776-812 (d-characters).
	pvd.BibliographicFileIdentifier, err = encoding.UnmarshalString(data[776:813], encoding.CharsetD)
	if err != nil {
		return fmt.Errorf("failed to unmarshal bibliographicFileIdentifier: %w", err)
	}

	// 17. Date and time fields: four 17-byte windows at 813, 830, 847, 864.
	pvd.VolumeCreationDateAndTime, err = encoding.UnmarshalDecDateTime([consts.ISO9660_DEC_DATETIME_SIZE]byte(data[813:830]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeCreationDateAndTime: %w", err)
	}
	pvd.VolumeModificationDateAndTime, err = encoding.UnmarshalDecDateTime([consts.ISO9660_DEC_DATETIME_SIZE]byte(data[830:847]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeModificationDateAndTime: %w", err)
	}
	pvd.VolumeExpirationDateAndTime, err = encoding.UnmarshalDecDateTime([consts.ISO9660_DEC_DATETIME_SIZE]byte(data[847:864]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeExpirationDateAndTime: %w", err)
	}
	pvd.VolumeEffectiveDateAndTime, err = encoding.UnmarshalDecDateTime([consts.ISO9660_DEC_DATETIME_SIZE]byte(data[864:881]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal volumeEffectiveDateAndTime: %w", err)
	}

	// 18. fileStructureVersion: byte 881, must be 1.
	if data[881] != consts.ISO9660_VOLUME_DESC_VERSION {
		return &UnknownVersionError{Version: data[881]}
	}
	pvd.FileStructureVersion = data[881]

	// 19. applicationUse: bytes 883-1394, retained only when an application
	// identifier is present.
	if pvd.ApplicationIdentifier != nil {
		appUse := [consts.ISO9660_APPLICATION_USE_SIZE]byte(data[883 : 883+consts.ISO9660_APPLICATION_USE_SIZE])
		pvd.ApplicationUse = &appUse
	} else {
		pvd.ApplicationUse = nil
	}

	return nil
}

// marshalGatedIdentifier fills one 128-byte identifier window. A present value
// is recorded as the file marker byte followed by the identifier; an absent
// one is all filler.
func marshalGatedIdentifier(window []byte, value *string) error {
	if value == nil {
		for i := range window {
			window[i] = consts.ISO9660_FILLER
		}
		return nil
	}
	content, err := encoding.MarshalString(*value, len(window)-1, encoding.CharsetA)
	if err != nil {
		return err
	}
	window[0] = consts.ISO9660_ID_FILE_MARKER
	copy(window[1:], content)
	return nil
}

// unmarshalGatedIdentifier reads one 128-byte identifier window: the file
// marker as first byte announces a value, anything else means the identifier
// is absent.
func unmarshalGatedIdentifier(window []byte) (*string, error) {
	if window[0] != consts.ISO9660_ID_FILE_MARKER {
		return nil, nil
	}
	s, err := encoding.UnmarshalString(window[1:], encoding.CharsetA)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
