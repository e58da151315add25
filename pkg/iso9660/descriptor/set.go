package descriptor

// DescriptorLocation records where a descriptor was found during the
// sequence walk.
type DescriptorLocation struct {
	Type   VolumeDescriptorType `json:"type"`
	Sector int64                `json:"sector"`
}

// VolumeDescriptorSet holds the decoded descriptors of one image. Only the
// first primary descriptor and the first boot record are retained; repeats
// and the undecoded descriptor kinds are tallied instead.
type VolumeDescriptorSet struct {
	Primary            *PrimaryVolumeDescriptor       `json:"primary"`
	Boot               *BootRecordDescriptor          `json:"boot,omitempty"`
	Terminator         *VolumeDescriptorSetTerminator `json:"-"`
	SupplementaryCount int                            `json:"supplementary_count"`
	PartitionCount     int                            `json:"partition_count"`
	Locations          []DescriptorLocation           `json:"locations"`
}

// HasElTorito reports whether the set carries an El Torito boot record.
func (s *VolumeDescriptorSet) HasElTorito() bool {
	return s.Boot != nil && s.Boot.IsElTorito()
}
