package descriptor

import (
	"testing"

	"github.com/mlaforet/cdkit/pkg/consts"
	"github.com/stretchr/testify/require"
)

func TestVolumeDescriptorSetTerminator_MarshalUnmarshal(t *testing.T) {
	term := NewTerminator()
	data, err := term.Marshal()
	require.NoError(t, err)

	require.Equal(t, byte(TYPE_TERMINATOR_DESCRIPTOR), data[0])
	require.Equal(t, []byte("CD001"), data[1:6])
	require.Equal(t, byte(1), data[6])
	for i := consts.ISO9660_VOLUME_DESC_HEADER_SIZE; i < consts.ISO9660_SECTOR_SIZE; i++ {
		require.Equal(t, byte(0x00), data[i], "byte %d past the header should be zero", i)
	}

	var parsed VolumeDescriptorSetTerminator
	require.NoError(t, parsed.Unmarshal(data))
	require.Equal(t, TYPE_TERMINATOR_DESCRIPTOR, parsed.Type())
	require.Equal(t, "CD001", parsed.Identifier())
}

func TestVolumeDescriptorSet_HasElTorito(t *testing.T) {
	var set VolumeDescriptorSet
	require.False(t, set.HasElTorito())

	set.Boot = &BootRecordDescriptor{
		VolumeDescriptorHeader: NewVolumeDescriptorHeader(TYPE_BOOT_RECORD),
		BootSystemIdentifier:   "SOME OTHER LOADER",
	}
	require.False(t, set.HasElTorito())

	set.Boot = NewElTorito(18)
	require.True(t, set.HasElTorito())
}
