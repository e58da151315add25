package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharsetContains(t *testing.T) {
	tests := []struct {
		name string
		set  Charset
		b    byte
		want bool
	}{
		{name: "a-characters letter", set: CharsetA, b: 'K', want: true},
		{name: "a-characters lower case letter", set: CharsetA, b: 'k', want: true},
		{name: "a-characters space", set: CharsetA, b: ' ', want: true},
		{name: "a-characters punctuation", set: CharsetA, b: '?', want: true},
		{name: "a-characters rejects hash", set: CharsetA, b: '#', want: false},
		{name: "d-characters letter", set: CharsetD, b: 'K', want: true},
		{name: "d-characters lower case letter", set: CharsetD, b: 'k', want: true},
		{name: "d-characters underscore", set: CharsetD, b: '_', want: true},
		{name: "d-characters rejects space", set: CharsetD, b: ' ', want: false},
		{name: "d-characters rejects punctuation", set: CharsetD, b: '.', want: false},
		{name: "d-characters rejects NUL", set: CharsetD, b: 0x00, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.set.Contains(tt.b))
		})
	}
}

func TestUnmarshalString(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		set      Charset
		want     string
		wantErr  bool
		badPoint byte
	}{
		{
			name:  "space padded a-characters",
			input: []byte("LINUX BOOT DISK     "),
			set:   CharsetA,
			want:  "LINUX BOOT DISK",
		},
		{
			name:  "NUL padded d-characters",
			input: append([]byte("ROOTFS"), 0x00, 0x00, 0x00, 0x00),
			set:   CharsetD,
			want:  "ROOTFS",
		},
		{
			name:  "mixed trailing padding",
			input: []byte{'A', 'B', ' ', 0x00, ' ', 0x00},
			set:   CharsetD,
			want:  "AB",
		},
		{
			name:  "all padding decodes to empty",
			input: []byte{' ', ' ', 0x00, ' '},
			set:   CharsetA,
			want:  "",
		},
		{
			name:     "charset violation reports the code point",
			input:    []byte("VOL#ID  "),
			set:      CharsetD,
			wantErr:  true,
			badPoint: '#',
		},
		{
			name:     "interior space is not d-characters",
			input:    []byte("MY VOL  "),
			set:      CharsetD,
			wantErr:  true,
			badPoint: ' ',
		},
		{
			name:  "interior space is fine for a-characters",
			input: []byte("MY VOL  "),
			set:   CharsetA,
			want:  "MY VOL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalString(tt.input, tt.set)
			if tt.wantErr {
				var alphabetErr *InvalidAlphabetError
				require.ErrorAs(t, err, &alphabetErr)
				require.Equal(t, tt.badPoint, alphabetErr.CodePoint)
				require.Equal(t, tt.set, alphabetErr.Charset)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalString(t *testing.T) {
	t.Run("pads with filler spaces", func(t *testing.T) {
		got, err := MarshalString("CDROM", 8, CharsetD)
		require.NoError(t, err)
		require.Equal(t, []byte("CDROM   "), got)
	})

	t.Run("exact fit", func(t *testing.T) {
		got, err := MarshalString("ABCD", 4, CharsetD)
		require.NoError(t, err)
		require.Equal(t, []byte("ABCD"), got)
	})

	t.Run("empty string is all filler", func(t *testing.T) {
		got, err := MarshalString("", 4, CharsetA)
		require.NoError(t, err)
		require.Equal(t, []byte("    "), got)
	})

	t.Run("rejects strings longer than the field", func(t *testing.T) {
		_, err := MarshalString("TOOLONGVALUE", 4, CharsetD)
		var tooLong *TooLongError
		require.ErrorAs(t, err, &tooLong)
		require.Equal(t, 12, tooLong.Length)
		require.Equal(t, 4, tooLong.Max)
	})

	t.Run("rejects charset violations", func(t *testing.T) {
		_, err := MarshalString("A/B", 8, CharsetD)
		var alphabetErr *InvalidAlphabetError
		require.ErrorAs(t, err, &alphabetErr)
		require.Equal(t, byte('/'), alphabetErr.CodePoint)
	})

	t.Run("round-trips through UnmarshalString", func(t *testing.T) {
		raw, err := MarshalString("EL TORITO SPECIFICATION", 32, CharsetA)
		require.NoError(t, err)
		back, err := UnmarshalString(raw, CharsetA)
		require.NoError(t, err)
		require.Equal(t, "EL TORITO SPECIFICATION", back)
	})
}
