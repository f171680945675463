package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "empty is zero", raw: "", want: 0},
		{name: "digits only", raw: "512", want: 512},
		{name: "kilobytes", raw: "4k", want: 4 * 1024},
		{name: "megabytes uppercase suffix", raw: "256M", want: 256 * 1024 * 1024},
		{name: "gigabytes", raw: "2g", want: 2 * 1024 * 1024 * 1024},
		{name: "unknown suffix is fatal", raw: "4x", wantErr: true},
		{name: "non-numeric digits is fatal", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBytes("test", tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes_RoundTripsThroughParse(t *testing.T) {
	for _, raw := range []string{"512", "4k", "256m", "2g", "1000"} {
		parsed, err := ParseBytes("test", raw)
		require.NoError(t, err)
		assert.Equal(t, raw, FormatBytes(parsed))

		reparsed, err := ParseBytes("test", FormatBytes(parsed))
		require.NoError(t, err)
		assert.Equal(t, parsed, reparsed)
	}
}
