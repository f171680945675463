package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRestartPolicy(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    RestartPolicy
		wantErr bool
	}{
		{
			name: "nil falls back to default",
			raw:  nil,
			want: RestartPolicy{Name: "no", MaximumRetryCount: 0},
		},
		{
			name: "empty string falls back to default",
			raw:  "",
			want: RestartPolicy{Name: "no", MaximumRetryCount: 0},
		},
		{
			name: "name only",
			raw:  "always",
			want: RestartPolicy{Name: "always", MaximumRetryCount: 0},
		},
		{
			name: "name with retries",
			raw:  "on-failure:5",
			want: RestartPolicy{Name: "on-failure", MaximumRetryCount: 5},
		},
		{
			name: "object form",
			raw:  map[string]interface{}{"name": "on-failure", "retries": 3},
			want: RestartPolicy{Name: "on-failure", MaximumRetryCount: 3},
		},
		{
			name:    "unknown name is fatal",
			raw:     "sometimes",
			wantErr: true,
		},
		{
			name:    "non-numeric retries is fatal",
			raw:     "always:soon",
			wantErr: true,
		},
		{
			name:    "garbage spec is fatal",
			raw:     42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRestartPolicy("test", tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
