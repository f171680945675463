package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorts(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]interface{}
		want    PortSpec
		wantErr bool
	}{
		{
			name: "bare int defaults to tcp on all interfaces",
			raw:  map[string]interface{}{"web": 8080},
			want: PortSpec{Exposed: "8080/tcp", External: ExternalBinding{BindIP: "0.0.0.0", Spec: "8080/tcp"}},
		},
		{
			name: "single number string",
			raw:  map[string]interface{}{"web": "8080"},
			want: PortSpec{Exposed: "8080/tcp", External: ExternalBinding{BindIP: "0.0.0.0", Spec: "8080/tcp"}},
		},
		{
			name: "exposed:external string mapping",
			raw:  map[string]interface{}{"web": "80:8080"},
			want: PortSpec{Exposed: "80/tcp", External: ExternalBinding{BindIP: "0.0.0.0", Spec: "8080/tcp"}},
		},
		{
			name: "protocol suffix carried through",
			raw:  map[string]interface{}{"dns": "53/udp"},
			want: PortSpec{Exposed: "53/udp", External: ExternalBinding{BindIP: "0.0.0.0", Spec: "53/udp"}},
		},
		{
			name:    "mismatched protocols are fatal",
			raw:     map[string]interface{}{"web": "80/tcp:8080/udp"},
			wantErr: true,
		},
		{
			name: "object form with explicit external",
			raw: map[string]interface{}{
				"web": map[string]interface{}{
					"exposed":  8080,
					"external": "80",
				},
			},
			want: PortSpec{Exposed: "8080/tcp", External: ExternalBinding{BindIP: "0.0.0.0", Spec: "80/tcp"}},
		},
		{
			name: "object form with explicit bind ip",
			raw: map[string]interface{}{
				"web": map[string]interface{}{
					"exposed":  8080,
					"external": []interface{}{"10.0.0.1", "80"},
				},
			},
			want: PortSpec{Exposed: "8080/tcp", External: ExternalBinding{BindIP: "10.0.0.1", Spec: "80/tcp"}},
		},
		{
			name:    "garbage value is fatal",
			raw:     map[string]interface{}{"web": true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePorts("test", tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for name := range tt.raw {
				assert.Equal(t, tt.want, got[name])
			}
		})
	}
}
