package lifecycle

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPProbe succeeds when a TCP connection to Address can be
// established within Timeout. It never sends or receives data.
type TCPProbe struct {
	Address string
	Timeout time.Duration
}

// NewTCPProbe returns a TCPProbe with the default 1 second connect
// timeout.
func NewTCPProbe(address string) *TCPProbe {
	return &TCPProbe{Address: address, Timeout: time.Second}
}

func (p *TCPProbe) Test(ctx context.Context) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *TCPProbe) String() string {
	return fmt.Sprintf("tcp(%s)", p.Address)
}
