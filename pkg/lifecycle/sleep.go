package lifecycle

import (
	"context"
	"fmt"
	"time"
)

// SleepProbe always succeeds after waiting Duration. It models the
// "just give it a few seconds" lifecycle check for services with no
// meaningful readiness signal.
type SleepProbe struct {
	Duration time.Duration
}

func NewSleepProbe(d time.Duration) *SleepProbe {
	return &SleepProbe{Duration: d}
}

func (p *SleepProbe) Test(ctx context.Context) bool {
	timer := time.NewTimer(p.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *SleepProbe) String() string {
	return fmt.Sprintf("sleep(%s)", p.Duration)
}
