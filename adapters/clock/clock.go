// Package clock binds n2k.Timer to the runtime clock.
package clock

import (
	"context"
	"time"

	"github.com/wavesense/n2k"
)

// RealTimer implements n2k.Timer with time.Timer.
type RealTimer struct{}

var _ n2k.Timer = RealTimer{}

// Delay suspends for d, or returns ctx.Err() early if ctx is done first.
func (RealTimer) Delay(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
