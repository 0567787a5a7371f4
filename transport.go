package n2k

import (
	"context"
	"time"
)

// CanBus is the suspendable CAN transmit/receive capability injected into
// the address claim, address manager and network discovery components. The
// library never owns or constructs one; a hosted implementation
// (adapters/socketcan) or an embedded HAL binds it.
type CanBus interface {
	// Send transmits a single frame, suspending until accepted by the
	// driver or ctx is cancelled.
	Send(ctx context.Context, frame CanFrame) error
	// Recv receives the next frame, suspending until one arrives or ctx is
	// cancelled.
	Recv(ctx context.Context) (CanFrame, error)
}

// Timer is the suspendable delay capability used to implement the 250ms/
// 300ms listen windows of address claim and network discovery.
type Timer interface {
	// Delay suspends for d, or until ctx is cancelled.
	Delay(ctx context.Context, d time.Duration) error
}
