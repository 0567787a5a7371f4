// Package discovery implements NMEA 2000 network discovery (4.J): broadcast
// an ISO Request for Address Claim and collect replies for a fixed window.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/wavesense/n2k"
)

// pgnISORequest is the PGN used to solicit a named PGN from every node.
const pgnISORequest = 59904

// pgnAddressClaim is the PGN replies are expected on.
const pgnAddressClaim = 60928

// listenWindow is how long Discover waits for replies after broadcasting.
const listenWindow = 300 * time.Millisecond

// Discovered is one (source address, NAME) pair observed during a discovery
// pass.
type Discovered struct {
	SourceAddress uint8
	Name          n2k.Name
}

// Discover broadcasts an ISO Request for PGN 60928 and, for up to
// listenWindow, records every distinct-source Address Claim reply into out,
// in arrival order, until out is full. It returns the number of entries
// written.
func Discover(ctx context.Context, bus n2k.CanBus, timer n2k.Timer, out []Discovered) (int, error) {
	if err := sendRequest(ctx, bus); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}

	recvCtx, cancelRecv := context.WithCancel(ctx)
	defer cancelRecv()

	timerDone := make(chan error, 1)
	go func() { timerDone <- timer.Delay(ctx, listenWindow) }()

	frames := make(chan recvResult, 1)
	recvOne := func() { go func() { f, err := bus.Recv(recvCtx); frames <- recvResult{f, err} }() }
	recvOne()

	count := 0
	for {
		select {
		case err := <-timerDone:
			if err != nil {
				return count, err
			}
			return count, nil

		case r := <-frames:
			if r.err != nil {
				if recvCtx.Err() != nil {
					continue
				}
				return count, fmt.Errorf("%w: %v", n2k.ErrReceiveFailed, r.err)
			}

			if name, ok := claimReply(r.frame); ok {
				source := r.frame.ID.Source()
				if !containsSource(out[:count], source) {
					out[count] = Discovered{SourceAddress: source, Name: name}
					count++
					if count >= len(out) {
						return count, nil
					}
				}
			}
			recvOne()
		}
	}
}

type recvResult struct {
	frame n2k.CanFrame
	err   error
}

func containsSource(seen []Discovered, source uint8) bool {
	for _, d := range seen {
		if d.SourceAddress == source {
			return true
		}
	}
	return false
}

func claimReply(frame n2k.CanFrame) (n2k.Name, bool) {
	if frame.ID.PGN() != pgnAddressClaim || frame.Len != 8 {
		return 0, false
	}
	var b [8]byte
	copy(b[:], frame.Data[:8])
	return n2k.NameFromBytes(b), true
}

// sendRequest broadcasts an ISO Request (PGN 59904) whose 3-byte payload
// encodes the requested PGN 60928 in little-endian order, per 4.J/§6.
func sendRequest(ctx context.Context, bus n2k.CanBus) error {
	payload := []byte{
		byte(pgnAddressClaim),
		byte(pgnAddressClaim >> 8),
		byte(pgnAddressClaim >> 16),
	}
	builder := n2k.NewFastPacketBuilder(pgnISORequest, n2k.AddressGlobal, payload).WithDestination(n2k.AddressGlobal)
	frame, ok, err := builder.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrIdentifierBuildFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: empty ISO Request payload", n2k.ErrIdentifierBuildFailed)
	}
	if err := bus.Send(ctx, frame); err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrSendFailed, err)
	}
	return nil
}
