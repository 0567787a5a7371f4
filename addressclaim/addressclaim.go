// Package addressclaim implements the SAE J1939 / NMEA 2000 address-claim
// algorithm (4.H): announce a candidate address, race a 250ms listen window
// against incoming claims, and fall back across the arbitrary-address range
// on conflict.
package addressclaim

import (
	"context"
	"fmt"
	"time"

	"github.com/wavesense/n2k"
)

// listenWindow is the per-candidate conflict-listening period.
const listenWindow = 250 * time.Millisecond

// pgnAddressClaim is the PGN carrying the 8-byte little-endian NAME payload.
const pgnAddressClaim = 60928

// Claim runs a full address-claim cycle: try the preferred address, then (if
// the NAME's arbitrary-address-capable bit is set) the 128-247 range, one
// candidate at a time. It returns the address committed to, or
// n2k.AddressNull if a non-AAC node loses arbitration, or
// n2k.ErrNoAddressAvailable if every candidate is exhausted without success.
func Claim(ctx context.Context, bus n2k.CanBus, timer n2k.Timer, name n2k.Name, preferred uint8) (uint8, error) {
	it := newCandidateIterator(preferred, name.IsArbitraryAddressCapable())

	for {
		candidate, ok := it.next()
		if !ok {
			return 0, n2k.ErrNoAddressAvailable
		}

		if err := sendClaim(ctx, bus, name, candidate); err != nil {
			return 0, err
		}

		outcome, err := listen(ctx, bus, timer, name, candidate)
		if err != nil {
			return 0, err
		}
		switch outcome {
		case outcomeWon:
			return candidate, nil
		case outcomeNullAddress:
			return n2k.AddressNull, nil
		case outcomeNextCandidate:
			// AAC node lost arbitration on this candidate; try the next one.
		}
	}
}

type listenOutcome int

const (
	outcomeWon listenOutcome = iota
	outcomeNullAddress
	outcomeNextCandidate
)

// listen races the 250ms window against incoming frames, per 4.H/§5's
// "racing a timer future against the CAN receive future". Frames that don't
// carry a conflicting claim are ignored and the window keeps running.
func listen(ctx context.Context, bus n2k.CanBus, timer n2k.Timer, name n2k.Name, candidate uint8) (listenOutcome, error) {
	recvCtx, cancelRecv := context.WithCancel(ctx)
	defer cancelRecv()

	timerDone := make(chan error, 1)
	go func() { timerDone <- timer.Delay(ctx, listenWindow) }()

	frames := make(chan recvResult, 1)
	recvOne := func() { go func() { f, err := bus.Recv(recvCtx); frames <- recvResult{f, err} }() }
	recvOne()

	for {
		select {
		case err := <-timerDone:
			if err != nil {
				return 0, err
			}
			return outcomeWon, nil

		case r := <-frames:
			if r.err != nil {
				if recvCtx.Err() != nil {
					// recvCtx was cancelled by our own cleanup; the real
					// outcome (timer fired or ctx cancelled) is already
					// queued on timerDone/ctx.Done, pick it up next loop.
					continue
				}
				return 0, fmt.Errorf("%w: %v", n2k.ErrReceiveFailed, r.err)
			}

			conflict, theirName := conflictingClaim(r.frame, candidate, name)
			if conflict {
				if uint64(name) < uint64(theirName) {
					if err := sendClaim(ctx, bus, name, candidate); err != nil {
						return 0, err
					}
				} else if name.IsArbitraryAddressCapable() {
					return outcomeNextCandidate, nil
				} else {
					return outcomeNullAddress, nil
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

// conflictingClaim reports whether frame is a PGN 60928 claim from candidate
// carrying a NAME different from ours.
func conflictingClaim(frame n2k.CanFrame, candidate uint8, name n2k.Name) (bool, n2k.Name) {
	if frame.ID.PGN() != pgnAddressClaim || frame.ID.Source() != candidate {
		return false, 0
	}
	theirName, ok := extractName(frame)
	if !ok || theirName == name {
		return false, 0
	}
	return true, theirName
}

func extractName(frame n2k.CanFrame) (n2k.Name, bool) {
	if frame.Len != 8 {
		return 0, false
	}
	var b [8]byte
	copy(b[:], frame.Data[:8])
	return n2k.NameFromBytes(b), true
}

// sendClaim builds and transmits a PGN 60928 broadcast frame carrying name,
// sourced from candidate.
func sendClaim(ctx context.Context, bus n2k.CanBus, name n2k.Name, candidate uint8) error {
	payload := name.Bytes()
	builder := n2k.NewFastPacketBuilder(pgnAddressClaim, candidate, payload[:]).WithDestination(n2k.AddressGlobal)
	frame, ok, err := builder.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrIdentifierBuildFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: empty claim payload", n2k.ErrIdentifierBuildFailed)
	}
	if err := bus.Send(ctx, frame); err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrSendFailed, err)
	}
	return nil
}

// candidateIterator yields the preferred address, then (if arbitraryCapable)
// 128..247 excluding the preferred address, per 4.H's L.
type candidateIterator struct {
	preferred        uint8
	arbitraryCapable bool
	triedPreferred   bool
	arbitrary        int
}

func newCandidateIterator(preferred uint8, arbitraryCapable bool) *candidateIterator {
	return &candidateIterator{preferred: preferred, arbitraryCapable: arbitraryCapable, arbitrary: 128}
}

// next returns the next candidate address, or (0, false) once exhausted.
func (it *candidateIterator) next() (uint8, bool) {
	if !it.triedPreferred {
		it.triedPreferred = true
		if it.preferred <= 247 {
			return it.preferred, true
		}
	}
	if !it.arbitraryCapable {
		return 0, false
	}
	for it.arbitrary <= 247 {
		a := uint8(it.arbitrary)
		it.arbitrary++
		if a == it.preferred {
			continue
		}
		return a, true
	}
	return 0, false
}
