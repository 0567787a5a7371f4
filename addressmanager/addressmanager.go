// Package addressmanager provides automated lifecycle management of a
// claimed NMEA 2000 logical address: initial claim, conflict defense, and
// reclaim on arbitration loss (4.I).
package addressmanager

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wavesense/n2k"
	"github.com/wavesense/n2k/addressclaim"
)

// pgnAddressClaim is the PGN carrying the 8-byte little-endian NAME payload.
const pgnAddressClaim = 60928

// interFrameDelay is the pause between consecutive frames of the same
// multi-frame Fast Packet message (4.I).
const interFrameDelay = 2 * time.Millisecond

// maxSerializedPayload bounds the scratch buffer Serialize writes into
// before SendPGN hands it to the Fast Packet builder.
const maxSerializedPayload = n2k.MaxFastPacketPayload

// Manager owns a CAN bus collaborator and a timer, wraps the 4.H claim
// outcome, and keeps the claimed address defended for as long as Recv is
// driven.
type Manager struct {
	bus    n2k.CanBus
	timer  n2k.Timer
	name   n2k.Name
	pref   uint8
	addr   uint8
	logger *zap.Logger
}

// New runs the initial address-claim cycle and returns a Manager holding the
// resulting address. logger may be nil (treated as zap.NewNop()); it is used
// only for diagnostic, non-protocol-affecting events.
func New(ctx context.Context, bus n2k.CanBus, timer n2k.Timer, name n2k.Name, preferred uint8, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	addr, err := addressclaim.Claim(ctx, bus, timer, name, preferred)
	if err != nil {
		return nil, err
	}
	logger.Info("address claimed", zap.Uint8("address", addr), zap.Uint64("name", uint64(name)))
	return &Manager{bus: bus, timer: timer, name: name, pref: preferred, addr: addr, logger: logger}, nil
}

// CurrentAddress returns the address currently owned.
func (m *Manager) CurrentAddress() uint8 { return m.addr }

// Send passes frame straight through to the underlying bus.
func (m *Manager) Send(ctx context.Context, frame n2k.CanFrame) error {
	return m.bus.Send(ctx, frame)
}

// SendPGN serializes data per its descriptor, segments it via the Fast
// Packet builder and transmits it frame-by-frame, pacing multi-frame
// messages with interFrameDelay between frames. destination nil selects
// broadcast (PDU2) framing.
func (m *Manager) SendPGN(ctx context.Context, data n2k.PgnData, pgn uint32, destination *uint8) error {
	buf := make([]byte, maxSerializedPayload)
	n, err := n2k.Serialize(data, buf, data.Descriptor())
	if err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrSerializationFailed, err)
	}

	builder := n2k.NewFastPacketBuilder(pgn, m.addr, buf[:n])
	if destination != nil {
		builder = builder.WithDestination(*destination)
	}

	first := true
	for {
		frame, ok, err := builder.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", n2k.ErrIdentifierBuildFailed, err)
		}
		if !ok {
			return nil
		}
		if !first {
			if err := m.timer.Delay(ctx, interFrameDelay); err != nil {
				return err
			}
		}
		if err := m.bus.Send(ctx, frame); err != nil {
			return fmt.Errorf("%w: %v", n2k.ErrSendFailed, err)
		}
		first = false
	}
}

// HandleFrame applies address-management rules to frame: a PGN 60928 claim
// targeting our current address and carrying a different NAME triggers
// either a reclaim (their NAME is numerically lower, so ours loses) or a
// defense (ours is lower). Any other frame, including a repeat of our own
// claim, is returned unmodified for the caller to handle.
func (m *Manager) HandleFrame(ctx context.Context, frame n2k.CanFrame) (*n2k.CanFrame, error) {
	theirName, isClaim := claimAgainstUs(frame, m.addr)
	if !isClaim || theirName == m.name {
		return &frame, nil
	}

	if uint64(m.name) > uint64(theirName) {
		if err := m.Reclaim(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := m.Defend(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func claimAgainstUs(frame n2k.CanFrame, currentAddress uint8) (n2k.Name, bool) {
	if frame.ID.PGN() != pgnAddressClaim || frame.ID.Source() != currentAddress || frame.Len != 8 {
		return 0, false
	}
	var b [8]byte
	copy(b[:], frame.Data[:8])
	return n2k.NameFromBytes(b), true
}

// Recv loops the underlying receive, silently absorbing frames HandleFrame
// consumes, and surfaces the first application frame.
func (m *Manager) Recv(ctx context.Context) (n2k.CanFrame, error) {
	for {
		frame, err := m.bus.Recv(ctx)
		if err != nil {
			return n2k.CanFrame{}, fmt.Errorf("%w: %v", n2k.ErrReceiveFailed, err)
		}
		app, err := m.HandleFrame(ctx, frame)
		if err != nil {
			return n2k.CanFrame{}, err
		}
		if app != nil {
			return *app, nil
		}
	}
}

// Reclaim momentarily nulls the current address, re-runs the claim state
// machine with the original preferred address, and installs the result.
func (m *Manager) Reclaim(ctx context.Context) error {
	m.addr = n2k.AddressNull
	addr, err := addressclaim.Claim(ctx, m.bus, m.timer, m.name, m.pref)
	if err != nil {
		return err
	}
	m.addr = addr
	m.logger.Info("address reclaimed", zap.Uint8("address", addr))
	return nil
}

// Defend re-announces our current address, per 4.I.
func (m *Manager) Defend(ctx context.Context) error {
	payload := m.name.Bytes()
	builder := n2k.NewFastPacketBuilder(pgnAddressClaim, m.addr, payload[:]).WithDestination(n2k.AddressGlobal)
	frame, ok, err := builder.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrIdentifierBuildFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: empty defense payload", n2k.ErrIdentifierBuildFailed)
	}
	if err := m.bus.Send(ctx, frame); err != nil {
		return fmt.Errorf("%w: %v", n2k.ErrSendFailed, err)
	}
	return nil
}
