package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k"
)

type fakeBus struct {
	sent []n2k.CanFrame
	inc  chan n2k.CanFrame
}

func newFakeBus() *fakeBus { return &fakeBus{inc: make(chan n2k.CanFrame, 8)} }

func (b *fakeBus) Send(_ context.Context, frame n2k.CanFrame) error {
	b.sent = append(b.sent, frame)
	return nil
}

func (b *fakeBus) Recv(ctx context.Context) (n2k.CanFrame, error) {
	select {
	case f := <-b.inc:
		return f, nil
	case <-ctx.Done():
		return n2k.CanFrame{}, ctx.Err()
	}
}

func (b *fakeBus) push(f n2k.CanFrame) { b.inc <- f }

type realTimer struct{ scale time.Duration }

func (t realTimer) Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d / t.scale)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func claimReplyFrame(t *testing.T, source uint8, name n2k.Name) n2k.CanFrame {
	t.Helper()
	payload := name.Bytes()
	var data [8]byte
	copy(data[:], payload[:])
	id, err := n2k.NewCanID(6, pgnAddressClaim, source).WithDestination(n2k.AddressGlobal).Build()
	require.NoError(t, err)
	return n2k.CanFrame{ID: id, Data: data, Len: 8}
}

func TestDiscover_DedupsBySourceInArrivalOrder(t *testing.T) {
	bus := newFakeBus()

	go func() {
		bus.push(claimReplyFrame(t, 10, n2k.Name(1)))
		bus.push(claimReplyFrame(t, 20, n2k.Name(2)))
		bus.push(claimReplyFrame(t, 10, n2k.Name(1))) // duplicate source
		bus.push(claimReplyFrame(t, 30, n2k.Name(3)))
	}()

	out := make([]Discovered, 8)
	n, err := Discover(context.Background(), bus, realTimer{scale: 15}, out)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	assert.Equal(t, Discovered{SourceAddress: 10, Name: n2k.Name(1)}, out[0])
	assert.Equal(t, Discovered{SourceAddress: 20, Name: n2k.Name(2)}, out[1])
	assert.Equal(t, Discovered{SourceAddress: 30, Name: n2k.Name(3)}, out[2])
}

func TestDiscover_StopsAtBufferCapacity(t *testing.T) {
	bus := newFakeBus()

	go func() {
		bus.push(claimReplyFrame(t, 10, n2k.Name(1)))
		bus.push(claimReplyFrame(t, 20, n2k.Name(2)))
		bus.push(claimReplyFrame(t, 30, n2k.Name(3)))
	}()

	out := make([]Discovered, 2)
	n, err := Discover(context.Background(), bus, realTimer{scale: 1}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "discovery must stop as soon as the caller-provided buffer fills")
}

func TestDiscover_IgnoresNonClaimFrames(t *testing.T) {
	bus := newFakeBus()

	otherID, err := n2k.NewCanID(6, 127251, 5).Build()
	require.NoError(t, err)
	go func() {
		bus.push(n2k.CanFrame{ID: otherID, Len: 8})
		bus.push(claimReplyFrame(t, 10, n2k.Name(1)))
	}()

	out := make([]Discovered, 8)
	n, err := Discover(context.Background(), bus, realTimer{scale: 15}, out)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, uint8(10), out[0].SourceAddress)
}

func TestDiscover_SendsISORequestWithCorrectPayload(t *testing.T) {
	bus := newFakeBus()
	out := make([]Discovered, 1)

	_, err := Discover(context.Background(), bus, realTimer{scale: 30}, out)
	require.NoError(t, err)

	require.Len(t, bus.sent, 1)
	req := bus.sent[0]
	assert.Equal(t, uint8(3), req.Len)
	assert.Equal(t, byte(0x00), req.Data[0])
	assert.Equal(t, byte(0xEE), req.Data[1])
	assert.Equal(t, byte(0x00), req.Data[2])
	assert.Equal(t, uint32(pgnISORequest), req.ID.PGN())
}
