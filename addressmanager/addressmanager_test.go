package addressmanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesense/n2k"
	"github.com/wavesense/n2k/pgns"
)

type fakeBus struct {
	mu   sync.Mutex
	sent []n2k.CanFrame
	inc  chan n2k.CanFrame
}

func newFakeBus() *fakeBus { return &fakeBus{inc: make(chan n2k.CanFrame, 8)} }

func (b *fakeBus) Send(_ context.Context, frame n2k.CanFrame) error {
	b.mu.Lock()
	b.sent = append(b.sent, frame)
	b.mu.Unlock()
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

func (b *fakeBus) sentFrames() []n2k.CanFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]n2k.CanFrame, len(b.sent))
	copy(out, b.sent)
	return out
}

func (b *fakeBus) push(f n2k.CanFrame) { b.inc <- f }

// realTimer scales the claim listen window down so tests run fast.
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

func newManager(t *testing.T, bus *fakeBus, name n2k.Name, preferred uint8) *Manager {
	t.Helper()
	m, err := New(context.Background(), bus, realTimer{scale: 20}, name, preferred, nil)
	require.NoError(t, err)
	return m
}

func buildClaimFrame(t *testing.T, name n2k.Name, source uint8) n2k.CanFrame {
	t.Helper()
	payload := name.Bytes()
	var data [8]byte
	copy(data[:], payload[:])
	id, err := n2k.NewCanID(6, pgnAddressClaim, source).WithDestination(n2k.AddressGlobal).Build()
	require.NoError(t, err)
	return n2k.CanFrame{ID: id, Data: data, Len: 8}
}

func TestNew_ClaimsPreferredAddress(t *testing.T) {
	bus := newFakeBus()
	m := newManager(t, bus, n2k.Name(1), 42)
	assert.Equal(t, uint8(42), m.CurrentAddress())
}

func TestHandleFrame_ForeignClaimIsPassedThrough(t *testing.T) {
	bus := newFakeBus()
	m := newManager(t, bus, n2k.Name(1), 42)

	other := buildClaimFrame(t, n2k.Name(2), 99)
	app, err := m.HandleFrame(context.Background(), other)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, other, *app)
}

func TestHandleFrame_HigherForeignNameDefends(t *testing.T) {
	bus := newFakeBus()
	name := n2k.Name(100)
	m := newManager(t, bus, name, 42)

	conflict := buildClaimFrame(t, n2k.Name(200), 42)
	app, err := m.HandleFrame(context.Background(), conflict)
	require.NoError(t, err)
	assert.Nil(t, app)
	assert.Equal(t, uint8(42), m.CurrentAddress(), "ours is lower, we defend and keep the address")

	sent := bus.sentFrames()
	require.Len(t, sent, 2, "initial claim plus the defensive retransmission")
}

func TestHandleFrame_LowerForeignNameReclaims(t *testing.T) {
	bus := newFakeBus()
	name := n2k.Name(200)
	m := newManager(t, bus, name, 42)

	conflict := buildClaimFrame(t, n2k.Name(100), 42)
	app, err := m.HandleFrame(context.Background(), conflict)
	require.NoError(t, err)
	assert.Nil(t, app)
	assert.Equal(t, uint8(42), m.CurrentAddress(), "no competing claims during reclaim, so we re-win the preferred address")
}

func TestRecv_AbsorbsClaimSurfacesApplicationFrame(t *testing.T) {
	bus := newFakeBus()
	m := newManager(t, bus, n2k.Name(1), 42)

	bus.push(buildClaimFrame(t, n2k.Name(2), 42)) // conflicting claim, defended and absorbed
	appFrame := buildClaimFrame(t, n2k.Name(1), 99)
	bus.push(appFrame)

	got, err := m.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, appFrame, got)
}

func TestSendPGN_SingleFrameNoDelay(t *testing.T) {
	bus := newFakeBus()
	m := newManager(t, bus, n2k.Name(1), 42)

	req := pgns.NewISORequest()
	req.RequestedPgn = 60928

	dest := n2k.AddressGlobal
	err := m.SendPGN(context.Background(), req, 59904, &dest)
	require.NoError(t, err)

	sent := bus.sentFrames()
	last := sent[len(sent)-1]
	assert.Equal(t, uint8(0x00), last.Data[0])
	assert.Equal(t, uint8(0xEE), last.Data[1])
	assert.Equal(t, uint8(0x00), last.Data[2])
}

func TestSendPGN_MultiFrameAppliesInterFrameDelay(t *testing.T) {
	bus := newFakeBus()
	m := newManager(t, bus, n2k.Name(1), 42)

	longPayload := make([]byte, 20)
	for i := range longPayload {
		longPayload[i] = byte(i)
	}
	fake := &fakeMultiFramePgnData{payload: longPayload}

	start := time.Now()
	err := m.SendPGN(context.Background(), fake, 130824, nil)
	require.NoError(t, err)
	elapsed := time.Since(start)

	sent := bus.sentFrames()
	assert.Greater(t, len(sent), 1, "20-byte payload must span multiple Fast Packet frames")
	assert.GreaterOrEqual(t, elapsed, interFrameDelay/20, "at least one inter-frame delay (scaled 1/20 by the test timer) must have elapsed")
}

// fakeMultiFramePgnData is a minimal n2k.PgnData whose Field/FieldMut hand
// back a fixed byte-array payload verbatim, used only to drive SendPGN's
// Fast Packet segmentation and pacing without a real generated PGN type.
type fakeMultiFramePgnData struct {
	n2k.NoRepeatingFields
	payload []byte
}

var fakeMultiFrameDescriptor = n2k.PgnDescriptor{
	ID:         130824,
	Name:       "FakeMultiFrame",
	FastPacket: true,
	Fields: []n2k.FieldDescriptor{
		{ID: "payload", Kind: n2k.FieldBinary, BitsLength: u32(160)},
	},
}

func u32(v uint32) *uint32 { return &v }

func (f *fakeMultiFramePgnData) Descriptor() *n2k.PgnDescriptor { return &fakeMultiFrameDescriptor }

func (f *fakeMultiFramePgnData) Field(id string) (n2k.PgnValue, bool) {
	if id != "payload" {
		return n2k.PgnValue{}, false
	}
	b := n2k.NewPgnBytes()
	b.SetBytes(f.payload)
	return n2k.BytesValue(b), true
}

func (f *fakeMultiFramePgnData) FieldMut(id string, value n2k.PgnValue) bool {
	if id != "payload" {
		return false
	}
	f.payload = append(f.payload[:0], value.AsBytes().Bytes()...)
	return true
}
