package n2k

// MaxConcurrentSessions bounds the Fast Packet assembler's session pool
// (3. data model, 4.G): a fixed array, no heap, no eviction of in-progress
// sessions.
const MaxConcurrentSessions = 4

type sessionState uint8

const (
	sessionInactive sessionState = iota
	sessionInProgress
)

type fastPacketSession struct {
	state          sessionState
	source         uint8
	sequenceID     uint8
	buffer         [MaxFastPacketPayload]byte
	expectedSize   int
	currentSize    int
	lastFrameIndex uint8
}

func (s *fastPacketSession) reset() {
	*s = fastPacketSession{}
}

// CompletedMessage is a self-contained reassembled Fast Packet payload.
type CompletedMessage struct {
	buffer [MaxFastPacketPayload]byte
	length int
}

// Bytes returns the populated prefix of the reassembled payload.
func (m CompletedMessage) Bytes() []byte { return m.buffer[:m.length] }

// ProcessResult classifies the outcome of feeding one frame to the
// assembler (4.G).
type ProcessResult uint8

const (
	// Ignored: the frame did not advance or start any session.
	Ignored ProcessResult = iota
	// FragmentConsumed: the frame extended an in-progress session that is
	// not yet complete.
	FragmentConsumed
	// MessageComplete: the frame completed a session; the reassembled
	// message is available via FastPacketAssembler.Completed.
	MessageComplete
)

// FastPacketAssembler reassembles Fast Packet fragments using a fixed pool
// of MaxConcurrentSessions sessions, each privately owned by this assembler
// instance (4.G). It performs no heap allocation.
type FastPacketAssembler struct {
	sessions  [MaxConcurrentSessions]fastPacketSession
	completed CompletedMessage
}

// NewFastPacketAssembler returns an assembler with all sessions inactive.
func NewFastPacketAssembler() *FastPacketAssembler {
	return &FastPacketAssembler{}
}

// Completed returns the message produced by the most recent call to
// ProcessFrame that returned MessageComplete. Its contents are only valid
// until the next ProcessFrame call.
func (a *FastPacketAssembler) Completed() CompletedMessage { return a.completed }

// ProcessFrame feeds one CAN frame's data bytes (from source) to the
// assembler.
func (a *FastPacketAssembler) ProcessFrame(source uint8, data []byte) ProcessResult {
	if len(data) < 1 {
		return Ignored
	}
	header := data[0]
	frameIndex := header & 0x1F
	sequenceID := (header >> 5) & 0x07

	if frameIndex == 0 {
		return a.startSession(source, sequenceID, data)
	}
	return a.continueSession(source, sequenceID, frameIndex, data)
}

// slot selection for frame_index==0: prefer an inactive slot already keyed
// to this source (session reuse), else any inactive slot, else drop.
func (a *FastPacketAssembler) pickSlotForStart(source uint8) int {
	reuse := -1
	anyFree := -1
	for i := range a.sessions {
		if a.sessions[i].state != sessionInactive {
			continue
		}
		if anyFree == -1 {
			anyFree = i
		}
		if a.sessions[i].source == source {
			reuse = i
			break
		}
	}
	if reuse != -1 {
		return reuse
	}
	return anyFree
}

func (a *FastPacketAssembler) startSession(source uint8, sequenceID uint8, data []byte) ProcessResult {
	if len(data) < 2 {
		return Ignored
	}
	length := int(data[1])
	if length < 8 || length > MaxFastPacketPayload {
		return Ignored
	}

	idx := a.pickSlotForStart(source)
	if idx == -1 {
		return Ignored
	}

	s := &a.sessions[idx]
	s.reset()
	s.state = sessionInProgress
	s.source = source
	s.sequenceID = sequenceID
	s.expectedSize = length
	s.lastFrameIndex = 0

	n := copy(s.buffer[:], data[2:])
	s.currentSize = n

	if s.currentSize >= s.expectedSize {
		return a.complete(s)
	}
	return FragmentConsumed
}

func (a *FastPacketAssembler) findInProgress(source uint8, sequenceID uint8) *fastPacketSession {
	for i := range a.sessions {
		s := &a.sessions[i]
		if s.state == sessionInProgress && s.source == source && s.sequenceID == sequenceID {
			return s
		}
	}
	return nil
}

func (a *FastPacketAssembler) continueSession(source, sequenceID, frameIndex uint8, data []byte) ProcessResult {
	s := a.findInProgress(source, sequenceID)
	if s == nil {
		return Ignored
	}
	if frameIndex != s.lastFrameIndex+1 {
		s.reset()
		return Ignored
	}
	if len(data) < 1 {
		return Ignored
	}

	remaining := s.expectedSize - s.currentSize
	take := len(data) - 1
	if take > remaining {
		take = remaining
	}
	if take > 7 {
		take = 7
	}
	if take < 0 {
		take = 0
	}
	n := copy(s.buffer[s.currentSize:], data[1:1+take])
	s.currentSize += n
	s.lastFrameIndex = frameIndex

	if s.currentSize >= s.expectedSize {
		return a.complete(s)
	}
	return FragmentConsumed
}

func (a *FastPacketAssembler) complete(s *fastPacketSession) ProcessResult {
	a.completed.length = s.currentSize
	copy(a.completed.buffer[:], s.buffer[:s.currentSize])
	s.reset()
	return MessageComplete
}
