package n2k

import "time"

// CanFrame is a classic CAN 2.0B extended frame: a 29-bit identifier plus up
// to 8 data bytes. CAN FD is out of scope.
type CanFrame struct {
	ID   CanID
	Data [8]byte
	// Len is the data length code, 0-8.
	Len uint8
	// Time is when the frame was read from (or queued to) the bus. Left
	// zero for frames constructed purely in memory (e.g. by the Fast
	// Packet builder) until a transport adapter stamps it.
	Time time.Time
}

// Payload returns the meaningful prefix of Data.
func (f CanFrame) Payload() []byte {
	if int(f.Len) > len(f.Data) {
		return f.Data[:]
	}
	return f.Data[:f.Len]
}
