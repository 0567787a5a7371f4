// Package socketcan binds n2k.CanBus to a Linux SocketCAN raw socket.
package socketcan

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wavesense/n2k"
)

const (
	canRaw = 1

	// canIDMask is the bitmask for bits 29-31 of the SocketCAN frame's ID
	// word (ERR/RTR/EFF flags), cleared before the value is handed to n2k.
	canIDMask = uint32(0b111) << 29
	// canIDERRFlag marks an error frame (0 = data frame, 1 = error message).
	canIDERRFlag = uint32(1 << 29)
	// canIDRTRFlag marks a remote transmission request frame.
	canIDRTRFlag = uint32(1 << 30)
	// canIDEFFFlag marks an extended (29-bit) identifier.
	canIDEFFFlag = uint32(1 << 31)

	// pollInterval bounds how long a single blocking Read/Write may run
	// before Send/Recv re-check ctx; it is the socket-level SO_RCVTIMEO/
	// SO_SNDTIMEO set on the fd.
	pollInterval = 100 * time.Millisecond
)

// Connection is a SocketCAN raw socket bound to one network interface,
// satisfying n2k.CanBus.
type Connection struct {
	socketFD int
	timeNow  func() time.Time
}

// Open binds a raw CAN socket to ifName (e.g. "can0" or "vcan0").
func Open(ifName string) (*Connection, error) {
	ifi, err := net.InterfaceByName(ifName)
	if err != nil {
		return nil, fmt.Errorf("socketcan: bad interface: %w", err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, canRaw)
	if err != nil {
		return nil, fmt.Errorf("socketcan: create socket: %w", err)
	}

	addr := &unix.SockaddrCAN{Ifindex: ifi.Index}
	if err = unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("socketcan: bind socket: %w", err)
	}

	c := &Connection{socketFD: fd, timeNow: time.Now}
	if err := c.setSocketTimeout(unix.SO_RCVTIMEO, pollInterval); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("socketcan: set read timeout: %w", err)
	}
	if err := c.setSocketTimeout(unix.SO_SNDTIMEO, pollInterval); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("socketcan: set send timeout: %w", err)
	}
	return c, nil
}

// Close releases the underlying socket.
func (c *Connection) Close() error {
	return unix.Close(c.socketFD)
}

func (c *Connection) setSocketTimeout(opt int, timeout time.Duration) error {
	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	return unix.SetsockoptTimeval(c.socketFD, unix.SOL_SOCKET, opt, &tv)
}

func isContinuableSocketErr(err error) bool {
	// EWOULDBLOCK: SO_RCVTIMEO/SO_SNDTIMEO elapsed with no data ready.
	// EINTR: a signal interrupted the blocking syscall.
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EINTR)
}

// Send implements n2k.CanBus. It retries the socket write, bounded by
// pollInterval slices, until ctx is done.
func (c *Connection) Send(ctx context.Context, frame n2k.CanFrame) error {
	raw := make([]byte, 16)

	canID := uint32(frame.ID) | canIDEFFFlag
	binary.LittleEndian.PutUint32(raw[0:4], canID)
	raw[4] = frame.Len
	copy(raw[8:], frame.Payload())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := unix.Write(c.socketFD, raw)
		if err == nil {
			return nil
		}
		if !isContinuableSocketErr(err) {
			return fmt.Errorf("socketcan: write: %w", err)
		}
	}
}

// Recv implements n2k.CanBus. It retries the socket read, bounded by
// pollInterval slices, until a data frame arrives or ctx is done.
func (c *Connection) Recv(ctx context.Context) (n2k.CanFrame, error) {
	raw := make([]byte, 16)

	for {
		if err := ctx.Err(); err != nil {
			return n2k.CanFrame{}, err
		}
		_, err := unix.Read(c.socketFD, raw)
		if err != nil {
			if isContinuableSocketErr(err) {
				continue
			}
			return n2k.CanFrame{}, fmt.Errorf("socketcan: read: %w", err)
		}

		canID := binary.LittleEndian.Uint32(raw[0:4])
		if canID&canIDRTRFlag != 0 || canID&canIDERRFlag != 0 {
			continue
		}

		f := n2k.CanFrame{
			ID:   n2k.ParseCanID(canID &^ canIDMask),
			Len:  raw[4],
			Time: c.timeNow(),
		}
		copy(f.Data[:], raw[8:8+f.Len])
		return f, nil
	}
}
