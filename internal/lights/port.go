package lights

import (
	"io"
	"time"
)

// Porter is the minimal serial port surface the transmitter needs.
// go.bug.st/serial.Port satisfies it; tests substitute a mock.
type Porter interface {
	io.ReadWriter
	io.Closer
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}
