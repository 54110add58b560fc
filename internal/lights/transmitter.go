// Package lights streams per-LED colors to an Adalight-compatible
// microcontroller over a serial port.
package lights

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/ambiglow/ambiglow/internal/logging"
)

var logger = logging.New("lights")

// ErrNotReady indicates Send was called before the transmitter reached
// the Ready state.
var ErrNotReady = errors.New("transmitter not ready")

// State is the transmitter connection lifecycle state.
type State int

const (
	Disconnected State = iota
	Connecting
	Handshaking
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Handshaking:
		return "handshaking"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	baudRate = 115200

	// Adalight header: 'A' 'd' 'a', hi/lo of ledCount-1, checksum.
	headerLen    = 6
	checksumSalt = 0x55

	// Marker the firmware prints once it has initialized.
	handshakeMarker = "Ada"
)

// AutoPort selects serial port auto-detection in Open.
const AutoPort = "auto"

// Transmitter frames color arrays per the Adalight protocol and writes
// them to a serial device. Not safe for concurrent use; the consumer
// loop is its only caller.
type Transmitter struct {
	ledCount int
	frame    []byte // header + payload, reused every send
	port     Porter
	state    State

	// Handshake tuning, shortened by tests.
	resetWait    time.Duration
	pollInterval time.Duration
	pollAttempts int
}

// NewTransmitter creates a transmitter for ledCount LEDs with the frame
// header precomputed; it depends only on the LED count and never changes
// for the run.
func NewTransmitter(ledCount int) *Transmitter {
	t := &Transmitter{
		ledCount:     ledCount,
		frame:        make([]byte, headerLen+ledCount*3),
		state:        Disconnected,
		resetWait:    2 * time.Second,
		pollInterval: 100 * time.Millisecond,
		pollAttempts: 30,
	}
	count := ledCount - 1
	hi := byte(count >> 8 & 0xFF)
	lo := byte(count & 0xFF)
	t.frame[0] = 'A'
	t.frame[1] = 'd'
	t.frame[2] = 'a'
	t.frame[3] = hi
	t.frame[4] = lo
	t.frame[5] = hi ^ lo ^ checksumSalt
	return t
}

// State returns the current lifecycle state.
func (t *Transmitter) State() State {
	return t.state
}

// Header returns a copy of the precomputed frame header.
func (t *Transmitter) Header() []byte {
	h := make([]byte, headerLen)
	copy(h, t.frame[:headerLen])
	return h
}

// Open connects to the named serial device, or auto-detects one when
// name is empty or AutoPort, then performs the firmware handshake.
func (t *Transmitter) Open(name string) error {
	t.state = Connecting

	if name == "" || name == AutoPort {
		ports, err := ListPorts()
		if err != nil {
			t.state = Disconnected
			return err
		}
		name, err = DetectPort(ports)
		if err != nil {
			t.state = Disconnected
			return err
		}
		logger.Infof("auto-detected serial port %s", name)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		t.state = Disconnected
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	logger.Infof("opened %s at %d baud", name, baudRate)

	t.Attach(port)
	return nil
}

// Attach takes an already-open port, runs the handshake, and moves the
// transmitter to Ready.
func (t *Transmitter) Attach(port Porter) {
	t.port = port
	t.state = Handshaking
	t.handshake()
	t.state = Ready
}

// handshake waits for the device to reset after the port opens, then
// polls a bounded number of reads for the firmware's init marker. A
// missing marker is not fatal; streaming proceeds best-effort.
func (t *Transmitter) handshake() {
	time.Sleep(t.resetWait)
	if err := t.port.ResetInputBuffer(); err != nil {
		logger.Debugf("could not reset input buffer: %v", err)
	}
	if err := t.port.SetReadTimeout(t.pollInterval); err != nil {
		logger.Debugf("could not set read timeout: %v", err)
	}

	var got strings.Builder
	buf := make([]byte, 64)
	for i := 0; i < t.pollAttempts; i++ {
		n, err := t.port.Read(buf)
		if err != nil {
			break
		}
		got.Write(buf[:n])
		if strings.Contains(got.String(), handshakeMarker) {
			logger.Info("device handshake received")
			return
		}
	}
	logger.Warn("no handshake from device, continuing anyway")
}

// Send writes one frame: the precomputed header plus 3 bytes per LED in
// R,G,B order, as a single write. I/O failures are returned to the
// caller, which decides whether they end the run.
func (t *Transmitter) Send(payload []byte) error {
	if t.state != Ready {
		return ErrNotReady
	}
	if len(payload) != t.ledCount*3 {
		return fmt.Errorf("payload length %d, want %d", len(payload), t.ledCount*3)
	}
	copy(t.frame[headerLen:], payload)
	n, err := t.port.Write(t.frame)
	if err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	if n != len(t.frame) {
		return fmt.Errorf("short serial write: %d of %d bytes", n, len(t.frame))
	}
	return nil
}

// Close blacks out the strip and releases the port. Failures during
// shutdown are suppressed so termination always completes. Idempotent.
func (t *Transmitter) Close() error {
	if t.port == nil || t.state == Closed {
		t.state = Closed
		return nil
	}
	if t.state == Ready {
		black := make([]byte, t.ledCount*3)
		if err := t.Send(black); err != nil {
			logger.Debugf("blackout frame failed: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	err := t.port.Close()
	t.state = Closed
	return err
}
