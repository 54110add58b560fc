package lights

import (
	"errors"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrNoPorts indicates no serial ports were found during detection.
var ErrNoPorts = errors.New("no serial ports found")

// detectKeywords mark USB-serial adapters and microcontroller boards
// commonly used for LED strips.
var detectKeywords = []string{
	"Arduino",
	"CH340",
	"USB-SERIAL",
	"USB Serial",
	"ttyUSB",
	"ttyACM",
	"wchusbserial",
}

// PortInfo describes one enumerated serial port.
type PortInfo struct {
	Device      string
	Description string
}

// ListPorts enumerates the serial ports currently attached to the
// system, with USB product descriptions where available.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		desc := d.Product
		if desc == "" && d.IsUSB {
			desc = fmt.Sprintf("USB %s:%s", d.VID, d.PID)
		}
		ports = append(ports, PortInfo{Device: d.Name, Description: desc})
	}
	return ports, nil
}

// DetectPort picks the device to use from the enumerated ports: the
// first whose name or description matches a known keyword, else the
// first port, else ErrNoPorts.
func DetectPort(ports []PortInfo) (string, error) {
	for _, p := range ports {
		for _, kw := range detectKeywords {
			if strings.Contains(p.Description, kw) || strings.Contains(p.Device, kw) {
				return p.Device, nil
			}
		}
	}
	if len(ports) > 0 {
		return ports[0].Device, nil
	}
	return "", ErrNoPorts
}
