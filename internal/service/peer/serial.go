package peer

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaud is used when no speed is configured.
const DefaultBaud = 9600

// OpenSerial opens device at baud as a line Stream.
func OpenSerial(device string, baud int) (*Stream, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}

	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	return NewStream(port), nil
}
