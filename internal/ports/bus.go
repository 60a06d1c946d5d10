package ports

import "errors"

// Addr is a 7-bit I2C target address
type Addr uint8

// Direction selects the transfer direction sent with the address byte
type Direction uint8

const (
	// Write is the R/W bit cleared: controller transmits
	Write Direction = 0
	// Read is the R/W bit set: target transmits
	Read Direction = 1
)

// Ack is the framing bit the controller sends after receiving a byte
type Ack bool

const (
	// ACK asks the target for another byte
	ACK Ack = true
	// NACK terminates a read burst; the last byte read must use it
	NACK Ack = false
)

// ErrNACK is returned by a bus when the target does not acknowledge
var ErrNACK = errors.New("i2c: NACK received")

// I2CBus is the controller side of an I2C-like bus.
// This is a PORT - adapters (bit-banged GPIO, simulated device) implement it.
//
// Every method blocks until the electrical handshake completes or fails.
// Failures carry no detail beyond the error itself; implementations bound
// their own blocking time.
type I2CBus interface {
	// Start issues a START condition followed by the address byte
	Start(addr Addr, dir Direction) error

	// Restart issues a repeated START without releasing the bus
	Restart(addr Addr, dir Direction) error

	// WriteByte transmits one byte and checks the target's acknowledge
	WriteByte(b byte) error

	// ReadByte receives one byte and answers with ack
	ReadByte(ack Ack) (byte, error)

	// Stop issues a STOP condition and releases the bus
	Stop() error
}
