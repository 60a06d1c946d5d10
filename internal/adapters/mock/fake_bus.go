package mock

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
)

// deviceAddr is where the simulated VEML6040 answers
const deviceAddr ports.Addr = 0x10

// Channel counts relative to green for the simulated light source
// (roughly a neutral white LED)
const (
	redRatio   = 0.9
	blueRatio  = 0.5
	whiteRatio = 2.1
)

// ErrNoTransaction is returned for byte transfers outside START..STOP
var ErrNoTransaction = errors.New("mock: no transaction in progress")

type phase int

const (
	idle phase = iota
	awaitCommand
	awaitData
	reading
)

// FakeBus simulates a VEML6040 sitting on an I2C bus
// This implements the ports.I2CBus interface
type FakeBus struct {
	mu sync.Mutex

	baseValue float64
	variation float64
	fixed     *[4]uint16
	present   bool

	conf  byte
	reg   byte
	phase phase
	out   [2]byte
	nout  int
}

// NewFakeBus creates a bus whose sensor sees realistic light levels
// baseValue: average lux (e.g., 500 for indoor lighting)
// variation: +/- range (e.g., 100 means 400-600)
func NewFakeBus(baseValue, variation float64) *FakeBus {
	return &FakeBus{
		baseValue: baseValue,
		variation: variation,
		present:   true,
	}
}

// SetCounts pins the raw red, green, blue and white counts
func (f *FakeBus) SetCounts(red, green, blue, white uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixed = &[4]uint16{red, green, blue, white}
}

// SetPresent makes the simulated sensor answer (or not) its address
func (f *FakeBus) SetPresent(present bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present = present
}

// Config returns the last byte written to the configuration register
func (f *FakeBus) Config() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conf
}

// Start addresses the simulated sensor
func (f *FakeBus) Start(addr ports.Addr, dir ports.Direction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.address(addr, dir)
}

// Restart changes direction without releasing the bus
func (f *FakeBus) Restart(addr ports.Addr, dir ports.Direction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == idle {
		return ErrNoTransaction
	}
	return f.address(addr, dir)
}

// WriteByte sets the command code, then the register payload
func (f *FakeBus) WriteByte(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.phase {
	case awaitCommand:
		f.reg = b
		f.phase = awaitData
		return nil
	case awaitData:
		// Only the configuration register is writable
		if f.reg != 0x00 {
			return ports.ErrNACK
		}
		f.conf = b
		return nil
	case idle:
		return ErrNoTransaction
	}
	return ports.ErrNACK
}

// ReadByte returns the selected register low byte first
func (f *FakeBus) ReadByte(ack ports.Ack) (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != reading {
		return 0, ErrNoTransaction
	}
	b := byte(0xFF)
	if f.nout < len(f.out) {
		b = f.out[f.nout]
	}
	f.nout++
	if ack == ports.NACK {
		f.phase = awaitCommand
	}
	return b, nil
}

// Stop ends the transaction
func (f *FakeBus) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = idle
	return nil
}

func (f *FakeBus) address(addr ports.Addr, dir ports.Direction) error {
	if !f.present || addr != deviceAddr {
		f.phase = idle
		return ports.ErrNACK
	}
	if dir == ports.Write {
		f.phase = awaitCommand
		return nil
	}

	v := f.register(f.reg)
	f.out = [2]byte{byte(v), byte(v >> 8)}
	f.nout = 0
	f.phase = reading
	return nil
}

// register returns the 16-bit content of a command code
func (f *FakeBus) register(reg byte) uint16 {
	if reg < 0x08 || reg > 0x0B {
		return 0
	}
	if f.fixed != nil {
		return f.fixed[reg-0x08]
	}

	// Random value around base ± variation
	lux := f.baseValue + (rand.Float64()-0.5)*2*f.variation
	if lux < 0 {
		lux = 0
	}
	green := lux / f.gain()
	switch reg {
	case 0x08:
		return clamp(green * redRatio)
	case 0x09:
		return clamp(green)
	case 0x0A:
		return clamp(green * blueRatio)
	}
	return clamp(green * whiteRatio)
}

// gain mirrors the sensor's lux per green count for the configured
// integration time
func (f *FakeBus) gain() float64 {
	it := (f.conf & 0x70) >> 4
	if it > 5 {
		it = 0
	}
	return 0.25168 / float64(uint(1)<<it)
}

func clamp(v float64) uint16 {
	if v >= math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
