// Package bitbang implements an I2C controller on two GPIO lines.
//
// Both lines are driven open-drain style: a line is pulled low by switching
// it to an output at gpio.Low and released by switching it back to an input
// with the pull-up enabled. The bus therefore needs pull-ups (the internal
// ones are enough for short wires at 100kHz).
//
// Targets may stretch the clock; the controller waits for SCL to rise up to
// the stretch timeout and then fails with ErrTimeout.
package bitbang

import (
	"errors"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
)

var (
	// ErrBusBusy is returned by Start when SDA is held low by another device.
	ErrBusBusy = errors.New("bitbang: SDA held low, bus busy")
	// ErrTimeout is returned when a target stretches SCL for too long.
	ErrTimeout = errors.New("bitbang: SCL held low past stretch timeout")
	// ErrNotStarted is returned by Restart outside a transaction.
	ErrNotStarted = errors.New("bitbang: no transaction in progress")
)

// Line is the part of gpio.PinIO the controller needs.
type Line interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	Out(l gpio.Level) error
}

// Opts tunes the bus timing.
type Opts struct {
	// HalfPeriod is half an SCL cycle. 5µs gives 100kHz at most; the
	// actual rate is lower because of scheduling.
	HalfPeriod time.Duration
	// StretchTimeout bounds how long a target may hold SCL low.
	StretchTimeout time.Duration
}

// DefaultOpts is standard mode.
var DefaultOpts = Opts{
	HalfPeriod:     5 * time.Microsecond,
	StretchTimeout: 25 * time.Millisecond,
}

// Bus is an I2C controller implementing ports.I2CBus.
//
// It is not safe for concurrent use.
type Bus struct {
	sda, scl Line
	opts     Opts
	started  bool
}

// New returns a Bus on the given lines and releases both of them.
func New(sda, scl Line, opts *Opts) (*Bus, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	b := &Bus{sda: sda, scl: scl, opts: *opts}
	if err := multierr.Combine(b.release(sda), b.release(scl)); err != nil {
		return nil, err
	}
	return b, nil
}

// Start issues START and the address byte.
func (b *Bus) Start(addr ports.Addr, dir ports.Direction) error {
	if err := b.start(); err != nil {
		return err
	}
	return b.writeByte(byte(addr)<<1 | byte(dir))
}

// Restart issues a repeated START and the address byte.
func (b *Bus) Restart(addr ports.Addr, dir ports.Direction) error {
	if !b.started {
		return ErrNotStarted
	}
	return b.Start(addr, dir)
}

// WriteByte sends b MSB first and returns ports.ErrNACK when the target
// does not acknowledge.
func (b *Bus) WriteByte(v byte) error {
	return b.writeByte(v)
}

// ReadByte clocks in one byte and answers with ack.
func (b *Bus) ReadByte(ack ports.Ack) (byte, error) {
	var v byte
	for i := 0; i < 8; i++ {
		bit, err := b.readBit()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if bit {
			v |= 1
		}
	}
	// ACK is SDA low.
	if err := b.writeBit(!bool(ack)); err != nil {
		return 0, err
	}
	return v, nil
}

// Stop issues STOP and leaves both lines released.
func (b *Bus) Stop() error {
	if !b.started {
		return multierr.Combine(b.release(b.sda), b.release(b.scl))
	}
	b.started = false
	if err := b.drive(b.sda); err != nil {
		return err
	}
	b.delay()
	if err := b.sclHigh(); err != nil {
		return err
	}
	b.delay()
	if err := b.release(b.sda); err != nil {
		return err
	}
	b.delay()
	return nil
}

// Close releases both lines.
func (b *Bus) Close() error {
	b.started = false
	return multierr.Combine(b.release(b.sda), b.release(b.scl))
}

func (b *Bus) start() error {
	if err := b.release(b.sda); err != nil {
		return err
	}
	if b.started {
		b.delay()
	}
	if err := b.sclHigh(); err != nil {
		return err
	}
	b.delay()
	if b.sda.Read() == gpio.Low {
		return ErrBusBusy
	}
	// SDA falling while SCL is high.
	if err := b.drive(b.sda); err != nil {
		return err
	}
	b.delay()
	if err := b.drive(b.scl); err != nil {
		return err
	}
	b.started = true
	return nil
}

func (b *Bus) writeByte(v byte) error {
	for i := 7; i >= 0; i-- {
		if err := b.writeBit(v&(1<<i) != 0); err != nil {
			return err
		}
	}
	nack, err := b.readBit()
	if err != nil {
		return err
	}
	if nack {
		return ports.ErrNACK
	}
	return nil
}

func (b *Bus) writeBit(bit bool) error {
	var err error
	if bit {
		err = b.release(b.sda)
	} else {
		err = b.drive(b.sda)
	}
	if err != nil {
		return err
	}
	b.delay()
	if err := b.sclHigh(); err != nil {
		return err
	}
	b.delay()
	return b.drive(b.scl)
}

func (b *Bus) readBit() (bool, error) {
	if err := b.release(b.sda); err != nil {
		return false, err
	}
	b.delay()
	if err := b.sclHigh(); err != nil {
		return false, err
	}
	bit := b.sda.Read() == gpio.High
	b.delay()
	return bit, b.drive(b.scl)
}

// sclHigh releases SCL and waits for it to actually rise.
func (b *Bus) sclHigh() error {
	if err := b.release(b.scl); err != nil {
		return err
	}
	if b.scl.Read() == gpio.High {
		return nil
	}
	deadline := time.Now().Add(b.opts.StretchTimeout)
	for b.scl.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(b.opts.HalfPeriod)
	}
	return nil
}

func (b *Bus) release(l Line) error {
	return l.In(gpio.PullUp, gpio.NoEdge)
}

func (b *Bus) drive(l Line) error {
	return l.Out(gpio.Low)
}

func (b *Bus) delay() {
	if b.opts.HalfPeriod > 0 {
		time.Sleep(b.opts.HalfPeriod)
	}
}
