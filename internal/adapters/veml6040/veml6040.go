// Package veml6040 drives a Vishay VEML6040 RGBW colour sensor over an
// I2C-like bus.
//
// The device has one write-only configuration register and four read-only
// 16-bit colour registers. Correlated colour temperature and ambient light
// are derived from the raw counts; the ambient light gain depends on the
// integration time last written to the device, so Dev caches the
// configuration it has successfully applied.
//
// Dev is not safe for concurrent use. Sensor wraps a Dev with a mutex for
// callers that share one device.
//
// Datasheets
//
// https://www.vishay.com/docs/84276/veml6040.pdf
//
// Application note "Designing the VEML6040 into an Application":
// https://www.vishay.com/docs/84331/designingveml6040.pdf
package veml6040

import (
	"errors"
	"fmt"
	"math"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
)

var (
	// ErrBus wraps every transport failure. The driver never retries.
	ErrBus = errors.New("veml6040: bus transaction failed")

	// ErrDivisionFault is returned when the CCT power law is undefined for
	// the counts read, most commonly because green is zero.
	ErrDivisionFault = errors.New("veml6040: CCT undefined for channel counts")

	// ErrUnmappedGain is returned when the cached integration time has no
	// gain constant.
	ErrUnmappedGain = errors.New("veml6040: no gain for integration time")
)

// Kelvin is a colour temperature.
type Kelvin int

// Dev is a handle to one VEML6040.
type Dev struct {
	bus  ports.I2CBus
	addr ports.Addr
	cfg  Configuration
}

// New returns a Dev talking to the sensor at Address on bus.
//
// No bus traffic is generated; call CheckPresence and SetConfiguration.
func New(bus ports.I2CBus) *Dev {
	return &Dev{bus: bus, addr: Address}
}

// Configuration returns the last configuration the device accepted.
func (d *Dev) Configuration() Configuration {
	return d.cfg
}

// CheckPresence addresses the sensor without payload.
func (d *Dev) CheckPresence() error {
	err := d.bus.Start(d.addr, ports.Write)
	// The STOP outcome does not matter; the START already told us.
	_ = d.bus.Stop()
	if err != nil {
		return busError("presence", err)
	}
	return nil
}

// SetConfiguration writes cfg to the configuration register.
//
// The cached configuration only changes when the whole write succeeds.
// If only the STOP fails the device has usually latched cfg already, so the
// cache lags the device until the next successful write.
func (d *Dev) SetConfiguration(cfg Configuration) error {
	if err := d.bus.Start(d.addr, ports.Write); err != nil {
		return d.abort("configure", err)
	}
	if err := d.bus.WriteByte(cmdConf); err != nil {
		return d.abort("configure", err)
	}
	if err := d.bus.WriteByte(byte(cfg)); err != nil {
		return d.abort("configure", err)
	}
	if err := d.bus.Stop(); err != nil {
		return busError("configure", err)
	}
	d.cfg = cfg
	return nil
}

// ReadChannel reads one colour register.
func (d *Dev) ReadChannel(ch Channel) (uint16, error) {
	op := "read " + ch.String()
	if err := d.bus.Start(d.addr, ports.Write); err != nil {
		return 0, d.abort(op, err)
	}
	if err := d.bus.WriteByte(byte(ch)); err != nil {
		return 0, d.abort(op, err)
	}
	if err := d.bus.Restart(d.addr, ports.Read); err != nil {
		return 0, d.abort(op, err)
	}
	lo, err := d.bus.ReadByte(ports.ACK)
	if err != nil {
		return 0, d.abort(op, err)
	}
	// Last byte of the burst is not acknowledged.
	hi, err := d.bus.ReadByte(ports.NACK)
	if err != nil {
		return 0, d.abort(op, err)
	}
	if err := d.bus.Stop(); err != nil {
		return 0, busError(op, err)
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Red returns the red count.
func (d *Dev) Red() (uint16, error) {
	return d.ReadChannel(Red)
}

// Green returns the green count.
func (d *Dev) Green() (uint16, error) {
	return d.ReadChannel(Green)
}

// Blue returns the blue count.
func (d *Dev) Blue() (uint16, error) {
	return d.ReadChannel(Blue)
}

// White returns the unfiltered count.
func (d *Dev) White() (uint16, error) {
	return d.ReadChannel(White)
}

// CCT reads red, green and blue and returns the correlated colour
// temperature.
func (d *Dev) CCT() (Kelvin, error) {
	r, err := d.Red()
	if err != nil {
		return 0, err
	}
	g, err := d.Green()
	if err != nil {
		return 0, err
	}
	b, err := d.Blue()
	if err != nil {
		return 0, err
	}
	return ComputeCCT(r, g, b)
}

// AmbientLight reads green and converts it to lux with the gain of the
// cached integration time. On ErrUnmappedGain the value is UndefinedLux.
func (d *Dev) AmbientLight() (float64, error) {
	g, err := d.Green()
	if err != nil {
		return 0, err
	}
	return d.cfg.Lux(g)
}

// TriggerMeasurement starts one measurement in force mode by rewriting the
// cached configuration with TRIG set. Channels are valid after
// Configuration().SettleTime().
func (d *Dev) TriggerMeasurement() error {
	return d.SetConfiguration(d.cfg.WithTrigger())
}

// ComputeCCT applies the application note's empirical formula:
//
//	ratio = (R - B) / G + 0.5
//	CCT   = 4278.6 * ratio^-1.2455
//
// truncated to whole kelvin. The power law is only defined for a positive
// ratio; ErrDivisionFault is returned otherwise and when g is zero.
func ComputeCCT(r, g, b uint16) (Kelvin, error) {
	if g == 0 {
		return 0, fmt.Errorf("%w: green is zero", ErrDivisionFault)
	}
	ratio := (float64(r)-float64(b))/float64(g) + 0.5
	if ratio <= 0 {
		return 0, fmt.Errorf("%w: ratio %g", ErrDivisionFault, ratio)
	}
	cct := 4278.6 * math.Pow(ratio, -1.2455)
	if math.IsInf(cct, 0) || math.IsNaN(cct) || cct > math.MaxInt32 {
		return 0, fmt.Errorf("%w: ratio %g", ErrDivisionFault, ratio)
	}
	return Kelvin(cct), nil
}

// abort leaves the bus idle after a failed step.
func (d *Dev) abort(op string, err error) error {
	_ = d.bus.Stop()
	return busError(op, err)
}

func busError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBus, op, err)
}
