package veml6040

import (
	"fmt"
	"time"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
)

// Address is the fixed 7-bit I2C address of the VEML6040.
const Address ports.Addr = 0x10

// Command codes. The configuration register is write-only for this driver;
// the colour registers are read-only 16-bit little-endian counts.
const (
	cmdConf byte = 0x00
)

// Channel is the command code selecting one colour data register.
type Channel byte

// Colour data registers.
const (
	Red   Channel = 0x08
	Green Channel = 0x09
	Blue  Channel = 0x0A
	White Channel = 0x0B
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case White:
		return "white"
	}
	return fmt.Sprintf("Channel(%#04x)", byte(c))
}

// IntegrationTime is the IT field, bits 6:4 of the configuration register.
// Each step doubles exposure and halves the lux per count.
type IntegrationTime byte

// Possible integration times.
const (
	IT40ms   IntegrationTime = 0x00
	IT80ms   IntegrationTime = 0x10
	IT160ms  IntegrationTime = 0x20
	IT320ms  IntegrationTime = 0x30
	IT640ms  IntegrationTime = 0x40
	IT1280ms IntegrationTime = 0x50
)

const itMask = 0x70

// Trigger is the TRIG field, bit 2. Setting it in force mode starts one
// measurement cycle.
type Trigger byte

// Trigger values.
const (
	TriggerDisable Trigger = 0x00
	TriggerEnable  Trigger = 0x04
)

// Mode is the AF field, bit 1.
type Mode byte

// Measurement modes.
const (
	// Auto measures continuously.
	Auto Mode = 0x00
	// Force measures once per trigger.
	Force Mode = 0x02
)

const modeMask = 0x02

// Shutdown is the SD field, bit 0.
type Shutdown byte

// Shutdown values. Note that the power-on state of the chip is disabled.
const (
	ShutdownEnable  Shutdown = 0x00 // sensor running
	ShutdownDisable Shutdown = 0x01 // sensor powered down
)

const sdMask = 0x01

// Configuration is the byte written to the configuration register.
type Configuration byte

// NewConfiguration composes a configuration from exactly one value per field.
func NewConfiguration(it IntegrationTime, trig Trigger, mode Mode, sd Shutdown) Configuration {
	return Configuration(byte(it) | byte(trig) | byte(mode) | byte(sd))
}

// IntegrationTime returns the IT field.
func (c Configuration) IntegrationTime() IntegrationTime {
	return IntegrationTime(c & itMask)
}

// Mode returns the AF field.
func (c Configuration) Mode() Mode {
	return Mode(c & modeMask)
}

// ShutDown reports whether the SD field powers the sensor down.
func (c Configuration) ShutDown() bool {
	return c&sdMask != 0
}

// WithTrigger returns c with the TRIG bit set.
func (c Configuration) WithTrigger() Configuration {
	return c | Configuration(TriggerEnable)
}

// WithoutTrigger returns c with the TRIG bit cleared.
func (c Configuration) WithoutTrigger() Configuration {
	return c &^ Configuration(TriggerEnable)
}

// WithShutdown returns c with the SD field replaced.
func (c Configuration) WithShutdown(sd Shutdown) Configuration {
	return c&^sdMask | Configuration(sd)
}

// SettleTime is how long to wait after a trigger before reading channels.
// It is the integration time plus a quarter, i.e. 800ms at 640ms.
func (c Configuration) SettleTime() time.Duration {
	d, ok := c.IntegrationTime().Duration()
	if !ok {
		return 0
	}
	return d + d/4
}

func (c Configuration) String() string {
	mode := "auto"
	if c.Mode() == Force {
		mode = "force"
	}
	return fmt.Sprintf("IT=%s mode=%s trig=%t sd=%t", c.IntegrationTime(), mode, c&Configuration(TriggerEnable) != 0, c.ShutDown())
}

// Lux converts a green count to lux using the gain of c's integration time.
// It returns UndefinedLux and ErrUnmappedGain when the IT field holds a
// reserved value.
func (c Configuration) Lux(green uint16) (float64, error) {
	g, ok := c.IntegrationTime().Gain()
	if !ok {
		return UndefinedLux, fmt.Errorf("veml6040: IT bits %#04x: %w", byte(c&itMask), ErrUnmappedGain)
	}
	return float64(green) * g, nil
}

// UndefinedLux is returned together with ErrUnmappedGain.
const UndefinedLux = -1.0

// Green sensitivity in lux per count, from the application note.
var gains = map[IntegrationTime]float64{
	IT40ms:   0.25168,
	IT80ms:   0.12584,
	IT160ms:  0.06292,
	IT320ms:  0.03146,
	IT640ms:  0.01573,
	IT1280ms: 0.007865,
}

// Gain returns the lux per green count for it.
func (it IntegrationTime) Gain() (float64, bool) {
	g, ok := gains[it]
	return g, ok
}

// Duration returns the exposure time of it.
func (it IntegrationTime) Duration() (time.Duration, bool) {
	if _, ok := gains[it]; !ok {
		return 0, false
	}
	return (40 * time.Millisecond) << (it >> 4), true
}

func (it IntegrationTime) String() string {
	if d, ok := it.Duration(); ok {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("IntegrationTime(%#04x)", byte(it))
}

// ParseIntegrationTime parses "40ms" through "1280ms".
func ParseIntegrationTime(s string) (IntegrationTime, error) {
	for it := range gains {
		if it.String() == s {
			return it, nil
		}
	}
	return 0, fmt.Errorf("veml6040: invalid integration time %q", s)
}

// ParseMode parses "auto" or "force".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return Auto, nil
	case "force":
		return Force, nil
	}
	return 0, fmt.Errorf("veml6040: invalid measurement mode %q", s)
}
