package veml6040

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/domain"
)

// Sensor implements ports.LightSensor on top of a configured Dev.
// It serialises access so the recorder and API handlers can share it.
type Sensor struct {
	mu  sync.Mutex
	dev *Dev
}

// NewSensor wraps dev. dev should already be configured.
func NewSensor(dev *Dev) *Sensor {
	return &Sensor{dev: dev}
}

// ReadLux returns the ambient light level
func (s *Sensor) ReadLux(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.measure(ctx); err != nil {
		return 0, err
	}
	lux, err := s.dev.AmbientLight()
	if err != nil {
		return 0, unavailable(err)
	}
	return lux, nil
}

// ReadSample reads all four channels and derives CCT and lux.
// A CCT that cannot be derived (e.g. green is zero in darkness) is
// reported as zero rather than failing the sample.
func (s *Sensor) ReadSample(ctx context.Context) (domain.ColorSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sample domain.ColorSample
	if err := s.measure(ctx); err != nil {
		return sample, err
	}

	for _, c := range []struct {
		ch  Channel
		dst *uint16
	}{
		{Red, &sample.Red},
		{Green, &sample.Green},
		{Blue, &sample.Blue},
		{White, &sample.White},
	} {
		v, err := s.dev.ReadChannel(c.ch)
		if err != nil {
			return domain.ColorSample{}, unavailable(err)
		}
		*c.dst = v
	}

	lux, err := s.dev.Configuration().Lux(sample.Green)
	if err != nil {
		return domain.ColorSample{}, unavailable(err)
	}
	sample.Lux = lux

	cct, err := ComputeCCT(sample.Red, sample.Green, sample.Blue)
	switch {
	case errors.Is(err, ErrDivisionFault):
		log.Debug().Err(err).Msg("colour temperature undefined for sample")
	case err != nil:
		return domain.ColorSample{}, unavailable(err)
	default:
		sample.CCT = int(cct)
	}

	log.Debug().
		Uint16("red", sample.Red).
		Uint16("green", sample.Green).
		Uint16("blue", sample.Blue).
		Uint16("white", sample.White).
		Int("cct", sample.CCT).
		Float64("lux", sample.Lux).
		Msg("veml6040 sample")

	return sample, nil
}

// Close powers the sensor down and releases the bus if it can be closed.
// A failed power-down is logged, not returned.
func (s *Sensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.dev.Configuration()
	if err := s.dev.SetConfiguration(cfg.WithoutTrigger().WithShutdown(ShutdownDisable)); err != nil {
		log.Warn().Err(err).Msg("failed to shut down veml6040")
	}
	if c, ok := s.dev.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// measure triggers a measurement and waits for it in force mode.
// In auto mode the registers always hold the latest cycle.
func (s *Sensor) measure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := s.dev.Configuration()
	if cfg.Mode() != Force {
		return nil
	}
	if err := s.dev.TriggerMeasurement(); err != nil {
		return unavailable(err)
	}

	t := time.NewTimer(cfg.SettleTime())
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrSensorUnavailable, err)
}
