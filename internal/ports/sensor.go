package ports

import (
	"context"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/domain"
)

// LightSensor defines how to read light levels
// This is a PORT - adapters (VEML6040 over any I2CBus) implement it
type LightSensor interface {
	// ReadLux returns current light level in lux
	ReadLux(ctx context.Context) (float64, error)

	// ReadSample returns all colour channels with derived CCT and lux
	ReadSample(ctx context.Context) (domain.ColorSample, error)

	// Close releases any resources
	Close() error
}
