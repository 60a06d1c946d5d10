package domain

import (
	"time"
)

// ColorSample is one set of raw channel counts with the values derived from them.
// CCT is zero when the sensor could not derive a colour temperature (e.g. darkness).
type ColorSample struct {
	Red   uint16
	Green uint16
	Blue  uint16
	White uint16
	CCT   int
	Lux   float64
}

// LightReading represents a single light measurement
// This is pure domain logic - no database, no gRPC, just business concepts
type LightReading struct {
	ID        int64
	Lux       float64
	CCT       int
	Red       uint16
	Green     uint16
	Blue      uint16
	White     uint16
	Timestamp time.Time
}

// NewLightReading creates a lux-only reading with validation
func NewLightReading(lux float64) (*LightReading, error) {
	// Business rule: Lux cannot be negative
	if lux < 0 {
		return nil, ErrInvalidLux
	}

	return &LightReading{
		Lux:       lux,
		Timestamp: time.Now(),
	}, nil
}

// NewLightReadingFromSample creates a reading carrying the full colour sample
func NewLightReadingFromSample(s ColorSample) (*LightReading, error) {
	reading, err := NewLightReading(s.Lux)
	if err != nil {
		return nil, err
	}
	if s.CCT < 0 {
		return nil, ErrInvalidCCT
	}

	reading.CCT = s.CCT
	reading.Red = s.Red
	reading.Green = s.Green
	reading.Blue = s.Blue
	reading.White = s.White
	return reading, nil
}

// HasColor reports whether the reading carries a colour temperature
func (r *LightReading) HasColor() bool {
	return r.CCT > 0
}

// IsLowLight returns true if reading indicates low light conditions
// Business logic: < 200 lux is considered low light
func (r *LightReading) IsLowLight() bool {
	return r.Lux < 200
}

// IsMediumLight returns true if reading indicates medium light
// Business logic: 200-2500 lux is medium light
func (r *LightReading) IsMediumLight() bool {
	return r.Lux >= 200 && r.Lux < 2500
}

// IsHighLight returns true if reading indicates high light
// Business logic: >= 2500 lux is high light
func (r *LightReading) IsHighLight() bool {
	return r.Lux >= 2500
}

// LightCategory returns human-readable category
func (r *LightReading) LightCategory() string {
	if r.IsLowLight() {
		return "Low Light"
	} else if r.IsMediumLight() {
		return "Medium Light"
	}
	return "High Light"
}

// ColorCategory buckets the colour temperature
// Business logic: < 3500K warm, 3500-5000K neutral, >= 5000K cool
func (r *LightReading) ColorCategory() string {
	switch {
	case !r.HasColor():
		return "Unknown"
	case r.CCT < 3500:
		return "Warm"
	case r.CCT < 5000:
		return "Neutral"
	}
	return "Cool"
}
