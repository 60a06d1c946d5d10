package domain

import (
	"context"
	"time"
)

// ReadingRepository stores light and colour readings.
// Implemented by the memory and sqlite adapters.
type ReadingRepository interface {
	// SaveReading persists a reading and assigns its ID
	SaveReading(ctx context.Context, reading *LightReading) error

	// GetReading returns ErrReadingNotFound for an unknown ID
	GetReading(ctx context.Context, id int64) (*LightReading, error)

	// GetReadingsInRange returns readings in [start, end), oldest first
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*LightReading, error)

	// GetLatestReading returns ErrReadingNotFound when nothing is stored
	GetLatestReading(ctx context.Context) (*LightReading, error)

	// DeleteOldReadings removes readings older than olderThan and reports
	// how many were removed
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) (int64, error)
}
