package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/domain"
)

// Recorder handles periodic sensor reading and storage
type Recorder struct {
	sensor    LightSensor
	repo      domain.ReadingRepository
	interval  time.Duration
	retention time.Duration
}

// NewRecorder creates a new background recorder
// Readings older than retention are deleted once a day
func NewRecorder(sensor LightSensor, repo domain.ReadingRepository, interval, retention time.Duration) *Recorder {
	return &Recorder{
		sensor:    sensor,
		repo:      repo,
		interval:  interval,
		retention: retention,
	}
}

// Start begins periodic sensor reading
// This runs in a goroutine until context is cancelled
func (r *Recorder) Start(ctx context.Context) {
	log.Info().
		Dur("interval", r.interval).
		Dur("retention", r.retention).
		Msg("starting background recorder")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	// Record immediately on start
	r.recordOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.recordOnce(ctx)

		case <-cleanupTicker.C:
			n, err := r.repo.DeleteOldReadings(ctx, r.retention)
			if err != nil {
				log.Error().Err(err).Msg("failed to delete old readings")
			} else {
				log.Info().Int64("deleted", n).Dur("retention", r.retention).Msg("deleted old readings")
			}

		case <-ctx.Done():
			log.Info().Msg("stopping background recorder")
			return
		}
	}
}

// recordOnce reads sensor and saves to repository
func (r *Recorder) recordOnce(ctx context.Context) {
	log.Debug().Msg("reading sensor")

	sample, err := r.sensor.ReadSample(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read sensor")
		return
	}

	reading, err := domain.NewLightReadingFromSample(sample)
	if err != nil {
		log.Error().Err(err).Msg("failed to create reading")
		return
	}

	if err := r.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save reading")
		return
	}

	log.Info().
		Float64("lux", reading.Lux).
		Int("cct", reading.CCT).
		Str("category", reading.LightCategory()).
		Str("color", reading.ColorCategory()).
		Msg("recorded light reading")
}
