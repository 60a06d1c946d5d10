package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
)

// LightServiceHandler implements the gRPC LightService
type LightServiceHandler struct {
	repo   domain.ReadingRepository
	sensor ports.LightSensor
}

// NewLightServiceHandler creates a new gRPC handler
func NewLightServiceHandler(repo domain.ReadingRepository, sensor ports.LightSensor) *LightServiceHandler {
	return &LightServiceHandler{
		repo:   repo,
		sensor: sensor,
	}
}

// GetCurrentLight returns the most recent reading
func (h *LightServiceHandler) GetCurrentLight(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log.Info().Msg("GetCurrentLight called")

	reading, err := h.repo.GetLatestReading(ctx)
	if errors.Is(err, domain.ErrReadingNotFound) {
		// No readings yet - read sensor now
		log.Info().Msg("no readings in database, reading sensor")

		sample, err := h.sensor.ReadSample(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to read sensor")
			return nil, sensorStatus(err)
		}

		reading, err = domain.NewLightReadingFromSample(sample)
		if err != nil {
			log.Error().Err(err).Msg("failed to create reading")
			return nil, status.Error(codes.Internal, "failed to create reading")
		}

		// Save for next time
		if err := h.repo.SaveReading(ctx, reading); err != nil {
			log.Error().Err(err).Msg("failed to save reading")
			// Don't fail - we still have the reading
		}
	} else if err != nil {
		log.Error().Err(err).Msg("failed to get latest reading")
		return nil, status.Error(codes.Internal, "failed to get reading")
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"reading": structpb.NewStructValue(readingToStruct(reading)),
	}}, nil
}

// GetHistory returns readings within [start_time, end_time) with statistics
func (h *LightServiceHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	startTime := int64(req.GetFields()["start_time"].GetNumberValue())
	endTime := int64(req.GetFields()["end_time"].GetNumberValue())

	log.Info().
		Int64("start", startTime).
		Int64("end", endTime).
		Msg("GetHistory called")

	if endTime < startTime {
		return nil, status.Error(codes.InvalidArgument, "end_time before start_time")
	}

	readings, err := h.repo.GetReadingsInRange(ctx, time.Unix(startTime, 0), time.Unix(endTime, 0))
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		return nil, status.Error(codes.Internal, "failed to get readings")
	}

	values := make([]*structpb.Value, len(readings))
	for i, r := range readings {
		values[i] = structpb.NewStructValue(readingToStruct(r))
	}

	stats := calculateStatistics(readings)

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"readings":    structpb.NewListValue(&structpb.ListValue{Values: values}),
		"average_lux": structpb.NewNumberValue(stats.average),
		"min_lux":     structpb.NewNumberValue(stats.min),
		"max_lux":     structpb.NewNumberValue(stats.max),
		"average_cct": structpb.NewNumberValue(stats.averageCCT),
	}}, nil
}

// RecordReading manually records a reading (useful for testing)
func (h *LightServiceHandler) RecordReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, ok := req.GetFields()["lux"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "lux is required")
	}
	lux := v.GetNumberValue()
	log.Info().Float64("lux", lux).Msg("RecordReading called")

	reading, err := domain.NewLightReading(lux)
	if err != nil {
		log.Error().Err(err).Msg("invalid lux value")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save reading")
		return nil, status.Error(codes.Internal, "failed to save reading")
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"reading": structpb.NewStructValue(readingToStruct(reading)),
	}}, nil
}

// ReadColor samples all channels now
func (h *LightServiceHandler) ReadColor(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log.Info().Msg("ReadColor called")

	sample, err := h.sensor.ReadSample(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read sensor")
		return nil, sensorStatus(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"red":   structpb.NewNumberValue(float64(sample.Red)),
		"green": structpb.NewNumberValue(float64(sample.Green)),
		"blue":  structpb.NewNumberValue(float64(sample.Blue)),
		"white": structpb.NewNumberValue(float64(sample.White)),
		"cct":   structpb.NewNumberValue(float64(sample.CCT)),
		"lux":   structpb.NewNumberValue(sample.Lux),
	}}, nil
}

// sensorStatus maps sensor failures to a gRPC status
func sensorStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, domain.ErrSensorUnavailable):
		return status.Error(codes.Unavailable, "sensor unavailable")
	}
	return status.Error(codes.Internal, "failed to read sensor")
}

// readingToStruct converts domain model to protobuf
func readingToStruct(r *domain.LightReading) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":             structpb.NewNumberValue(float64(r.ID)),
		"lux":            structpb.NewNumberValue(r.Lux),
		"cct":            structpb.NewNumberValue(float64(r.CCT)),
		"red":            structpb.NewNumberValue(float64(r.Red)),
		"green":          structpb.NewNumberValue(float64(r.Green)),
		"blue":           structpb.NewNumberValue(float64(r.Blue)),
		"white":          structpb.NewNumberValue(float64(r.White)),
		"timestamp":      structpb.NewNumberValue(float64(r.Timestamp.Unix())),
		"category":       structpb.NewStringValue(r.LightCategory()),
		"color_category": structpb.NewStringValue(r.ColorCategory()),
	}}
}

// statistics holds calculated statistics
type statistics struct {
	average    float64
	min        float64
	max        float64
	averageCCT float64
}

// calculateStatistics computes stats for a set of readings
// The CCT average only covers readings that carry a colour temperature
func calculateStatistics(readings []*domain.LightReading) statistics {
	if len(readings) == 0 {
		return statistics{}
	}

	var sum, cctSum float64
	var cctCount int
	min := readings[0].Lux
	max := readings[0].Lux

	for _, r := range readings {
		sum += r.Lux
		if r.Lux < min {
			min = r.Lux
		}
		if r.Lux > max {
			max = r.Lux
		}
		if r.HasColor() {
			cctSum += float64(r.CCT)
			cctCount++
		}
	}

	stats := statistics{
		average: sum / float64(len(readings)),
		min:     min,
		max:     max,
	}
	if cctCount > 0 {
		stats.averageCCT = cctSum / float64(cctCount)
	}
	return stats
}
