package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/bitbang"
	grpcAdapter "github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/grpc"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/sqlite"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/veml6040"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/color-service/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("starting color service")

	// Read configuration from environment
	config, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repository
	var repo domain.ReadingRepository
	switch config.RepoType {
	case "sqlite":
		r, err := sqlite.NewReadingRepository(config.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", config.DBPath).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", config.DBPath).Msg("initialized SQLite repository")
	default:
		repo = memory.NewReadingRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize sensor
	var bus ports.I2CBus
	switch config.SensorType {
	case "veml6040":
		b, err := openBus(config)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open I2C bus")
		}
		bus = b
		log.Info().
			Str("sda", config.SDAPin).
			Str("scl", config.SCLPin).
			Dur("half_period", config.HalfPeriod).
			Msg("initialized bit-banged I2C bus")
	default:
		bus = mock.NewFakeBus(500.0, 100.0) // 500±100 lux (indoor lighting)
		log.Info().Msg("initialized simulated VEML6040")
	}

	sensor, err := openSensor(ctx, bus, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize VEML6040")
	}
	defer func() {
		if err := sensor.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close sensor")
		}
	}()

	// Initialize gRPC handler
	handler := grpcAdapter.NewLightServiceHandler(repo, sensor)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if config.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(config.TLSCert, config.TLSKey, config.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	// Create gRPC server
	grpcServer := grpc.NewServer(serverOpts...)
	grpcAdapter.RegisterLightServiceServer(grpcServer, handler)

	// Enable gRPC reflection for grpcurl (list, describe and invoke)
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", config.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().Str("port", config.Port).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start background recorder
	recorder := ports.NewRecorder(sensor, repo, config.RecordInterval, config.Retention)
	go recorder.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	cancel() // Stop recorder
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

// openBus initializes the host drivers and bit-bangs I2C on the configured pins
func openBus(config Config) (*bitbang.Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	sda := gpioreg.ByName(config.SDAPin)
	if sda == nil {
		return nil, fmt.Errorf("unknown SDA pin %q", config.SDAPin)
	}
	scl := gpioreg.ByName(config.SCLPin)
	if scl == nil {
		return nil, fmt.Errorf("unknown SCL pin %q", config.SCLPin)
	}
	opts := bitbang.DefaultOpts
	opts.HalfPeriod = config.HalfPeriod
	return bitbang.New(sda, scl, &opts)
}

// openSensor waits for the VEML6040 to answer and writes the configuration
func openSensor(ctx context.Context, bus ports.I2CBus, config Config) (*veml6040.Sensor, error) {
	dev := veml6040.New(bus)
	if err := veml6040.WaitForPresence(ctx, dev, config.PresenceAttempts, config.PresenceInterval); err != nil {
		return nil, err
	}

	cfg := veml6040.NewConfiguration(config.IntegrationTime, veml6040.TriggerDisable, config.Mode, veml6040.ShutdownEnable)
	if err := dev.SetConfiguration(cfg); err != nil {
		return nil, fmt.Errorf("write configuration %v: %w", cfg, err)
	}
	log.Info().Stringer("config", cfg).Msg("VEML6040 configured")

	return veml6040.NewSensor(dev), nil
}

// Config holds application configuration
type Config struct {
	Port           string
	RecordInterval time.Duration
	Retention      time.Duration // readings older than this are deleted
	RepoType       string        // "memory" | "sqlite"
	DBPath         string        // SQLite database file path (used when RepoType=sqlite)
	SensorType     string        // "mock" | "veml6040"

	SDAPin           string
	SCLPin           string
	HalfPeriod       time.Duration
	IntegrationTime  veml6040.IntegrationTime
	Mode             veml6040.Mode
	PresenceAttempts uint64
	PresenceInterval time.Duration

	TLSCert string // path to this service's certificate
	TLSKey  string // path to this service's private key
	TLSCA   string // path to the CA certificate
}

// loadConfig reads configuration from environment variables
func loadConfig() (Config, error) {
	config := Config{
		Port:       getenv("PORT", "50051"),
		RepoType:   getenv("REPO_TYPE", "memory"),
		DBPath:     getenv("DB_PATH", "./color.db"),
		SensorType: getenv("SENSOR_TYPE", "mock"),
		SDAPin:     getenv("I2C_SDA_PIN", "GPIO2"),
		SCLPin:     getenv("I2C_SCL_PIN", "GPIO3"),
		TLSCert:    os.Getenv("TLS_CERT"),
		TLSKey:     os.Getenv("TLS_KEY"),
		TLSCA:      os.Getenv("TLS_CA"),
	}

	var err error
	if config.RecordInterval, err = cast.ToDurationE(getenv("RECORD_INTERVAL", "5m")); err != nil {
		return Config{}, fmt.Errorf("RECORD_INTERVAL: %w", err)
	}
	if config.RecordInterval <= 0 {
		return Config{}, fmt.Errorf("RECORD_INTERVAL: must be positive, got %v", config.RecordInterval)
	}
	if config.Retention, err = cast.ToDurationE(getenv("RETENTION", "720h")); err != nil {
		return Config{}, fmt.Errorf("RETENTION: %w", err)
	}
	if config.Retention <= 0 {
		return Config{}, fmt.Errorf("RETENTION: must be positive, got %v", config.Retention)
	}
	if config.HalfPeriod, err = cast.ToDurationE(getenv("I2C_HALF_PERIOD", "5us")); err != nil {
		return Config{}, fmt.Errorf("I2C_HALF_PERIOD: %w", err)
	}
	if config.PresenceAttempts, err = cast.ToUint64E(getenv("PRESENCE_ATTEMPTS", "10")); err != nil {
		return Config{}, fmt.Errorf("PRESENCE_ATTEMPTS: %w", err)
	}
	if config.PresenceInterval, err = cast.ToDurationE(getenv("PRESENCE_INTERVAL", "1s")); err != nil {
		return Config{}, fmt.Errorf("PRESENCE_INTERVAL: %w", err)
	}
	if config.IntegrationTime, err = veml6040.ParseIntegrationTime(getenv("INTEGRATION_TIME", "160ms")); err != nil {
		return Config{}, fmt.Errorf("INTEGRATION_TIME: %w", err)
	}
	if config.Mode, err = veml6040.ParseMode(getenv("MEASUREMENT_MODE", "auto")); err != nil {
		return Config{}, fmt.Errorf("MEASUREMENT_MODE: %w", err)
	}

	return config, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
