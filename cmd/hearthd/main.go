// Hearth - Home Assistant MQTT bridge
//
// hearthd connects devices that Home Assistant cannot reach natively
// (the A. O. Smith cloud, SignalRGB's local HTTP API) and exposes them
// as MQTT discovery entities. Home Assistant sees ordinary sensors and
// lights; hearthd does the protocol translation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hearthbridge/hearth/internal/api"
	"github.com/hearthbridge/hearth/internal/bridges/aosmith"
	"github.com/hearthbridge/hearth/internal/bridges/signalrgb"
	"github.com/hearthbridge/hearth/internal/entity"
	"github.com/hearthbridge/hearth/internal/infrastructure/config"
	"github.com/hearthbridge/hearth/internal/infrastructure/database"
	"github.com/hearthbridge/hearth/internal/infrastructure/influxdb"
	"github.com/hearthbridge/hearth/internal/infrastructure/logging"
	"github.com/hearthbridge/hearth/internal/infrastructure/mqtt"
	"github.com/hearthbridge/hearth/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting hearth",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database and run migrations
	database.MigrationsFS = migrations.FS
	database.MigrationsDir = "."

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	historyRepo := entity.NewSQLiteStateHistoryRepository(db.DB)

	// Entity registry: bridges register into it, the publisher and API
	// read from it.
	registry := entity.NewRegistry()
	registry.SetLogger(log)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// WebSocket hub relays entity events to API clients
	hub := api.NewHub(cfg.WebSocket, log)

	// MQTT publisher: discovery announcements, state topics, commands
	discovery := entity.NewDiscovery(cfg.MQTT.DiscoveryPrefix, cfg.Bridge.ID, cfg.Bridge.Name, version)
	publisherCfg := entity.PublisherConfig{
		Registry:  registry,
		Broker:    mqttClient,
		Discovery: discovery,
		History:   historyRepo,
		Events:    hub,
		QoS:       byte(cfg.MQTT.QoS),
		Logger:    log,
	}
	if influxClient != nil {
		publisherCfg.Readings = influxClient
	}
	publisher := entity.NewPublisher(publisherCfg)
	if startErr := publisher.Start(ctx); startErr != nil {
		return fmt.Errorf("starting entity publisher: %w", startErr)
	}
	log.Info("entity publisher started", "discovery_prefix", cfg.MQTT.DiscoveryPrefix)

	// Start A. O. Smith bridge (if enabled)
	if cfg.Integrations.AOSmith.Enabled {
		aoClient := aosmith.NewClient(
			cfg.Integrations.AOSmith.Email,
			cfg.Integrations.AOSmith.Password,
			cfg.Integrations.AOSmith.BaseURL,
		)
		aoBridge, setupErr := aosmith.Setup(ctx, cfg.Integrations.AOSmith, aoClient, registry, publisher, log)
		if setupErr != nil {
			return fmt.Errorf("starting A. O. Smith bridge: %w", setupErr)
		}
		defer func() {
			log.Info("stopping A. O. Smith bridge")
			aoBridge.Stop()
		}()
	} else {
		log.Info("A. O. Smith bridge disabled")
	}

	// Start SignalRGB bridge (if enabled)
	if cfg.Integrations.SignalRGB.Enabled {
		rgbClient := signalrgb.NewClient(
			cfg.Integrations.SignalRGB.Host,
			cfg.Integrations.SignalRGB.Port,
		)
		rgbBridge, setupErr := signalrgb.Setup(ctx, cfg.Integrations.SignalRGB, rgbClient, registry, publisher, log)
		if setupErr != nil {
			return fmt.Errorf("starting SignalRGB bridge: %w", setupErr)
		}
		defer func() {
			log.Info("stopping SignalRGB bridge")
			rgbBridge.Stop()
		}()
	} else {
		log.Info("SignalRGB bridge disabled")
	}

	// Start HTTP API server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Registry: registry,
		History:  historyRepo,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal",
		"entities", registry.Count())

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, bridges, InfluxDB (if enabled), MQTT, database.

	log.Info("hearth stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// influxClient may be nil when InfluxDB is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Bridge health is verified during Setup: the A. O. Smith bridge
	// requires a successful initial refresh before registering entities.

	return nil
}
