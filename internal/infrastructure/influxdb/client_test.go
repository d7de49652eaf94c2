package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/hearthbridge/hearth/internal/infrastructure/config"
)

// These tests cover the no-server paths: disabled config, disconnected
// clients, and nil-safety. Write batching and flush behaviour require a
// live InfluxDB and are covered by integration testing.

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() with disabled config error = %v, want %v", err, ErrDisabled)
	}
}

func TestHealthCheckNotConnected(t *testing.T) {
	c := &Client{}

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestWriteSkippedWhenDisconnected(t *testing.T) {
	c := &Client{}

	// Must not panic despite nil writeAPI: IsConnected short-circuits.
	c.WriteEntityReading("energy_usage_junction01", "sensor", "energy_kwh", 132.8)
	c.WriteEnergyReading("energy_usage_junction01", 132.8)
	c.WritePoint("bridge_stats", nil, map[string]interface{}{"entities": 2})
}

func TestFlushSafety(t *testing.T) {
	c := &Client{}

	// Nil writeAPI and disconnected state must both be no-ops.
	c.Flush()
}

func TestCloseNilClient(t *testing.T) {
	c := &Client{}

	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v, want nil", err)
	}
}
