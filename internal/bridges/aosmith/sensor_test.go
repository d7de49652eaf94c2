package aosmith

import (
	"context"
	"testing"
	"time"

	"github.com/hearthbridge/hearth/internal/coordinator"
	"github.com/hearthbridge/hearth/internal/entity"
)

// newStatusCoordinator starts a coordinator serving a fixed snapshot.
func newStatusCoordinator(t *testing.T, devices map[string]Device) *coordinator.Coordinator[map[string]Device] {
	t.Helper()

	c := coordinator.New("status-test", time.Hour,
		func(ctx context.Context) (map[string]Device, error) {
			return devices, nil
		})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("starting coordinator: %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

func newEnergyCoordinator(t *testing.T, usage map[string]float64) *coordinator.Coordinator[map[string]float64] {
	t.Helper()

	c := coordinator.New("energy-test", time.Hour,
		func(ctx context.Context) (map[string]float64, error) {
			return usage, nil
		})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("starting coordinator: %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

func hotWaterDescription(t *testing.T) SensorDescription {
	t.Helper()
	for _, desc := range sensorDescriptions {
		if desc.Key == "hot_water_availability" {
			return desc
		}
	}
	t.Fatal("hot_water_availability description not found")
	return SensorDescription{}
}

func TestSensorState(t *testing.T) {
	coord := newStatusCoordinator(t, map[string]Device{
		"junction01": {
			JunctionID: "junction01",
			Name:       "Water Heater",
			Model:      "HPTS-50",
			Status:     DeviceStatus{HotWaterStatus: intPtr(80), Mode: "HEAT_PUMP"},
		},
		"junction02": {
			JunctionID: "junction02",
			// No hot water status reported.
		},
	})
	desc := hotWaterDescription(t)

	t.Run("extracts value from snapshot", func(t *testing.T) {
		s := NewSensor(coord, "junction01", desc)
		if got := s.State(); got != "80" {
			t.Errorf("State() = %q, want 80", got)
		}
		if !s.Available() {
			t.Error("Available() = false, want true")
		}
	})

	t.Run("absent value renders unknown", func(t *testing.T) {
		s := NewSensor(coord, "junction02", desc)
		if got := s.State(); got != entity.StateUnknown {
			t.Errorf("State() = %q, want %q", got, entity.StateUnknown)
		}
	})

	t.Run("missing device renders unknown", func(t *testing.T) {
		s := NewSensor(coord, "junction99", desc)
		if got := s.State(); got != entity.StateUnknown {
			t.Errorf("State() = %q, want %q", got, entity.StateUnknown)
		}
	})

	t.Run("attributes carry device identity", func(t *testing.T) {
		s := NewSensor(coord, "junction01", desc)
		attrs := s.Attributes()
		if attrs["junction_id"] != "junction01" {
			t.Errorf("junction_id = %v, want junction01", attrs["junction_id"])
		}
		if attrs["model"] != "HPTS-50" {
			t.Errorf("model = %v, want HPTS-50", attrs["model"])
		}
	})
}

func TestSensorUniqueIDs(t *testing.T) {
	coord := newStatusCoordinator(t, nil)

	// Deterministic: same inputs, same ID.
	a := NewSensor(coord, "junction01", hotWaterDescription(t))
	b := NewSensor(coord, "junction01", hotWaterDescription(t))
	if a.UniqueID() != b.UniqueID() {
		t.Errorf("unique IDs differ for identical inputs: %q vs %q", a.UniqueID(), b.UniqueID())
	}
	if a.UniqueID() != "hot_water_availability_junction01" {
		t.Errorf("UniqueID() = %q, want hot_water_availability_junction01", a.UniqueID())
	}

	// No collisions across devices or descriptions.
	seen := make(map[string]bool)
	for _, junction := range []string{"junction01", "junction02"} {
		for _, desc := range sensorDescriptions {
			id := NewSensor(coord, junction, desc).UniqueID()
			if seen[id] {
				t.Errorf("duplicate unique ID %q", id)
			}
			seen[id] = true
		}
		id := NewEnergySensor(newEnergyCoordinator(t, nil), junction).UniqueID()
		if seen[id] {
			t.Errorf("duplicate unique ID %q", id)
		}
		seen[id] = true
	}
}

func TestEnergySensor(t *testing.T) {
	coord := newEnergyCoordinator(t, map[string]float64{"junction01": 132.8})

	t.Run("formats cumulative total", func(t *testing.T) {
		s := NewEnergySensor(coord, "junction01")
		if got := s.State(); got != "132.8" {
			t.Errorf("State() = %q, want 132.8", got)
		}
	})

	t.Run("missing device renders unknown", func(t *testing.T) {
		s := NewEnergySensor(coord, "junction99")
		if got := s.State(); got != entity.StateUnknown {
			t.Errorf("State() = %q, want %q", got, entity.StateUnknown)
		}
	})

	t.Run("declares energy metadata", func(t *testing.T) {
		s := NewEnergySensor(coord, "junction01")
		desc := s.Description()
		if desc.DeviceClass != "energy" || desc.Unit != "kWh" || desc.StateClass != "total_increasing" {
			t.Errorf("Description() = %+v, want energy/kWh/total_increasing", desc)
		}
		if !desc.PrecisionSet || desc.Precision != 1 {
			t.Errorf("Precision = %d (set=%v), want 1", desc.Precision, desc.PrecisionSet)
		}
	})

	t.Run("unique ID shape", func(t *testing.T) {
		s := NewEnergySensor(coord, "junction01")
		if s.UniqueID() != "energy_usage_junction01" {
			t.Errorf("UniqueID() = %q, want energy_usage_junction01", s.UniqueID())
		}
	})
}
