package aosmith

import (
	"strconv"

	"github.com/hearthbridge/hearth/internal/coordinator"
	"github.com/hearthbridge/hearth/internal/entity"
)

// energyKey prefixes energy sensor unique IDs.
const energyKey = "energy_usage"

// EnergySensor exposes a device's cumulative lifetime energy use.
//
// The value comes from the dedicated energy coordinator, which polls far
// less often than the status coordinator because lifetime totals move
// slowly. Monotonicity is not validated here; the upstream total is
// trusted as-is.
type EnergySensor struct {
	coord      *coordinator.Coordinator[map[string]float64]
	junctionID string
}

// NewEnergySensor creates the energy sensor for one device.
func NewEnergySensor(coord *coordinator.Coordinator[map[string]float64], junctionID string) *EnergySensor {
	return &EnergySensor{coord: coord, junctionID: junctionID}
}

// UniqueID is deterministic in the junction ID.
func (s *EnergySensor) UniqueID() string { return energyKey + "_" + s.junctionID }

func (s *EnergySensor) ObjectID() string          { return s.UniqueID() }
func (s *EnergySensor) Name() string              { return "Energy usage" }
func (s *EnergySensor) Platform() entity.Platform { return entity.PlatformSensor }
func (s *EnergySensor) Key() string               { return energyKey }

// State returns the cumulative kWh total, or unknown when the device is
// missing from the energy snapshot.
func (s *EnergySensor) State() string {
	value, ok := s.coord.Data()[s.junctionID]
	if !ok {
		return entity.StateUnknown
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Attributes exposes the backing device identity.
func (s *EnergySensor) Attributes() map[string]any {
	return map[string]any{"junction_id": s.junctionID}
}

// Available tracks the energy coordinator's last refresh outcome.
func (s *EnergySensor) Available() bool { return s.coord.LastUpdateSuccess() }

// Description declares HA energy metadata: kWh, total_increasing, one
// decimal place.
func (s *EnergySensor) Description() entity.Description {
	return entity.Description{
		DeviceClass:  "energy",
		Unit:         "kWh",
		StateClass:   "total_increasing",
		Precision:    1,
		PrecisionSet: true,
	}
}
