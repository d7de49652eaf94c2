package aosmith

import (
	"strconv"

	"github.com/hearthbridge/hearth/internal/coordinator"
	"github.com/hearthbridge/hearth/internal/entity"
)

// ValueFn extracts a sensor value from a device snapshot.
// The second return reports presence: false renders as "unknown".
type ValueFn func(Device) (string, bool)

// SensorDescription declares one sensor kind stamped out per device.
type SensorDescription struct {
	// Key is the description key; unique IDs are Key + "_" + junction ID.
	Key string

	// Name is the human-readable name prefix.
	Name string

	// Presentation metadata forwarded into the discovery config.
	DeviceClass  string
	Unit         string
	StateClass   string
	Precision    int
	PrecisionSet bool
	Icon         string

	// Value extracts this sensor's reading from a device snapshot.
	Value ValueFn
}

// sensorDescriptions are the status sensors created for every device.
var sensorDescriptions = []SensorDescription{
	{
		Key:  "hot_water_availability",
		Name: "Hot water availability",
		Unit: "%",
		Icon: "mdi:water-boiler",
		Value: func(d Device) (string, bool) {
			if d.Status.HotWaterStatus == nil {
				return "", false
			}
			return strconv.Itoa(*d.Status.HotWaterStatus), true
		},
	},
	{
		Key:  "operation_mode",
		Name: "Operation mode",
		Icon: "mdi:water-boiler-auto",
		Value: func(d Device) (string, bool) {
			if d.Status.Mode == "" {
				return "", false
			}
			return d.Status.Mode, true
		},
	},
}

// Sensor is a status sensor backed by the shared status coordinator.
//
// State is recomputed on every read from the coordinator's latest
// snapshot; the sensor itself caches nothing.
type Sensor struct {
	coord      *coordinator.Coordinator[map[string]Device]
	junctionID string
	desc       SensorDescription
}

// NewSensor creates a status sensor for one (description, device) pair.
func NewSensor(coord *coordinator.Coordinator[map[string]Device], junctionID string, desc SensorDescription) *Sensor {
	return &Sensor{coord: coord, junctionID: junctionID, desc: desc}
}

// UniqueID is deterministic in (description key, junction ID), so IDs
// never collide across devices on the same account.
func (s *Sensor) UniqueID() string { return s.desc.Key + "_" + s.junctionID }

func (s *Sensor) ObjectID() string          { return s.UniqueID() }
func (s *Sensor) Name() string              { return s.desc.Name }
func (s *Sensor) Platform() entity.Platform { return entity.PlatformSensor }
func (s *Sensor) Key() string               { return s.desc.Key }

// State extracts the value from the latest snapshot. Missing devices and
// absent values both render as unknown rather than errors.
func (s *Sensor) State() string {
	d, ok := s.coord.Data()[s.junctionID]
	if !ok {
		return entity.StateUnknown
	}
	value, ok := s.desc.Value(d)
	if !ok {
		return entity.StateUnknown
	}
	return value
}

// Attributes exposes the backing device identity.
func (s *Sensor) Attributes() map[string]any {
	attrs := map[string]any{"junction_id": s.junctionID}
	if d, ok := s.coord.Data()[s.junctionID]; ok {
		attrs["device_name"] = d.Name
		attrs["model"] = d.Model
	}
	return attrs
}

// Available tracks the coordinator's last refresh outcome.
func (s *Sensor) Available() bool { return s.coord.LastUpdateSuccess() }

// Description returns presentation metadata for discovery.
func (s *Sensor) Description() entity.Description {
	return entity.Description{
		DeviceClass:  s.desc.DeviceClass,
		Unit:         s.desc.Unit,
		StateClass:   s.desc.StateClass,
		Precision:    s.desc.Precision,
		PrecisionSet: s.desc.PrecisionSet,
		Icon:         s.desc.Icon,
	}
}
