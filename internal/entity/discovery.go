package entity

import (
	"encoding/json"
	"fmt"

	"github.com/hearthbridge/hearth/internal/infrastructure/mqtt"
)

// DiscoveryConfig is a Home Assistant MQTT discovery payload.
//
// Field names use the HA abbreviation scheme so payloads stay small on
// the wire. Lights use the JSON schema so state and effect travel in a
// single document.
type DiscoveryConfig struct {
	Name                string   `json:"name"`
	UniqueID            string   `json:"uniq_id"`
	StateTopic          string   `json:"stat_t"`
	CommandTopic        string   `json:"cmd_t,omitempty"`
	AvailabilityTopic   string   `json:"avty_t"`
	PayloadAvailable    string   `json:"pl_avail,omitempty"`
	PayloadNotAvailable string   `json:"pl_not_avail,omitempty"`
	JSONAttributesTopic string   `json:"json_attr_t,omitempty"`
	DeviceClass         string   `json:"dev_cla,omitempty"`
	UnitOfMeasurement   string   `json:"unit_of_meas,omitempty"`
	StateClass          string   `json:"stat_cla,omitempty"`
	DisplayPrecision    *int     `json:"sug_dsp_prc,omitempty"`
	Icon                string   `json:"ic,omitempty"`
	Schema              string   `json:"schema,omitempty"`
	Effect              bool     `json:"effect,omitempty"`
	EffectList          []string `json:"fx_list,omitempty"`
	Device              *Device  `json:"dev,omitempty"`
}

// Device groups all bridge entities under one device entry in the
// Home Assistant UI.
type Device struct {
	Identifiers  []string `json:"ids"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"mf,omitempty"`
	Model        string   `json:"mdl,omitempty"`
	SwVersion    string   `json:"sw,omitempty"`
}

// Discovery builds discovery topics and payloads for registered entities.
type Discovery struct {
	prefix   string
	bridgeID string
	device   *Device
	topics   mqtt.Topics
}

// NewDiscovery creates a discovery builder.
//
// Parameters:
//   - prefix: Discovery topic prefix (mqtt.discovery_prefix, default "homeassistant")
//   - bridgeID: Bridge identifier used in discovery topic paths
//   - bridgeName: Device name shown in the Home Assistant UI
//   - version: Bridge software version
func NewDiscovery(prefix, bridgeID, bridgeName, version string) *Discovery {
	return &Discovery{
		prefix:   prefix,
		bridgeID: bridgeID,
		device: &Device{
			Identifiers:  []string{bridgeID},
			Name:         bridgeName,
			Manufacturer: "hearth",
			Model:        "hearth bridge",
			SwVersion:    version,
		},
	}
}

// Config returns the discovery topic and JSON payload for an entity.
func (d *Discovery) Config(e Entity) (topic string, payload []byte, err error) {
	platform := string(e.Platform())
	objectID := e.ObjectID()

	cfg := DiscoveryConfig{
		Name:                e.Name(),
		UniqueID:            e.UniqueID(),
		StateTopic:          d.topics.EntityState(platform, objectID),
		AvailabilityTopic:   d.topics.BridgeAvailability(),
		PayloadAvailable:    mqtt.AvailabilityOnline,
		PayloadNotAvailable: mqtt.AvailabilityOffline,
		JSONAttributesTopic: d.topics.EntityAttributes(platform, objectID),
		Device:              d.device,
	}

	if desc, ok := e.(Describer); ok {
		meta := desc.Description()
		cfg.DeviceClass = meta.DeviceClass
		cfg.UnitOfMeasurement = meta.Unit
		cfg.StateClass = meta.StateClass
		cfg.Icon = meta.Icon
		if meta.PrecisionSet {
			precision := meta.Precision
			cfg.DisplayPrecision = &precision
		}
	}

	if light, ok := e.(Light); ok {
		cfg.CommandTopic = d.topics.EntityCommand(platform, objectID)
		cfg.Schema = "json"
		cfg.Effect = true
		cfg.EffectList = light.EffectList()
	}

	payload, err = json.Marshal(cfg)
	if err != nil {
		return "", nil, fmt.Errorf("marshalling discovery config for %s: %w", e.UniqueID(), err)
	}

	topic = d.topics.Discovery(d.prefix, platform, d.bridgeID, objectID)
	return topic, payload, nil
}
