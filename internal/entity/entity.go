package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Platform identifies the Home Assistant platform an entity belongs to.
type Platform string

// Supported platforms.
const (
	PlatformSensor Platform = "sensor"
	PlatformLight  Platform = "light"
)

// StateUnknown is published when an entity has no value for its state,
// for example when the backing device is missing the expected field.
const StateUnknown = "unknown"

// Light state strings for the MQTT JSON schema.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// Entity is the common surface every bridge entity exposes.
//
// Implementations must be safe for concurrent use: the publisher reads
// state from MQTT handler goroutines while bridge coordinators update it.
type Entity interface {
	// UniqueID returns a stable identifier unique across the bridge.
	// It never changes for the lifetime of the backing device.
	UniqueID() string

	// ObjectID returns the MQTT-safe identifier used in topic paths.
	// Usually equal to UniqueID.
	ObjectID() string

	// Name returns the human-readable entity name.
	Name() string

	// Platform returns the Home Assistant platform for this entity.
	Platform() Platform

	// State returns the current state as a string. Implementations
	// return StateUnknown when the underlying value is absent.
	State() string

	// Attributes returns extra state attributes, or nil if none.
	Attributes() map[string]any

	// Available reports whether the entity's data source is healthy.
	Available() bool
}

// Describer is implemented by entities that carry Home Assistant
// presentation metadata for their discovery config.
type Describer interface {
	Description() Description
}

// Description holds presentation metadata for discovery configs.
// Zero-value fields are omitted from the published payload.
type Description struct {
	// DeviceClass is the HA device class (e.g., "energy").
	DeviceClass string

	// Unit is the unit of measurement (e.g., "%", "kWh").
	Unit string

	// StateClass is the HA state class ("measurement", "total_increasing").
	StateClass string

	// Precision is the suggested display precision in decimal places.
	// Only applied when PrecisionSet is true, since 0 is a valid precision.
	Precision    int
	PrecisionSet bool

	// Icon overrides the default HA icon (e.g., "mdi:water-boiler").
	Icon string
}

// Light is the capability surface for controllable light entities.
type Light interface {
	Entity

	// IsOn reports whether the light is currently on.
	IsOn() bool

	// Effect returns the currently active effect, or "" if unknown.
	Effect() string

	// EffectList returns the effects this light supports.
	EffectList() []string

	// TurnOn turns the light on, restoring the last active effect
	// where one is known.
	TurnOn(ctx context.Context) error

	// TurnOff turns the light off.
	TurnOff(ctx context.Context) error

	// ApplyEffect activates the named effect. Turning on an off light
	// as a side effect is allowed.
	ApplyEffect(ctx context.Context, name string) error
}

// Updatable is implemented by entities that refresh their own state by
// polling the backing device, rather than being fed by a coordinator.
type Updatable interface {
	// Update refreshes the entity's local state from the device.
	Update(ctx context.Context) error
}

// Event types broadcast to WebSocket clients and the bridge event topic.
const (
	EventStateChanged = "entity_state_changed"
	EventDiscovered   = "entity_discovered"
)

// Event is a bridge event describing something that happened to an entity.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	Platform   Platform       `json:"platform"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewEvent builds an event snapshot for the given entity.
func NewEvent(eventType string, e Entity) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   e.UniqueID(),
		Platform:   e.Platform(),
		State:      e.State(),
		Attributes: e.Attributes(),
		Timestamp:  time.Now().UTC(),
	}
}
