package mqtt

import "fmt"

// Topic prefixes for hearth's MQTT surface.
//
// Entity topics use the flat scheme: hearth/{platform}/{object_id}/{suffix}
// where platform is a Home Assistant platform name (sensor, light) and
// object_id is the entity's unique identifier.
const (
	// TopicPrefix is the base for all hearth topics.
	TopicPrefix = "hearth"

	// TopicPrefixBridge is the base for bridge-level topics.
	TopicPrefixBridge = "hearth/bridge"
)

// Topics provides builders for hearth MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.EntityState("light", "signalrgb_gamingpc_light")
//	// Returns: "hearth/light/signalrgb_gamingpc_light/state"
type Topics struct{}

// =============================================================================
// Entity Topics
// =============================================================================

// EntityState returns the topic an entity's state is published on.
//
// Example: hearth/sensor/hot_water_availability_junction01/state
func (Topics) EntityState(platform, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/state", TopicPrefix, platform, objectID)
}

// EntityAttributes returns the topic an entity's extra attributes are
// published on as a JSON document.
//
// Example: hearth/light/signalrgb_gamingpc_light/attributes
func (Topics) EntityAttributes(platform, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/attributes", TopicPrefix, platform, objectID)
}

// EntityCommand returns the topic commands for an entity arrive on.
// Only commandable platforms (light) subscribe to this.
//
// Example: hearth/light/signalrgb_gamingpc_light/set
func (Topics) EntityCommand(platform, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/set", TopicPrefix, platform, objectID)
}

// Discovery returns the Home Assistant MQTT discovery config topic for an
// entity. The prefix is configurable (mqtt.discovery_prefix, default
// "homeassistant").
//
// Example: homeassistant/sensor/hearth-01/energy_usage_junction01/config
func (Topics) Discovery(prefix, platform, bridgeID, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", prefix, platform, bridgeID, objectID)
}

// =============================================================================
// Bridge Topics
// =============================================================================

// BridgeAvailability returns the bridge availability (LWT) topic.
//
// Example: hearth/bridge/availability
func (Topics) BridgeAvailability() string {
	return fmt.Sprintf("%s/availability", TopicPrefixBridge)
}

// BridgeEvent returns the topic for bridge-level events.
//
// Example: hearth/bridge/event/entity_state_changed
func (Topics) BridgeEvent(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixBridge, eventType)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllEntityCommands returns a pattern matching commands for all entities.
//
// Pattern: hearth/+/+/set
func (Topics) AllEntityCommands() string {
	return fmt.Sprintf("%s/+/+/set", TopicPrefix)
}

// AllEntityStates returns a pattern matching all entity state topics.
//
// Pattern: hearth/+/+/state
func (Topics) AllEntityStates() string {
	return fmt.Sprintf("%s/+/+/state", TopicPrefix)
}

// AllTopics returns a pattern matching all hearth topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: hearth/#
func (Topics) AllTopics() string {
	return "hearth/#"
}
