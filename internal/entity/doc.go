// Package entity defines the bridge's entity model and its MQTT surface.
//
// Integrations (A. O. Smith, SignalRGB) create entities and register
// them with the Registry. The Publisher then takes over:
//
//   - Home Assistant discovery configs are published retained, so
//     entities appear in HA automatically and survive HA restarts
//   - State and attribute topics are kept current as bridges refresh
//   - Commands arriving on hearth/{platform}/{object_id}/set are
//     dispatched to light entities off the MQTT handler goroutine
//   - State changes are recorded to SQLite history and numeric sensor
//     readings forwarded to InfluxDB
//
// Entities publish StateUnknown when their backing value is absent,
// which Home Assistant renders as "unknown" rather than dropping the
// entity.
//
// Lights use the HA MQTT JSON schema: state and effect travel together
// in one document on both the state and command topics.
package entity
