// Package api provides the HTTP and WebSocket interface to the bridge.
//
// The REST surface is read-only: it exposes the entity registry, entity
// state snapshots, and recorded state history under /api/v1. Commands
// flow through MQTT, not HTTP, so Home Assistant remains the single
// control path.
//
// The /ws endpoint upgrades to a WebSocket that relays entity events
// (state changes and discovery announcements) to subscribed clients.
// Clients subscribe to channels by event type:
//
//	{"type": "subscribe", "payload": {"channels": ["entity_state_changed"]}}
//
// The Hub satisfies entity.EventSink, so the MQTT publisher feeds it
// directly.
package api
