// Package aosmith bridges A. O. Smith cloud water heaters into hearth.
//
// Two coordinators share the cloud between all entities:
//
//   - Status (default 30s): one Devices call feeds every status sensor
//     (hot water availability %, operation mode) across all heaters
//   - Energy (default 30m): lifetime kWh totals per device, polled
//     slowly because cumulative totals barely move
//
// Sensors are thin reads over the coordinator snapshots. A device or
// field missing from a snapshot renders as "unknown"; a failed refresh
// keeps the previous snapshot and marks the affected sensors
// unavailable.
//
// Entity unique IDs are deterministic: <description_key>_<junction_id>
// for status sensors and energy_usage_<junction_id> for energy, so IDs
// never collide across heaters on one account.
package aosmith
