package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEntityReading writes a single numeric entity reading to InfluxDB.
//
// This is the primary method for recording sensor telemetry: hot water
// availability percentages, cumulative energy totals, and any other
// numeric state a bridge entity reports. The write is non-blocking;
// data is batched and sent asynchronously.
//
// Parameters:
//   - entityID: Unique identifier for the entity (e.g., "energy_usage_junction01")
//   - platform: The entity platform ("sensor", "light")
//   - measurement: The reading name (e.g., "hot_water_availability", "energy_kwh")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteEntityReading("hot_water_availability_junction01", "sensor",
//	    "hot_water_availability", 100)
//	client.WriteEntityReading("energy_usage_junction01", "sensor",
//	    "energy_kwh", 132.8)
func (c *Client) WriteEntityReading(entityID, platform, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"entity_readings",
		map[string]string{
			"entity_id":   entityID,
			"platform":    platform,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteEnergyReading writes a cumulative energy consumption reading.
//
// Energy totals are total-increasing: the value only ever grows (resets
// happen on the device side, not here). Recording them as a dedicated
// measurement keeps downstream queries simple.
//
// Parameters:
//   - entityID: Entity identifier
//   - energyKWh: Cumulative energy consumption in kWh
func (c *Client) WriteEnergyReading(entityID string, energyKWh float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"energy",
		map[string]string{
			"entity_id": entityID,
		},
		map[string]interface{}{
			"energy_kwh": energyKWh,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("bridge_stats",
//	    map[string]string{"bridge_id": "hearth-01"},
//	    map[string]interface{}{"entities": 5, "refresh_failures": 0})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., backfilled data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
