// Package influxdb provides time-series storage for entity readings.
//
// Numeric readings from bridge entities (hot water availability, energy
// totals) are written here for long-term retention and dashboarding.
// SQLite keeps the recent state history for API queries; InfluxDB keeps
// the telemetry history for trends.
//
// Writes are non-blocking: points are batched by the client library and
// flushed on an interval, so a slow or unreachable InfluxDB never stalls
// a coordinator refresh. Async write failures surface through the
// SetOnError callback.
//
// InfluxDB is optional. When influxdb.enabled is false, Connect returns
// ErrDisabled and the bridge runs without it.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without telemetry storage
//	} else if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteEntityReading("energy_usage_junction01", "sensor", "energy_kwh", 132.8)
package influxdb
