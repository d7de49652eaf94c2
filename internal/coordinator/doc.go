// Package coordinator provides shared polling for bridge integrations.
//
// A coordinator wraps a refresh function, calls it on a fixed interval,
// and caches the latest snapshot. Entities read from the cache instead
// of hitting the backing service themselves, so one cloud request can
// feed an arbitrary number of sensors.
//
// Failure semantics: a failed refresh never clears the cache. The
// previous snapshot stays readable, LastUpdateSuccess turns false, and
// entities report themselves unavailable until a refresh succeeds again.
//
// Usage:
//
//	statusCoord := coordinator.New("aosmith-status", 30*time.Second,
//	    func(ctx context.Context) (map[string]aosmith.Device, error) {
//	        return client.Devices(ctx)
//	    })
//	if err := statusCoord.Start(ctx); err != nil {
//	    return err
//	}
//	defer statusCoord.Stop()
//
//	remove := statusCoord.AddListener(func() {
//	    // push fresh entity state to MQTT
//	})
//	defer remove()
package coordinator
