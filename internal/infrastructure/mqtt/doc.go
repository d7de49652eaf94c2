// Package mqtt provides MQTT client connectivity for hearth.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for availability tracking
//   - Connection health monitoring
//
// # Architecture
//
// hearth exposes its entities to Home Assistant over MQTT discovery. The
// broker decouples the bridge from Home Assistant itself:
//
//	hearth ↔ MQTT Broker ↔ Home Assistant
//
// Entity state and attribute topics are retained so Home Assistant picks
// up current values immediately after a restart. The bridge availability
// topic doubles as the LWT target, so every hearth entity flips to
// unavailable if the bridge crashes.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all entity commands
//	err = client.Subscribe(mqtt.Topics{}.AllEntityCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish state
//	topic := mqtt.Topics{}.EntityState("sensor", "energy_usage_junction01")
//	client.PublishRetained(topic, []byte("132.8"))
package mqtt
