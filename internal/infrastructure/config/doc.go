// Package config provides configuration loading for hearth.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// HEARTH_* environment variable overrides. The loaded configuration is
// validated before use, so downstream packages can assume required fields
// are present and in range.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
//
// Integration sections (integrations.aosmith, integrations.signalrgb) are
// only validated when the integration is enabled, so a minimal config can
// omit them entirely.
package config
