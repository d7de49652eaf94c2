package entity

import (
	"encoding/json"
	"testing"
)

func testDiscovery() *Discovery {
	return NewDiscovery("homeassistant", "hearth-01", "Hearth Bridge", "1.0.0")
}

func TestDiscoveryConfigSensor(t *testing.T) {
	d := testDiscovery()
	sensor := &testSensor{
		id:   "energy_usage_junction01",
		name: "Energy usage",
		desc: Description{
			DeviceClass:  "energy",
			Unit:         "kWh",
			StateClass:   "total_increasing",
			Precision:    1,
			PrecisionSet: true,
		},
	}

	topic, payload, err := d.Config(sensor)
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	wantTopic := "homeassistant/sensor/hearth-01/energy_usage_junction01/config"
	if topic != wantTopic {
		t.Errorf("topic = %q, want %q", topic, wantTopic)
	}

	var cfg map[string]any
	if err := json.Unmarshal(payload, &cfg); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	checks := map[string]any{
		"name":          "Energy usage",
		"uniq_id":       "energy_usage_junction01",
		"stat_t":        "hearth/sensor/energy_usage_junction01/state",
		"json_attr_t":   "hearth/sensor/energy_usage_junction01/attributes",
		"avty_t":        "hearth/bridge/availability",
		"pl_avail":      "online",
		"pl_not_avail":  "offline",
		"dev_cla":       "energy",
		"unit_of_meas":  "kWh",
		"stat_cla":      "total_increasing",
		"sug_dsp_prc":   float64(1),
	}
	for key, want := range checks {
		if got := cfg[key]; got != want {
			t.Errorf("cfg[%q] = %v, want %v", key, got, want)
		}
	}

	// Sensors are not commandable.
	if _, ok := cfg["cmd_t"]; ok {
		t.Error("sensor config has cmd_t, want none")
	}

	device, ok := cfg["dev"].(map[string]any)
	if !ok {
		t.Fatal("config missing dev block")
	}
	if device["name"] != "Hearth Bridge" {
		t.Errorf("dev.name = %v, want Hearth Bridge", device["name"])
	}
}

func TestDiscoveryConfigLight(t *testing.T) {
	d := testDiscovery()
	light := &testLight{
		id:      "signalrgb_gamingpc_light",
		name:    "SignalRGB Gaming PC",
		effects: []string{"Falling Stars", "Rave Visualizer"},
	}

	topic, payload, err := d.Config(light)
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	wantTopic := "homeassistant/light/hearth-01/signalrgb_gamingpc_light/config"
	if topic != wantTopic {
		t.Errorf("topic = %q, want %q", topic, wantTopic)
	}

	var cfg DiscoveryConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if cfg.CommandTopic != "hearth/light/signalrgb_gamingpc_light/set" {
		t.Errorf("cmd_t = %q, want command topic", cfg.CommandTopic)
	}
	if cfg.Schema != "json" {
		t.Errorf("schema = %q, want json", cfg.Schema)
	}
	if !cfg.Effect {
		t.Error("effect = false, want true")
	}
	if len(cfg.EffectList) != 2 || cfg.EffectList[0] != "Falling Stars" {
		t.Errorf("fx_list = %v, want [Falling Stars Rave Visualizer]", cfg.EffectList)
	}
}

func TestDiscoveryConfigNoPrecision(t *testing.T) {
	d := testDiscovery()
	sensor := &testSensor{
		id:   "hot_water_availability_junction01",
		name: "Hot water availability",
		desc: Description{Unit: "%"},
	}

	_, payload, err := d.Config(sensor)
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(payload, &cfg); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := cfg["sug_dsp_prc"]; ok {
		t.Error("config has sug_dsp_prc without PrecisionSet, want omitted")
	}
}
