package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// These tests exercise the client without a live broker: topic construction,
// input validation, and the disconnected-state error paths. Connection
// behaviour (LWT, reconnect, re-subscription) requires a broker and is
// covered by integration testing against Mosquitto.

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "entity state",
			got:  topics.EntityState("sensor", "hot_water_availability_junction01"),
			want: "hearth/sensor/hot_water_availability_junction01/state",
		},
		{
			name: "entity attributes",
			got:  topics.EntityAttributes("light", "signalrgb_gamingpc_light"),
			want: "hearth/light/signalrgb_gamingpc_light/attributes",
		},
		{
			name: "entity command",
			got:  topics.EntityCommand("light", "signalrgb_gamingpc_light"),
			want: "hearth/light/signalrgb_gamingpc_light/set",
		},
		{
			name: "discovery config",
			got:  topics.Discovery("homeassistant", "sensor", "hearth-01", "energy_usage_junction01"),
			want: "homeassistant/sensor/hearth-01/energy_usage_junction01/config",
		},
		{
			name: "bridge availability",
			got:  topics.BridgeAvailability(),
			want: "hearth/bridge/availability",
		},
		{
			name: "bridge event",
			got:  topics.BridgeEvent("entity_state_changed"),
			want: "hearth/bridge/event/entity_state_changed",
		},
		{
			name: "all entity commands wildcard",
			got:  topics.AllEntityCommands(),
			want: "hearth/+/+/set",
		},
		{
			name: "all entity states wildcard",
			got:  topics.AllEntityStates(),
			want: "hearth/+/+/state",
		},
		{
			name: "all topics wildcard",
			got:  topics.AllTopics(),
			want: "hearth/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("on"),
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "hearth/light/test/state",
			payload: []byte("on"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "hearth/light/test/state",
			payload: []byte(strings.Repeat("x", maxPayloadSize+1)),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "not connected",
			topic:   "hearth/light/test/state",
			payload: []byte("on"),
			qos:     1,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(topic string, payload []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			qos:     1,
			handler: handler,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "hearth/+/+/set",
			qos:     5,
			handler: handler,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "nil handler",
			topic:   "hearth/+/+/set",
			qos:     1,
			handler: nil,
			wantErr: ErrSubscribeFailed,
		},
		{
			name:    "not connected",
			topic:   "hearth/+/+/set",
			qos:     1,
			handler: handler,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want %v", err, ErrInvalidTopic)
	}
	if err := c.Unsubscribe("hearth/+/+/set"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if got := c.SubscriptionCount(); got != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", got)
	}
	if c.HasSubscription("hearth/+/+/set") {
		t.Error("HasSubscription() = true on fresh client, want false")
	}
}

func TestHealthCheckNotConnected(t *testing.T) {
	c := &Client{}

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestHealthCheckCancelledContext(t *testing.T) {
	c := &Client{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestCloseNilClient(t *testing.T) {
	c := &Client{}

	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v, want nil", err)
	}
}
