package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hearthbridge/hearth/internal/infrastructure/mqtt"
)

// commandTimeout bounds how long a dispatched light command may take.
const commandTimeout = 10 * time.Second

// Broker is the MQTT surface the publisher needs. *mqtt.Client satisfies it.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// ReadingWriter records numeric entity readings to time-series storage.
// *influxdb.Client satisfies it.
type ReadingWriter interface {
	WriteEntityReading(entityID, platform, measurement string, value float64)
}

// EventSink receives entity events for fan-out to WebSocket clients.
type EventSink interface {
	Broadcast(event Event)
}

// lightCommand is the JSON schema command payload Home Assistant sends
// to a light's command topic.
type lightCommand struct {
	State  string `json:"state"`
	Effect string `json:"effect,omitempty"`
}

// lightState is the JSON schema state payload published for lights.
type lightState struct {
	State  string `json:"state"`
	Effect string `json:"effect,omitempty"`
}

// PublisherConfig wires the publisher's collaborators.
// History, Readings, Events and Logger are optional.
type PublisherConfig struct {
	Registry  *Registry
	Broker    Broker
	Discovery *Discovery
	History   StateHistoryRepository
	Readings  ReadingWriter
	Events    EventSink
	QoS       byte
	Logger    Logger
}

// Publisher exposes registered entities over MQTT.
//
// It publishes Home Assistant discovery configs for every entity, keeps
// state and attribute topics current, and dispatches incoming commands
// to light entities. State changes are also recorded to the state
// history repository and numeric readings to time-series storage.
type Publisher struct {
	registry  *Registry
	broker    Broker
	discovery *Discovery
	history   StateHistoryRepository
	readings  ReadingWriter
	events    EventSink
	qos       byte
	logger    Logger

	// baseCtx is the lifecycle context set by Start; command dispatch
	// goroutines derive their timeouts from it.
	baseCtx context.Context
}

// NewPublisher creates a publisher from its configuration.
func NewPublisher(cfg PublisherConfig) *Publisher {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Publisher{
		registry:  cfg.Registry,
		broker:    cfg.Broker,
		discovery: cfg.Discovery,
		history:   cfg.History,
		readings:  cfg.Readings,
		events:    cfg.Events,
		qos:       cfg.QoS,
		logger:    logger,
	}
}

// Start subscribes to the entity command topic and announces all
// currently registered entities. Entities added later are announced
// automatically via the registry's OnAdd hook.
func (p *Publisher) Start(ctx context.Context) error {
	p.baseCtx = ctx

	topics := mqtt.Topics{}
	if err := p.broker.Subscribe(topics.AllEntityCommands(), p.qos, p.handleCommand); err != nil {
		return fmt.Errorf("subscribing to entity commands: %w", err)
	}

	p.registry.OnAdd(func(batch []Entity) {
		p.Announce(batch)
	})

	p.Announce(p.registry.List())
	return nil
}

// Announce publishes discovery configs and initial state for the given
// entities. Failures are logged per entity; one bad entity does not
// block the rest.
func (p *Publisher) Announce(entities []Entity) {
	for _, e := range entities {
		topic, payload, err := p.discovery.Config(e)
		if err != nil {
			p.logger.Error("building discovery config failed",
				"entity_id", e.UniqueID(), "error", err)
			continue
		}
		if err := p.broker.Publish(topic, payload, p.qos, true); err != nil {
			p.logger.Error("publishing discovery config failed",
				"entity_id", e.UniqueID(), "error", err)
			continue
		}

		p.logger.Debug("entity announced", "entity_id", e.UniqueID())

		if p.events != nil {
			p.events.Broadcast(NewEvent(EventDiscovered, e))
		}

		if err := p.PublishState(context.Background(), e, StateHistorySourcePoll); err != nil {
			p.logger.Warn("publishing initial state failed",
				"entity_id", e.UniqueID(), "error", err)
		}
	}
}

// PublishState publishes the entity's current state and attributes,
// records the change to history, and forwards numeric readings to
// time-series storage.
func (p *Publisher) PublishState(ctx context.Context, e Entity, source string) error {
	topics := mqtt.Topics{}
	platform := string(e.Platform())
	objectID := e.ObjectID()

	statePayload, err := p.statePayload(e)
	if err != nil {
		return err
	}
	if err := p.broker.Publish(topics.EntityState(platform, objectID), statePayload, p.qos, true); err != nil {
		return fmt.Errorf("publishing state for %s: %w", e.UniqueID(), err)
	}

	attrs := e.Attributes()
	if attrs == nil {
		attrs = map[string]any{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshalling attributes for %s: %w", e.UniqueID(), err)
	}
	if err := p.broker.Publish(topics.EntityAttributes(platform, objectID), attrsJSON, p.qos, true); err != nil {
		return fmt.Errorf("publishing attributes for %s: %w", e.UniqueID(), err)
	}

	if p.history != nil {
		if err := p.history.RecordStateChange(ctx, e, source); err != nil {
			p.logger.Warn("recording state history failed",
				"entity_id", e.UniqueID(), "error", err)
		}
	}

	p.recordReading(e)

	if p.events != nil {
		p.events.Broadcast(NewEvent(EventStateChanged, e))
	}

	return nil
}

// statePayload renders the state topic payload. Lights use the JSON
// schema; everything else publishes the bare state string.
func (p *Publisher) statePayload(e Entity) ([]byte, error) {
	light, ok := e.(Light)
	if !ok {
		return []byte(e.State()), nil
	}

	state := lightState{State: StateOff}
	if light.IsOn() {
		state.State = StateOn
		state.Effect = light.Effect()
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshalling light state for %s: %w", e.UniqueID(), err)
	}
	return payload, nil
}

// recordReading forwards numeric sensor states to time-series storage.
// Non-numeric states (including "unknown") are skipped.
func (p *Publisher) recordReading(e Entity) {
	if p.readings == nil || e.Platform() != PlatformSensor {
		return
	}

	value, err := strconv.ParseFloat(e.State(), 64)
	if err != nil {
		return
	}

	measurement := "state"
	if keyed, ok := e.(interface{ Key() string }); ok {
		measurement = keyed.Key()
	}

	p.readings.WriteEntityReading(e.UniqueID(), string(e.Platform()), measurement, value)
}

// handleCommand processes a message from an entity command topic.
//
// Topic shape: hearth/{platform}/{object_id}/set. The actual device call
// is dispatched on a separate goroutine so slow integrations never block
// the MQTT client's handler pool.
func (p *Publisher) handleCommand(topic string, payload []byte) error {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != mqtt.TopicPrefix || parts[3] != "set" {
		return fmt.Errorf("%w: unexpected topic %q", ErrInvalidCommand, topic)
	}
	objectID := parts[2]

	e, err := p.findByObjectID(objectID)
	if err != nil {
		return fmt.Errorf("command for %q: %w", objectID, err)
	}

	light, ok := e.(Light)
	if !ok {
		return fmt.Errorf("command for %q: %w", objectID, ErrNotCommandable)
	}

	var cmd lightCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	go p.dispatchLightCommand(light, cmd)
	return nil
}

// dispatchLightCommand executes a light command and publishes the
// resulting state optimistically.
func (p *Publisher) dispatchLightCommand(light Light, cmd lightCommand) {
	base := p.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithTimeout(base, commandTimeout)
	defer cancel()

	var err error
	switch {
	case cmd.Effect != "":
		err = light.ApplyEffect(ctx, cmd.Effect)
	case strings.EqualFold(cmd.State, StateOn):
		err = light.TurnOn(ctx)
	case strings.EqualFold(cmd.State, StateOff):
		err = light.TurnOff(ctx)
	default:
		err = fmt.Errorf("%w: state %q", ErrInvalidCommand, cmd.State)
	}

	if err != nil {
		p.logger.Error("light command failed",
			"entity_id", light.UniqueID(), "state", cmd.State, "effect", cmd.Effect, "error", err)
		return
	}

	if err := p.PublishState(ctx, light, StateHistorySourceCommand); err != nil {
		p.logger.Warn("publishing state after command failed",
			"entity_id", light.UniqueID(), "error", err)
	}
}

// findByObjectID resolves an entity from the object ID in a topic path.
func (p *Publisher) findByObjectID(objectID string) (Entity, error) {
	// Fast path: object ID equals unique ID for all built-in entities.
	if e, err := p.registry.Get(objectID); err == nil {
		return e, nil
	}

	for _, e := range p.registry.List() {
		if e.ObjectID() == objectID {
			return e, nil
		}
	}
	return nil, ErrEntityNotFound
}
