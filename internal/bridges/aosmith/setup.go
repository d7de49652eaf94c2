package aosmith

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthbridge/hearth/internal/coordinator"
	"github.com/hearthbridge/hearth/internal/entity"
	"github.com/hearthbridge/hearth/internal/infrastructure/config"
)

// Fallback intervals when config leaves them unset.
const (
	defaultStatusInterval = 30 * time.Second
	defaultEnergyInterval = 30 * time.Minute
)

// DeviceAPI is the cloud surface the bridge needs. *Client satisfies it.
type DeviceAPI interface {
	Devices(ctx context.Context) (map[string]Device, error)
	EnergyUsage(ctx context.Context, junctionID string) (float64, error)
}

// StatePublisher pushes entity state to MQTT. *entity.Publisher satisfies it.
type StatePublisher interface {
	PublishState(ctx context.Context, e entity.Entity, source string) error
}

// Bridge owns the coordinators and entities for one A. O. Smith account.
type Bridge struct {
	statusCoord *coordinator.Coordinator[map[string]Device]
	energyCoord *coordinator.Coordinator[map[string]float64]
	entities    []entity.Entity
	removeFns   []func()
	logger      entity.Logger
}

// Setup connects to the cloud, starts both coordinators, and registers
// one sensor per (description, device) pair plus an energy sensor per
// device.
//
// The initial status refresh must succeed so the device set is known;
// failure aborts setup. Coordinator listeners push fresh state to the
// publisher after every subsequent refresh.
func Setup(ctx context.Context, cfg config.AOSmithConfig, api DeviceAPI, registry *entity.Registry, pub StatePublisher, logger entity.Logger) (*Bridge, error) {
	statusInterval := cfg.StatusInterval
	if statusInterval <= 0 {
		statusInterval = defaultStatusInterval
	}
	energyInterval := cfg.EnergyInterval
	if energyInterval <= 0 {
		energyInterval = defaultEnergyInterval
	}

	statusCoord := coordinator.New("aosmith-status", statusInterval, api.Devices)

	// Energy polls the devices known to the status coordinator, one
	// request per junction. A single failing device fails the refresh;
	// the previous totals stay cached.
	energyCoord := coordinator.New("aosmith-energy", energyInterval,
		func(ctx context.Context) (map[string]float64, error) {
			usage := make(map[string]float64)
			for junctionID := range statusCoord.Data() {
				kwh, err := api.EnergyUsage(ctx, junctionID)
				if err != nil {
					return nil, fmt.Errorf("energy usage for %s: %w", junctionID, err)
				}
				usage[junctionID] = kwh
			}
			return usage, nil
		})

	statusCoord.SetLogger(logger)
	energyCoord.SetLogger(logger)

	if err := statusCoord.Start(ctx); err != nil {
		return nil, err
	}
	if err := energyCoord.Start(ctx); err != nil {
		statusCoord.Stop()
		return nil, err
	}

	b := &Bridge{
		statusCoord: statusCoord,
		energyCoord: energyCoord,
		logger:      logger,
	}

	devices := statusCoord.Data()
	var statusEntities, energyEntities []entity.Entity
	for junctionID := range devices {
		for _, desc := range sensorDescriptions {
			statusEntities = append(statusEntities, NewSensor(statusCoord, junctionID, desc))
		}
		energyEntities = append(energyEntities, NewEnergySensor(energyCoord, junctionID))
	}
	b.entities = append(b.entities, statusEntities...)
	b.entities = append(b.entities, energyEntities...)

	if err := registry.Add(b.entities...); err != nil {
		b.Stop()
		return nil, fmt.Errorf("registering aosmith entities: %w", err)
	}

	b.removeFns = append(b.removeFns,
		statusCoord.AddListener(func() { b.publishAll(ctx, pub, statusEntities) }),
		energyCoord.AddListener(func() { b.publishAll(ctx, pub, energyEntities) }),
	)

	logger.Info("aosmith bridge ready",
		"devices", len(devices), "entities", len(b.entities))
	return b, nil
}

// publishAll pushes current state for a set of entities.
func (b *Bridge) publishAll(ctx context.Context, pub StatePublisher, entities []entity.Entity) {
	for _, e := range entities {
		if err := pub.PublishState(ctx, e, entity.StateHistorySourcePoll); err != nil {
			b.logger.Warn("publishing aosmith state failed",
				"entity_id", e.UniqueID(), "error", err)
		}
	}
}

// Entities returns the entities created during setup.
func (b *Bridge) Entities() []entity.Entity {
	return b.entities
}

// RequestRefresh asks both coordinators to refresh ahead of schedule.
func (b *Bridge) RequestRefresh() {
	b.statusCoord.RequestRefresh()
	b.energyCoord.RequestRefresh()
}

// Stop removes listeners and stops both coordinators.
func (b *Bridge) Stop() {
	for _, remove := range b.removeFns {
		remove()
	}
	b.removeFns = nil
	b.statusCoord.Stop()
	b.energyCoord.Stop()
}
