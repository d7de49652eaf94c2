package signalrgb

import (
	"context"
	"sync"
	"time"

	"github.com/hearthbridge/hearth/internal/entity"
	"github.com/hearthbridge/hearth/internal/infrastructure/config"
)

// defaultPollInterval is used when config leaves poll_interval unset.
const defaultPollInterval = 5 * time.Minute

// StatePublisher pushes entity state and discovery configs to MQTT.
// *entity.Publisher satisfies it.
type StatePublisher interface {
	PublishState(ctx context.Context, e entity.Entity, source string) error
	Announce(entities []entity.Entity)
}

// Bridge owns the light entity and its polling loop.
type Bridge struct {
	light    *LightEntity
	interval time.Duration
	pub      StatePublisher
	logger   entity.Logger

	// effectsAnnounced records whether the retained discovery config
	// was published with a populated effect list.
	effectsAnnounced bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// Setup creates the light entity for the configured SignalRGB instance,
// registers it, and starts the polling loop.
//
// The first update runs before registration so the entity is announced
// with real state. A failed first update does not abort setup: SignalRGB
// runs on a desktop that may simply be asleep, so the light starts
// unavailable and recovers on a later poll.
func Setup(ctx context.Context, cfg config.SignalRGBConfig, api EffectAPI, registry *entity.Registry, pub StatePublisher, logger entity.Logger) (*Bridge, error) {
	light := NewLightEntity(api, cfg.Host, cfg.DefaultEffect)

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	if err := light.Update(ctx); err != nil {
		logger.Warn("signalrgb initial update failed",
			"host", cfg.Host, "error", err)
	}

	if err := registry.Add(light); err != nil {
		return nil, err
	}

	b := &Bridge{
		light:            light,
		interval:         interval,
		pub:              pub,
		logger:           logger,
		effectsAnnounced: len(light.EffectList()) > 0,
		stopCh:           make(chan struct{}),
	}

	b.wg.Add(1)
	go b.run(ctx)

	logger.Info("signalrgb bridge ready",
		"host", cfg.Host, "entity_id", light.UniqueID(), "poll_interval", interval)
	return b, nil
}

// run polls the device and pushes state until stopped.
func (b *Bridge) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
		}

		if err := b.light.Update(ctx); err != nil {
			b.logger.Warn("signalrgb update failed",
				"entity_id", b.light.UniqueID(), "error", err)
		}

		// A light registered while SignalRGB was unreachable carries an
		// empty fx_list in its retained discovery config. Re-announce
		// once the list is known; Announce publishes state as well.
		if !b.effectsAnnounced && len(b.light.EffectList()) > 0 {
			b.pub.Announce([]entity.Entity{b.light})
			b.effectsAnnounced = true
			b.logger.Info("signalrgb effect list announced",
				"entity_id", b.light.UniqueID(), "effects", len(b.light.EffectList()))
			continue
		}

		if err := b.pub.PublishState(ctx, b.light, entity.StateHistorySourcePoll); err != nil {
			b.logger.Warn("publishing signalrgb state failed",
				"entity_id", b.light.UniqueID(), "error", err)
		}
	}
}

// Light returns the bridge's light entity.
func (b *Bridge) Light() *LightEntity {
	return b.light
}

// Stop terminates the polling loop and waits for it to exit.
// Safe to call multiple times.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
	b.wg.Wait()
}
