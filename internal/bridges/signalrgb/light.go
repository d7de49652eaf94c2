package signalrgb

import (
	"context"
	"strings"
	"sync"

	"github.com/hearthbridge/hearth/internal/entity"
)

// Effect name constants.
const (
	// AllOffEffect is the sentinel effect SignalRGB treats as "off".
	// The light reports off whenever this effect is current.
	AllOffEffect = "Good Night!"

	// DefaultEffect is applied on turn-on when no previous effect is
	// known to restore.
	DefaultEffect = "Falling Stars"
)

// EffectAPI is the client surface the light needs. *Client satisfies it.
type EffectAPI interface {
	ListEffects(ctx context.Context) ([]Effect, error)
	CurrentEffect(ctx context.Context) (Effect, error)
	ApplyEffect(ctx context.Context, name string) (Effect, error)
}

// LightEntity proxies effect-based control of a SignalRGB install.
//
// On/off and the active effect are tracked locally and updated
// optimistically after commands: an apply that returns no error is
// assumed to have taken effect, with no confirmation round-trip. The
// periodic Update reconciles local state with the device.
type LightEntity struct {
	api           EffectAPI
	uniqueID      string
	name          string
	defaultEffect string

	mu          sync.Mutex
	on          bool
	effect      string
	effects     []string
	effectAttrs map[string]any
	lastActive  string
	available   bool
}

// NewLightEntity creates the light for one SignalRGB instance.
// An empty defaultEffect falls back to DefaultEffect.
func NewLightEntity(api EffectAPI, host string, defaultEffect string) *LightEntity {
	if defaultEffect == "" {
		defaultEffect = DefaultEffect
	}
	return &LightEntity{
		api:           api,
		uniqueID:      "signalrgb_" + sanitizeID(host) + "_light",
		name:          "SignalRGB " + host,
		defaultEffect: defaultEffect,
		available:     true,
	}
}

// sanitizeID makes a host string safe for topic paths and unique IDs.
func sanitizeID(host string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, host)
	return mapped
}

func (l *LightEntity) UniqueID() string          { return l.uniqueID }
func (l *LightEntity) ObjectID() string          { return l.uniqueID }
func (l *LightEntity) Name() string              { return l.name }
func (l *LightEntity) Platform() entity.Platform { return entity.PlatformLight }

// State reports ON/OFF from local state.
func (l *LightEntity) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		return entity.StateOn
	}
	return entity.StateOff
}

// IsOn reports the locally tracked power state.
func (l *LightEntity) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// Effect returns the locally tracked active effect.
func (l *LightEntity) Effect() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.effect
}

// EffectList returns the cached effect names.
func (l *LightEntity) EffectList() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := make([]string, len(l.effects))
	copy(list, l.effects)
	return list
}

// Attributes exposes the active effect's metadata and the restore
// target. Effect metadata is present only while the light is on.
func (l *LightEntity) Attributes() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	attrs := make(map[string]any, len(l.effectAttrs)+1)
	for k, v := range l.effectAttrs {
		attrs[k] = v
	}
	if l.lastActive != "" {
		attrs["last_active_effect"] = l.lastActive
	}
	return attrs
}

// Available reports whether the last update reached the device.
func (l *LightEntity) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.available
}

// TurnOn applies the last active effect, or the default effect when
// none is known. Exactly one apply call is issued.
func (l *LightEntity) TurnOn(ctx context.Context) error {
	l.mu.Lock()
	target := l.lastActive
	if target == "" {
		target = l.defaultEffect
	}
	l.mu.Unlock()

	return l.ApplyEffect(ctx, target)
}

// TurnOff applies the all-off sentinel effect. Exactly one apply call
// is issued.
func (l *LightEntity) TurnOff(ctx context.Context) error {
	return l.ApplyEffect(ctx, AllOffEffect)
}

// ApplyEffect activates the named effect and updates local state
// optimistically. Applying the all-off sentinel turns the light off
// and clears the effect metadata; any other effect turns it on,
// becomes the restore target and exposes its metadata as attributes.
func (l *LightEntity) ApplyEffect(ctx context.Context, name string) error {
	applied, err := l.api.ApplyEffect(ctx, name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.effect = name
	l.on = name != AllOffEffect
	if l.on {
		l.lastActive = name
		l.effectAttrs = effectAttributes(applied)
	} else {
		l.effectAttrs = nil
	}
	return nil
}

// Update reconciles local state with the device.
//
// The effect list is fetched only while the cache is empty; once
// populated it is never re-fetched. The current effect is polled every
// cycle: the all-off sentinel means off and drops the restore target,
// anything else means on.
func (l *LightEntity) Update(ctx context.Context) error {
	l.mu.Lock()
	needEffects := len(l.effects) == 0
	l.mu.Unlock()

	if needEffects {
		effects, err := l.api.ListEffects(ctx)
		if err != nil {
			l.setAvailable(false)
			return err
		}
		names := make([]string, 0, len(effects))
		for _, e := range effects {
			names = append(names, e.Name)
		}
		l.mu.Lock()
		if len(l.effects) == 0 {
			l.effects = names
		}
		l.mu.Unlock()
	}

	current, err := l.api.CurrentEffect(ctx)
	if err != nil {
		l.setAvailable(false)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.available = true
	l.effect = current.Name
	l.on = current.Name != AllOffEffect
	if l.on {
		l.lastActive = current.Name
		l.effectAttrs = effectAttributes(current)
	} else {
		// The device went dark outside our control. Forget the restore
		// target so the next turn-on applies the default effect.
		l.lastActive = ""
		l.effectAttrs = nil
	}
	return nil
}

// effectAttributes flattens an effect's metadata into entity attributes.
func effectAttributes(e Effect) map[string]any {
	return map[string]any{
		"effect_name":        e.Name,
		"effect_image":       e.Image,
		"effect_description": e.Description,
		"effect_developer":   e.DeveloperEffect,
		"effect_publisher":   e.Publisher,
		"effect_uses_audio":  e.UsesAudio,
		"effect_uses_input":  e.UsesInput,
		"effect_uses_meters": e.UsesMeters,
		"effect_uses_video":  e.UsesVideo,
		"effect_parameters":  e.Parameters,
	}
}

func (l *LightEntity) setAvailable(v bool) {
	l.mu.Lock()
	l.available = v
	l.mu.Unlock()
}
