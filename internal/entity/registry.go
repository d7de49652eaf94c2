package entity

import (
	"sort"
	"sync"
)

// Logger defines the logging interface used by this package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds all entities registered by the bridge integrations.
//
// Integrations register their entities in bulk during setup; the
// publisher subscribes to additions so new entities are announced over
// MQTT discovery as soon as they appear.
//
// All public methods are thread-safe.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity // by unique ID
	onAdd    []func([]Entity)
	logger   Logger
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers one or more entities.
//
// All-or-nothing: if any entity's unique ID collides with an existing
// registration (or another entity in the same batch), nothing is added
// and ErrDuplicateEntity is returned.
//
// Registered OnAdd callbacks are invoked with the batch after it is
// committed, outside the registry lock.
func (r *Registry) Add(entities ...Entity) error {
	if len(entities) == 0 {
		return nil
	}

	r.mu.Lock()
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		id := e.UniqueID()
		if _, exists := r.entities[id]; exists || seen[id] {
			r.mu.Unlock()
			return ErrDuplicateEntity
		}
		seen[id] = true
	}
	for _, e := range entities {
		r.entities[e.UniqueID()] = e
	}
	callbacks := make([]func([]Entity), len(r.onAdd))
	copy(callbacks, r.onAdd)
	r.mu.Unlock()

	r.logger.Info("entities registered", "count", len(entities))

	for _, cb := range callbacks {
		cb(entities)
	}
	return nil
}

// OnAdd registers a callback invoked whenever a batch of entities is
// added. Callbacks only see batches added after registration; call List
// first to handle entities already present.
func (r *Registry) OnAdd(callback func([]Entity)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onAdd = append(r.onAdd, callback)
}

// Get retrieves an entity by unique ID.
// Returns ErrEntityNotFound if no entity is registered under the ID.
func (r *Registry) Get(id string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	return e, nil
}

// List returns all registered entities, ordered by unique ID for
// deterministic output.
func (r *Registry) List() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entities := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].UniqueID() < entities[j].UniqueID()
	})
	return entities
}

// ListByPlatform returns all entities on the given platform, ordered by
// unique ID.
func (r *Registry) ListByPlatform(platform Platform) []Entity {
	all := r.List()
	filtered := all[:0:0]
	for _, e := range all {
		if e.Platform() == platform {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Lights returns all registered entities that implement Light.
func (r *Registry) Lights() []Light {
	var lights []Light
	for _, e := range r.List() {
		if l, ok := e.(Light); ok {
			lights = append(lights, l)
		}
	}
	return lights
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}
