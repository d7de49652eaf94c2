package entity

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// testSensor is a minimal Entity implementation for tests.
type testSensor struct {
	id    string
	name  string
	state string
	attrs map[string]any
	desc  Description
	key   string
}

func (s *testSensor) UniqueID() string           { return s.id }
func (s *testSensor) ObjectID() string           { return s.id }
func (s *testSensor) Name() string               { return s.name }
func (s *testSensor) Platform() Platform         { return PlatformSensor }
func (s *testSensor) Attributes() map[string]any { return s.attrs }
func (s *testSensor) Available() bool            { return true }
func (s *testSensor) Description() Description   { return s.desc }
func (s *testSensor) Key() string                { return s.key }

func (s *testSensor) State() string {
	if s.state == "" {
		return StateUnknown
	}
	return s.state
}

// testLight is a minimal Light implementation for tests.
type testLight struct {
	mu      sync.Mutex
	id      string
	name    string
	on      bool
	effect  string
	effects []string

	turnOnCalls  int
	turnOffCalls int
	applyCalls   []string
	err          error
	done         chan struct{}
}

func (l *testLight) UniqueID() string           { return l.id }
func (l *testLight) ObjectID() string           { return l.id }
func (l *testLight) Name() string               { return l.name }
func (l *testLight) Platform() Platform         { return PlatformLight }
func (l *testLight) Attributes() map[string]any { return nil }
func (l *testLight) Available() bool            { return true }

func (l *testLight) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		return StateOn
	}
	return StateOff
}

func (l *testLight) IsOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

func (l *testLight) Effect() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.effect
}

func (l *testLight) EffectList() []string { return l.effects }

func (l *testLight) signal() {
	if l.done != nil {
		l.done <- struct{}{}
	}
}

func (l *testLight) TurnOn(ctx context.Context) error {
	l.mu.Lock()
	l.turnOnCalls++
	if l.err == nil {
		l.on = true
	}
	err := l.err
	l.mu.Unlock()
	l.signal()
	return err
}

func (l *testLight) TurnOff(ctx context.Context) error {
	l.mu.Lock()
	l.turnOffCalls++
	if l.err == nil {
		l.on = false
	}
	err := l.err
	l.mu.Unlock()
	l.signal()
	return err
}

func (l *testLight) ApplyEffect(ctx context.Context, name string) error {
	l.mu.Lock()
	l.applyCalls = append(l.applyCalls, name)
	if l.err == nil {
		l.on = true
		l.effect = name
	}
	err := l.err
	l.mu.Unlock()
	l.signal()
	return err
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers entities", func(t *testing.T) {
		r := NewRegistry()

		err := r.Add(
			&testSensor{id: "hot_water_availability_junction01", state: "100"},
			&testSensor{id: "energy_usage_junction01", state: "132.8"},
		)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if r.Count() != 2 {
			t.Errorf("Count() = %d, want 2", r.Count())
		}
	})

	t.Run("rejects duplicate unique id", func(t *testing.T) {
		r := NewRegistry()

		if err := r.Add(&testSensor{id: "dup"}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := r.Add(&testSensor{id: "dup"}); !errors.Is(err, ErrDuplicateEntity) {
			t.Errorf("Add() duplicate error = %v, want %v", err, ErrDuplicateEntity)
		}
		if r.Count() != 1 {
			t.Errorf("Count() = %d, want 1", r.Count())
		}
	})

	t.Run("rejects duplicate within batch", func(t *testing.T) {
		r := NewRegistry()

		err := r.Add(&testSensor{id: "dup"}, &testSensor{id: "dup"})
		if !errors.Is(err, ErrDuplicateEntity) {
			t.Errorf("Add() error = %v, want %v", err, ErrDuplicateEntity)
		}
		if r.Count() != 0 {
			t.Errorf("Count() = %d, want 0 after failed batch", r.Count())
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Add(); err != nil {
			t.Errorf("Add() with no entities error = %v", err)
		}
	})
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	sensor := &testSensor{id: "energy_usage_junction01", state: "132.8"}
	if err := r.Add(sensor); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := r.Get("energy_usage_junction01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UniqueID() != sensor.UniqueID() {
		t.Errorf("Get() returned %q, want %q", got.UniqueID(), sensor.UniqueID())
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrEntityNotFound)
	}
}

func TestRegistryListOrder(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(
		&testSensor{id: "zeta"},
		&testSensor{id: "alpha"},
		&testSensor{id: "mid"},
	); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	list := r.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d entities, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].UniqueID() != id {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].UniqueID(), id)
		}
	}
}

func TestRegistryFilters(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(
		&testSensor{id: "sensor_one"},
		&testLight{id: "light_one", effects: []string{"Falling Stars"}},
	); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	sensors := r.ListByPlatform(PlatformSensor)
	if len(sensors) != 1 || sensors[0].UniqueID() != "sensor_one" {
		t.Errorf("ListByPlatform(sensor) = %v, want [sensor_one]", sensors)
	}

	lights := r.Lights()
	if len(lights) != 1 || lights[0].UniqueID() != "light_one" {
		t.Errorf("Lights() returned %d entries, want 1", len(lights))
	}
}

func TestRegistryOnAdd(t *testing.T) {
	r := NewRegistry()

	// Batch added before callback registration is not replayed.
	if err := r.Add(&testSensor{id: "before"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var got []string
	r.OnAdd(func(batch []Entity) {
		for _, e := range batch {
			got = append(got, e.UniqueID())
		}
	})

	if err := r.Add(&testSensor{id: "after_a"}, &testSensor{id: "after_b"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(got) != 2 || got[0] != "after_a" || got[1] != "after_b" {
		t.Errorf("OnAdd callback saw %v, want [after_a after_b]", got)
	}
}
