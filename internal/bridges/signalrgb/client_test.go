package signalrgb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// newTestServer runs a fake SignalRGB HTTP API.
func newTestServer(t *testing.T, effects []Effect, current Effect) (*httptest.Server, *[]string) {
	t.Helper()

	var mu sync.Mutex
	var applied []string

	mux := http.NewServeMux()
	mux.HandleFunc("/effects", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(effectsResponse{Items: effects}) //nolint:errcheck // Test server
	})
	mux.HandleFunc("/effects/current", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(current) //nolint:errcheck // Test server
	})
	mux.HandleFunc("/effects/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		// Path: /effects/{id}/apply
		id := r.URL.Path[len("/effects/") : len(r.URL.Path)-len("/apply")]
		mu.Lock()
		applied = append(applied, id)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &applied
}

func TestClientListEffects(t *testing.T) {
	effects := []Effect{
		{ID: "falling-stars", Name: "Falling Stars"},
		{ID: "good-night", Name: "Good Night!"},
	}
	srv, _ := newTestServer(t, effects, Effect{})

	c := NewClientForURL(srv.URL)
	got, err := c.ListEffects(context.Background())
	if err != nil {
		t.Fatalf("ListEffects() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "Falling Stars" {
		t.Errorf("ListEffects() = %v, want 2 effects starting with Falling Stars", got)
	}
}

func TestClientCurrentEffect(t *testing.T) {
	srv, _ := newTestServer(t, nil, Effect{ID: "good-night", Name: "Good Night!"})

	c := NewClientForURL(srv.URL)
	got, err := c.CurrentEffect(context.Background())
	if err != nil {
		t.Fatalf("CurrentEffect() error = %v", err)
	}
	if got.Name != "Good Night!" {
		t.Errorf("CurrentEffect() = %v, want Good Night!", got)
	}
}

func TestClientApplyEffect(t *testing.T) {
	effects := []Effect{{
		ID:        "falling-stars",
		Name:      "Falling Stars",
		Publisher: "WhirlwindFX",
		UsesAudio: true,
	}}

	t.Run("resolves name to id", func(t *testing.T) {
		srv, applied := newTestServer(t, effects, Effect{})

		c := NewClientForURL(srv.URL)
		got, err := c.ApplyEffect(context.Background(), "Falling Stars")
		if err != nil {
			t.Fatalf("ApplyEffect() error = %v", err)
		}
		if len(*applied) != 1 || (*applied)[0] != "falling-stars" {
			t.Errorf("applied IDs = %v, want [falling-stars]", *applied)
		}
		if got.Publisher != "WhirlwindFX" || !got.UsesAudio {
			t.Errorf("ApplyEffect() = %+v, want metadata carried through", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		srv, applied := newTestServer(t, effects, Effect{})

		c := NewClientForURL(srv.URL)
		_, err := c.ApplyEffect(context.Background(), "No Such Effect")
		if !errors.Is(err, ErrEffectNotFound) {
			t.Errorf("ApplyEffect() error = %v, want %v", err, ErrEffectNotFound)
		}
		if len(*applied) != 0 {
			t.Errorf("applied IDs = %v, want none for unknown effect", *applied)
		}
	})
}

func TestClientRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL)
	if _, err := c.ListEffects(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("ListEffects() error = %v, want %v", err, ErrRequestFailed)
	}
}
