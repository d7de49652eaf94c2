package signalrgb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultPort is the SignalRGB HTTP API port.
const DefaultPort = 16038

// requestTimeout bounds individual API requests. The API runs on the
// local network, so failures should surface quickly.
const requestTimeout = 10 * time.Second

// Effect is a named lighting preset known to SignalRGB.
//
// Beyond the ID and name the API ships presentation metadata with each
// effect. The light entity surfaces it as state attributes, so the
// fields are carried here rather than discarded at the wire.
type Effect struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Publisher       string         `json:"publisher,omitempty"`
	DeveloperEffect bool           `json:"developer_effect,omitempty"`
	Image           string         `json:"image,omitempty"`
	UsesAudio       bool           `json:"uses_audio,omitempty"`
	UsesInput       bool           `json:"uses_input,omitempty"`
	UsesMeters      bool           `json:"uses_meters,omitempty"`
	UsesVideo       bool           `json:"uses_video,omitempty"`
	Parameters      map[string]any `json:"parameters,omitempty"`
}

// Client talks to the SignalRGB HTTP API on the local network.
//
// All methods are safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the SignalRGB instance at host:port.
// A zero port selects DefaultPort.
func NewClient(host string, port int) *Client {
	if port <= 0 {
		port = DefaultPort
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    fmt.Sprintf("http://%s:%d/api/v1", host, port),
	}
}

// NewClientForURL creates a client against an explicit base URL.
// Used by tests to point at a local httptest server.
func NewClientForURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
	}
}

// effectsResponse is the effect list reply.
type effectsResponse struct {
	Items []Effect `json:"items"`
}

// ListEffects returns all effects installed in SignalRGB.
func (c *Client) ListEffects(ctx context.Context) ([]Effect, error) {
	var er effectsResponse
	if err := c.get(ctx, "/effects", &er); err != nil {
		return nil, err
	}
	return er.Items, nil
}

// CurrentEffect returns the effect currently running.
func (c *Client) CurrentEffect(ctx context.Context) (Effect, error) {
	var effect Effect
	if err := c.get(ctx, "/effects/current", &effect); err != nil {
		return Effect{}, err
	}
	return effect, nil
}

// ApplyEffect activates an effect by name and returns the effect that
// was applied, metadata included.
//
// The API applies effects by ID, so this resolves the name against the
// installed effect list and then issues the apply. Callers see a single
// operation; the lookup is internal.
func (c *Client) ApplyEffect(ctx context.Context, name string) (Effect, error) {
	effects, err := c.ListEffects(ctx)
	if err != nil {
		return Effect{}, err
	}

	var match Effect
	for _, e := range effects {
		if e.Name == name {
			match = e
			break
		}
	}
	if match.ID == "" {
		return Effect{}, fmt.Errorf("%w: %q", ErrEffectNotFound, name)
	}

	if err := c.post(ctx, "/effects/"+url.PathEscape(match.ID)+"/apply", nil); err != nil {
		return Effect{}, err
	}
	return match, nil
}

// get performs a GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrRequestFailed, err)
	}
	return nil
}

// post performs a POST with an optional JSON body.
func (c *Client) post(ctx context.Context, path string, body any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return nil
}
