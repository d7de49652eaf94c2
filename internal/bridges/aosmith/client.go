package aosmith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// productionBaseURL is the myAOSmith cloud endpoint.
const productionBaseURL = "https://r2.wh8.co"

// requestTimeout bounds individual cloud requests.
const requestTimeout = 15 * time.Second

// Client talks to the A. O. Smith cloud API.
//
// Authentication is email/password exchanged for a bearer token. The
// token is cached and transparently refreshed on a 401.
//
// All methods are safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string

	tokenMu sync.Mutex
	token   string
}

// NewClient creates a cloud client. An empty baseURL selects the
// production API; tests point it at a local httptest server.
func NewClient(email, password, baseURL string) *Client {
	if baseURL == "" {
		baseURL = productionBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		email:      email,
		password:   password,
	}
}

// tokenResponse is the auth endpoint's reply.
type tokenResponse struct {
	Token string `json:"token"`
}

// energyResponse is the energy endpoint's reply.
type energyResponse struct {
	LifetimeKWh float64 `json:"lifetimeKwh"`
}

// login exchanges credentials for a bearer token and caches it.
func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("%w: decoding token: %w", ErrAuthFailed, err)
	}
	if tr.Token == "" {
		return fmt.Errorf("%w: empty token", ErrAuthFailed)
	}

	c.tokenMu.Lock()
	c.token = tr.Token
	c.tokenMu.Unlock()
	return nil
}

// doJSON performs an authenticated GET and decodes the JSON response.
// A 401 triggers one re-login and retry.
func (c *Client) doJSON(ctx context.Context, path string, out any) error {
	for attempt := 0; attempt < 2; attempt++ {
		c.tokenMu.Lock()
		token := c.token
		c.tokenMu.Unlock()

		if token == "" {
			if err := c.login(ctx); err != nil {
				return err
			}
			c.tokenMu.Lock()
			token = c.token
			c.tokenMu.Unlock()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decoding response: %w", ErrRequestFailed, err)
			}
			return nil
		case http.StatusUnauthorized:
			// Token expired: clear and retry once.
			resp.Body.Close()
			c.tokenMu.Lock()
			c.token = ""
			c.tokenMu.Unlock()
			continue
		case http.StatusNotFound:
			resp.Body.Close()
			return ErrDeviceNotFound
		default:
			status := resp.StatusCode
			resp.Body.Close()
			return fmt.Errorf("%w: status %d", ErrRequestFailed, status)
		}
	}
	return fmt.Errorf("%w: token rejected after refresh", ErrAuthFailed)
}

// Devices returns all water heaters on the account, keyed by junction ID.
func (c *Client) Devices(ctx context.Context) (map[string]Device, error) {
	var devices []Device
	if err := c.doJSON(ctx, "/v1/devices", &devices); err != nil {
		return nil, err
	}

	byID := make(map[string]Device, len(devices))
	for _, d := range devices {
		if d.JunctionID == "" {
			continue
		}
		byID[d.JunctionID] = d
	}
	return byID, nil
}

// EnergyUsage returns the lifetime energy consumption for a device in kWh.
// The value is cumulative and total-increasing.
func (c *Client) EnergyUsage(ctx context.Context, junctionID string) (float64, error) {
	var er energyResponse
	if err := c.doJSON(ctx, "/v1/devices/"+junctionID+"/energy", &er); err != nil {
		return 0, err
	}
	return er.LifetimeKWh, nil
}
