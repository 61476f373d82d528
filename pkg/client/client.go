// Package client is a small Go client for the fleet cloud: token refresh,
// owner API calls and the streaming WebSocket. It drives the luxfleet-client
// CLI and the end-to-end tests, and can point at a real upstream via
// environment variables.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// Environment variables overriding the loopback defaults.
const (
	EnvAuthAPI      = "TESLA_AUTH_API"
	EnvOwnerAPI     = "TESLA_OWNER_API"
	EnvStreamingAPI = "TESLA_STREAMING_API"
	EnvAccessToken  = "TESLA_ACCESS_TOKEN"
	EnvRefreshToken = "TESLA_REFRESH_TOKEN"
)

// Config locates the three API surfaces and carries the credential pair.
type Config struct {
	AuthURL      string
	OwnerURL     string
	StreamingURL string
	AccessToken  string
	RefreshToken string

	// Timeout bounds each HTTP call. Zero means 30 seconds.
	Timeout time.Duration
}

// ConfigFromEnv reads the TESLA_* variables, defaulting every URL to the
// loopback server.
func ConfigFromEnv() Config {
	return Config{
		AuthURL:      envOr(EnvAuthAPI, "http://localhost:4080/"),
		OwnerURL:     envOr(EnvOwnerAPI, "http://localhost:4080/"),
		StreamingURL: envOr(EnvStreamingAPI, "ws://localhost:4080/streaming/"),
		AccessToken:  os.Getenv(EnvAccessToken),
		RefreshToken: os.Getenv(EnvRefreshToken),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Client calls the fleet cloud APIs.
type Client struct {
	authURL      *url.URL
	ownerURL     *url.URL
	streamingURL *url.URL
	accessToken  string
	refreshToken string
	http         *http.Client
}

// New validates the configured URLs and builds a client.
func New(cfg Config) (*Client, error) {
	authURL, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth url: %w", err)
	}
	ownerURL, err := url.Parse(cfg.OwnerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid owner url: %w", err)
	}
	streamingURL, err := url.Parse(cfg.StreamingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid streaming url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		authURL:      authURL,
		ownerURL:     ownerURL,
		streamingURL: streamingURL,
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
		http:         &http.Client{Timeout: timeout},
	}, nil
}

// AccessToken returns the credential currently in use.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// defaultRefreshScopes is what the client asks for when renewing: user_data
// dropped, vehicle_device_data added.
const defaultRefreshScopes = "openid offline_access vehicle_device_data vehicle_cmds vehicle_charging_cmds energy_device_data energy_cmds"

// RefreshToken exchanges the refresh token for a fresh pair and swaps the
// client's credentials.
func (c *Client) RefreshToken(ctx context.Context) (*fleetv1.RawToken, error) {
	body := fleetv1.TokenRequest{
		GrantType:    fleetv1.GrantTypeRefreshToken,
		RefreshToken: c.refreshToken,
		ClientID:     "ownerapi",
		Scope:        defaultRefreshScopes,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := c.authURL.JoinPath("oauth2", "v3", "token")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token refresh failed: %s", resp.Status)
	}

	var token fleetv1.RawToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}

	c.accessToken = token.AccessToken
	c.refreshToken = token.RefreshToken
	return &token, nil
}

// Vehicles lists every vehicle on the account.
func (c *Client) Vehicles(ctx context.Context) ([]fleetv1.VehicleDescriptor, error) {
	var out []fleetv1.VehicleDescriptor
	err := c.getOwner(ctx, "api/1/vehicles", &out)
	return out, err
}

// Vehicle fetches one descriptor.
func (c *Client) Vehicle(ctx context.Context, id fleetv1.VehicleId) (*fleetv1.VehicleDescriptor, error) {
	var out fleetv1.VehicleDescriptor
	err := c.getOwner(ctx, fmt.Sprintf("api/1/vehicles/%s", id), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VehicleData queries the live snapshot, restricted to the given endpoints.
func (c *Client) VehicleData(ctx context.Context, id fleetv1.VehicleId, endpoints []fleetv1.Endpoint) (*fleetv1.VehicleData, error) {
	path := fmt.Sprintf("api/1/vehicles/%s/vehicle_data", id)
	if len(endpoints) > 0 {
		names := make([]string, len(endpoints))
		for i, e := range endpoints {
			names[i] = string(e)
		}
		path += "?endpoints=" + url.QueryEscape(strings.Join(names, ";"))
	}

	var out fleetv1.VehicleData
	if err := c.getOwner(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WakeUp asks the vehicle to wake and returns its current descriptor.
func (c *Client) WakeUp(ctx context.Context, id fleetv1.VehicleId) (*fleetv1.VehicleDescriptor, error) {
	var out fleetv1.VehicleDescriptor
	err := c.postOwner(ctx, fmt.Sprintf("api/1/vehicles/%s/wake_up", id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Simulate forces the vehicle into the given state.
func (c *Client) Simulate(ctx context.Context, id fleetv1.VehicleId, state fleetv1.SimulationState) error {
	return c.postOwner(ctx, fmt.Sprintf("api/1/vehicles/%s/simulate", id), string(state), nil)
}

func (c *Client) getOwner(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ownerEndpoint(path), nil)
	if err != nil {
		return err
	}
	return c.doOwner(req, out)
}

func (c *Client) postOwner(ctx context.Context, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ownerEndpoint(path), reader)
	if err != nil {
		return err
	}
	return c.doOwner(req, out)
}

func (c *Client) ownerEndpoint(path string) string {
	return strings.TrimSuffix(c.ownerURL.String(), "/") + "/" + path
}

func (c *Client) doOwner(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var envelope fleetv1.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, envelope.Error)
		}
		return fmt.Errorf("request failed: %s", resp.Status)
	}

	if out == nil {
		return nil
	}

	wrapper := struct {
		Response any `json:"response"`
	}{Response: out}
	return json.NewDecoder(resp.Body).Decode(&wrapper)
}
