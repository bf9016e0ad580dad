package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alia5/JOYSTATE/apitypes"
)

// Client provides a high-level interface to the JOYSTATE API, handling
// request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the JOYSTATE API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing or when advanced transport configuration is needed.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the JOYSTATE server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	const path = "ping"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// DeviceAdd registers a new device with the given name on the hub.
// Returns the assigned device ID.
func (c *Client) DeviceAdd(name string) (*apitypes.DeviceAddResponse, error) {
	return c.DeviceAddCtx(context.Background(), name)
}

func (c *Client) DeviceAddCtx(ctx context.Context, name string) (*apitypes.DeviceAddResponse, error) {
	const path = "device/add"
	payloadBytes, err := json.Marshal(apitypes.DeviceAddRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("marshal device add request: %w", err)
	}
	raw, err := c.transport.DoCtx(ctx, path, string(payloadBytes), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceAddResponse](raw)
}

// DeviceRemove unregisters a device by its ID. Active feed and watch
// connections for the device will be closed.
func (c *Client) DeviceRemove(devID string) (*apitypes.DeviceRemoveResponse, error) {
	return c.DeviceRemoveCtx(context.Background(), devID)
}

func (c *Client) DeviceRemoveCtx(ctx context.Context, devID string) (*apitypes.DeviceRemoveResponse, error) {
	pathParams := map[string]string{"id": devID}
	const path = "device/{id}/remove"
	raw, err := c.transport.DoCtx(ctx, path, nil, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](raw)
}

// DevicesList retrieves all registered devices.
func (c *Client) DevicesList() (*apitypes.DevicesListResponse, error) {
	return c.DevicesListCtx(context.Background())
}

func (c *Client) DevicesListCtx(ctx context.Context) (*apitypes.DevicesListResponse, error) {
	const path = "device/list"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DevicesListResponse](raw)
}

// DeviceState retrieves the last-known snapshot of a device as reported
// by its poller.
func (c *Client) DeviceState(devID string) (*apitypes.DeviceStateResponse, error) {
	return c.DeviceStateCtx(context.Background(), devID)
}

func (c *Client) DeviceStateCtx(ctx context.Context, devID string) (*apitypes.DeviceStateResponse, error) {
	pathParams := map[string]string{"id": devID}
	const path = "device/{id}/state"
	raw, err := c.transport.DoCtx(ctx, path, nil, pathParams)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceStateResponse](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
