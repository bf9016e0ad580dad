package apitypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type Device struct {
	DevID string `json:"devId"`
	Name  string `json:"name"`
}

type DevicesListResponse struct {
	Devices []Device `json:"devices"`
}

type DeviceAddRequest struct {
	Name string `json:"name"`
}

type DeviceAddResponse struct {
	DevID string `json:"devId"`
	Name  string `json:"name"`
}

type DeviceRemoveResponse struct {
	DevID string `json:"devId"`
}

// DeviceStateResponse is the JSON rendering of a device's last-known
// snapshot. Axes are raw signed 16-bit values; Buttons is a dense bit
// string with one character per button slot; Hats hold the readable hat
// positions.
type DeviceStateResponse struct {
	DevID     string   `json:"devId"`
	Sequence  uint64   `json:"sequence"`
	Connected bool     `json:"connected"`
	Axes      []int16  `json:"axes"`
	Buttons   string   `json:"buttons"`
	Hats      []string `json:"hats"`
}
