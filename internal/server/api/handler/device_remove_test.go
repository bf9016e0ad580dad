package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/JOYSTATE/apiclient"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	"github.com/Alia5/JOYSTATE/internal/server/api/handler"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	joytesting "github.com/Alia5/JOYSTATE/internal/testing"
)

func TestDeviceRemove(t *testing.T) {
	tests := []struct {
		name             string
		setup            func(h *hub.Hub)
		devID            string
		expectedResponse string
	}{
		{
			name:             "existing device",
			setup:            func(h *hub.Hub) { h.Add("stick") },
			devID:            "1",
			expectedResponse: `{"devId":"1"}`,
		},
		{
			name:             "unknown device",
			devID:            "42",
			expectedResponse: `{"status":404,"title":"Not Found","detail":"device 42 not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, h, done := joytesting.StartAPIServer(t, func(r *api.Router, h *hub.Hub, apiSrv *api.Server) {
				r.Register("device/{id}/remove", handler.DeviceRemove(h))
			})
			defer done()
			if tt.setup != nil {
				tt.setup(h)
			}
			c := apiclient.NewTransport(addr)
			line, err := c.Do("device/{id}/remove", nil, map[string]string{"id": tt.devID})
			assert.NoError(t, err)
			assert.JSONEq(t, tt.expectedResponse, line)
		})
	}
}
