package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/JOYSTATE/apitypes"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	apierror "github.com/Alia5/JOYSTATE/internal/server/api/error"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
)

// DevicesList returns a handler that lists registered devices.
// Error logging is centralized in the API server.
func DevicesList(h *hub.Hub) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		devices := h.List()
		out := make([]apitypes.Device, 0, len(devices))
		for _, d := range devices {
			out = append(out, apitypes.Device{DevID: d.ID(), Name: d.Name()})
		}
		payload, err := json.Marshal(apitypes.DevicesListResponse{Devices: out})
		if err != nil {
			return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
