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

// DeviceAdd returns a handler that registers a new device on the hub.
// The payload is a JSON DeviceAddRequest carrying the device name.
func DeviceAdd(h *hub.Hub) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if req.Payload == "" {
			return apierror.ErrBadRequest("missing payload")
		}
		var createReq apitypes.DeviceAddRequest
		if err := json.Unmarshal([]byte(req.Payload), &createReq); err != nil {
			return apierror.ErrBadRequest(fmt.Sprintf("invalid payload: %v", err))
		}
		if createReq.Name == "" {
			return apierror.ErrBadRequest("missing device name")
		}

		d := h.Add(createReq.Name)
		logger.Info("device added", "id", d.ID(), "name", d.Name())

		payload, err := json.Marshal(apitypes.DeviceAddResponse{DevID: d.ID(), Name: d.Name()})
		if err != nil {
			return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
