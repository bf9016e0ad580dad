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

// DeviceRemove returns a handler that unregisters a device.
func DeviceRemove(h *hub.Hub) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id, ok := req.Params["id"]
		if !ok {
			return apierror.ErrBadRequest("missing id parameter")
		}
		if err := h.Remove(id); err != nil {
			return apierror.ErrNotFound(err.Error())
		}
		payload, err := json.Marshal(apitypes.DeviceRemoveResponse{DevID: id})
		if err != nil {
			return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
