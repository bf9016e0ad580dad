package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alia5/JOYSTATE/apitypes"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	apierror "github.com/Alia5/JOYSTATE/internal/server/api/error"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	"github.com/Alia5/JOYSTATE/snapshot"
)

// DeviceState returns a handler that renders a device's last-known
// snapshot as JSON.
func DeviceState(h *hub.Hub) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id, ok := req.Params["id"]
		if !ok {
			return apierror.ErrBadRequest("missing id parameter")
		}
		d := h.Get(id)
		if d == nil {
			return apierror.ErrNotFound(fmt.Sprintf("device %s not found", id))
		}
		state := d.State()

		axes := make([]int16, snapshot.MaxAxes)
		for i := range axes {
			axes[i] = state.RawAxis(i)
		}
		var bits strings.Builder
		for i := 0; i < snapshot.MaxButtons; i++ {
			if state.ButtonDown(i) {
				bits.WriteByte('1')
			} else {
				bits.WriteByte('0')
			}
		}
		hats := make([]string, snapshot.NumHats)
		for i := range hats {
			hats[i] = state.Hat(i).String()
		}

		payload, err := json.Marshal(apitypes.DeviceStateResponse{
			DevID:     d.ID(),
			Sequence:  state.Sequence(),
			Connected: state.Connected(),
			Axes:      axes,
			Buttons:   bits.String(),
			Hats:      hats,
		})
		if err != nil {
			return apierror.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
