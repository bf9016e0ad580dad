package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/JOYSTATE/apitypes"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	"github.com/Alia5/JOYSTATE/internal/version"
)

// Ping returns a handler that reports server identity and version.
func Ping() api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		payload := apitypes.PingResponse{Server: "JOYSTATE", Version: version.Version}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
