package testing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/Alia5/JOYSTATE/internal/server/api"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
)

// StartAPIServer starts an API server on a free port and calls register to allow
// the caller to register the handlers needed for the test. Returns the address
// and a function to call when done.
func StartAPIServer(t *testing.T, register func(r *api.Router, h *hub.Hub, apiSrv *api.Server)) (addr string, h *hub.Hub, done func()) {
	t.Helper()

	h = hub.New(hub.Config{}, slog.Default())
	apiSrv := api.New(h, "127.0.0.1:0", api.ServerConfig{}, slog.Default())
	if register != nil {
		register(apiSrv.Router(), h, apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}

	done = func() {
		apiSrv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return apiSrv.Addr(), h, done
}

// StartAuthAPIServer is like StartAPIServer but requires the given password.
func StartAuthAPIServer(t *testing.T, password string, register func(r *api.Router, h *hub.Hub, apiSrv *api.Server)) (addr string, h *hub.Hub, done func()) {
	t.Helper()

	h = hub.New(hub.Config{}, slog.Default())
	apiSrv := api.New(h, "127.0.0.1:0", api.ServerConfig{Password: password}, slog.Default())
	if register != nil {
		register(apiSrv.Router(), h, apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}

	done = func() {
		apiSrv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return apiSrv.Addr(), h, done
}
