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

func TestPing(t *testing.T) {
	addr, _, done := joytesting.StartAPIServer(t, func(r *api.Router, h *hub.Hub, apiSrv *api.Server) {
		r.Register("ping", handler.Ping())
	})
	defer done()

	c := apiclient.NewTransport(addr)
	line, err := c.Do("ping", nil, nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"server":"JOYSTATE","version":"dev"}`, line)
}
