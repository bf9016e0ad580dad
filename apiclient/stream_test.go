package apiclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/JOYSTATE/apiclient"
	"github.com/Alia5/JOYSTATE/internal/log"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	joytesting "github.com/Alia5/JOYSTATE/internal/testing"
	"github.com/Alia5/JOYSTATE/snapshot"
)

func registerStreams(r *api.Router, h *hub.Hub, apiSrv *api.Server) {
	r.RegisterStream("device/{id}/feed", api.FeedStreamHandler(log.NewRaw(nil)))
	r.RegisterStream("device/{id}/watch", api.WatchStreamHandler(log.NewRaw(nil)))
}

func waitForState(t *testing.T, d *hub.Device, pred func(snapshot.Snapshot) bool) snapshot.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := d.State()
		if pred(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	last := d.State()
	t.Fatalf("state condition not reached, last state: %s", last.String())
	return snapshot.Snapshot{}
}

func TestFeedStreamPublishes(t *testing.T) {
	addr, h, done := joytesting.StartAPIServer(t, registerStreams)
	defer done()

	dev := h.Add("stick")

	c := apiclient.New(addr)
	feed, err := c.OpenFeed(context.Background(), dev.ID())
	require.NoError(t, err)

	var s snapshot.Snapshot
	s.SetConnected(true)
	s.SetButton(5, true)
	s.SetAxis(0, 16384)
	require.NoError(t, feed.Send(&s))

	got := waitForState(t, dev, func(s snapshot.Snapshot) bool { return s.Connected() })
	assert.True(t, got.ButtonDown(5))
	assert.Equal(t, int16(16384), got.RawAxis(0))
	assert.Equal(t, uint64(1), got.Sequence())

	// Dropping the feed marks the device disconnected.
	require.NoError(t, feed.Close())
	waitForState(t, dev, func(s snapshot.Snapshot) bool { return !s.Connected() })
}

func TestWatchStreamReceivesChanges(t *testing.T) {
	addr, h, done := joytesting.StartAPIServer(t, registerStreams)
	defer done()

	dev := h.Add("stick")

	c := apiclient.New(addr)
	watch, err := c.OpenWatch(context.Background(), dev.ID())
	require.NoError(t, err)
	defer watch.Close()

	// Initial frame carries the current (empty, disconnected) state.
	first, err := watch.Next()
	require.NoError(t, err)
	assert.False(t, first.Connected())

	var s snapshot.Snapshot
	s.SetConnected(true)
	s.SetHat(0, snapshot.HatUp)
	dev.Publish(s)

	second, err := watch.Next()
	require.NoError(t, err)
	assert.True(t, second.Connected())
	assert.Equal(t, snapshot.HatUp, second.Hat(0))
}

func TestWatchStartReading(t *testing.T) {
	addr, h, done := joytesting.StartAPIServer(t, registerStreams)
	defer done()

	dev := h.Add("stick")

	c := apiclient.New(addr)
	watch, err := c.OpenWatch(context.Background(), dev.ID())
	require.NoError(t, err)
	defer watch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msgCh, _ := watch.StartReading(ctx, 8)

	// Initial frame.
	<-msgCh

	var s snapshot.Snapshot
	s.SetConnected(true)
	s.SetButton(0, true)
	dev.Publish(s)

	select {
	case snap := <-msgCh:
		require.NotNil(t, snap)
		assert.True(t, snap.ButtonDown(0))
	case <-ctx.Done():
		t.Fatal("timed out waiting for watch frame")
	}
}

func TestStreamUnknownDevice(t *testing.T) {
	addr, _, done := joytesting.StartAPIServer(t, registerStreams)
	defer done()

	c := apiclient.New(addr)
	feed, err := c.OpenFeed(context.Background(), "999")
	// The path is written before the server responds, so the failure
	// surfaces on the first send or read.
	if err == nil {
		s := snapshot.New()
		sendErr := feed.Send(s)
		if sendErr == nil {
			// Server closes the connection after the error line.
			time.Sleep(50 * time.Millisecond)
			sendErr = feed.Send(s)
		}
		assert.Error(t, sendErr)
		_ = feed.Close()
	}
}
