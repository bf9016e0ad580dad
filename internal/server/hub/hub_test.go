package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/JOYSTATE/internal/server/hub"
	"github.com/Alia5/JOYSTATE/snapshot"
)

func TestAddGetRemove(t *testing.T) {
	h := hub.New(hub.Config{}, nil)

	d1 := h.Add("stick-a")
	d2 := h.Add("stick-b")
	assert.NotEqual(t, d1.ID(), d2.ID())
	assert.Equal(t, "stick-a", d1.Name())

	assert.Same(t, d1, h.Get(d1.ID()))
	assert.Nil(t, h.Get("999"))

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, d1.ID(), list[0].ID())

	require.NoError(t, h.Remove(d1.ID()))
	assert.Nil(t, h.Get(d1.ID()))
	assert.Error(t, h.Remove(d1.ID()))
}

func TestPublishAssignsMonotonicSequence(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	var s snapshot.Snapshot
	s.SetConnected(true)
	seq1, changed := d.Publish(s)
	assert.Equal(t, uint64(1), seq1)
	assert.True(t, changed)

	s.SetButton(3, true)
	seq2, changed := d.Publish(s)
	assert.Equal(t, uint64(2), seq2)
	assert.True(t, changed)

	got := d.State()
	assert.Equal(t, uint64(2), got.Sequence())
	assert.True(t, got.ButtonDown(3))
	assert.True(t, got.Connected())
}

func TestPublishDeduplicatesIdenticalState(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	var s snapshot.Snapshot
	s.SetConnected(true)
	s.SetAxis(0, 16384)

	_, changed := d.Publish(s)
	require.True(t, changed)

	// Same device state in the next poll: only the sequence number moves,
	// which must not register as a change.
	_, changed = d.Publish(s)
	assert.False(t, changed)
	got := d.State()
	assert.Equal(t, uint64(2), got.Sequence())
}

func TestWatchReceivesOnlyChanges(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	ch, cancel := d.Watch()
	defer cancel()

	var s snapshot.Snapshot
	s.SetConnected(true)
	d.Publish(s)
	d.Publish(s) // identical, deduplicated
	s.SetButton(0, true)
	d.Publish(s)

	first := <-ch
	assert.True(t, first.Connected())
	assert.False(t, first.AnyButtonDown())

	second := <-ch
	assert.True(t, second.ButtonDown(0))

	select {
	case extra, ok := <-ch:
		if ok {
			t.Fatalf("unexpected extra frame seq=%d", extra.Sequence())
		}
	default:
	}
}

func TestWatchCancel(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	ch, cancel := d.Watch()
	cancel()
	cancel() // safe to call twice

	_, ok := <-ch
	assert.False(t, ok)

	var s snapshot.Snapshot
	s.SetConnected(true)
	_, changed := d.Publish(s)
	assert.True(t, changed)
}

func TestMarkDisconnected(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	var s snapshot.Snapshot
	s.SetConnected(true)
	s.SetButton(5, true)
	d.Publish(s)

	d.MarkDisconnected()
	got := d.State()
	assert.False(t, got.Connected())
	assert.False(t, got.AnyButtonDown())
	assert.Equal(t, uint64(2), got.Sequence())
}

func TestRemoveClosesWatchers(t *testing.T) {
	h := hub.New(hub.Config{}, nil)
	d := h.Add("stick")

	ch, cancel := d.Watch()
	defer cancel()

	require.NoError(t, h.Remove(d.ID()))
	_, ok := <-ch
	assert.False(t, ok)
}
