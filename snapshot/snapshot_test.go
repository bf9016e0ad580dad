package snapshot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/JOYSTATE/snapshot"
)

func TestButtonRoundTrip(t *testing.T) {
	s := snapshot.New()
	for _, i := range []int{0, 1, 5, 63, snapshot.MaxButtons - 1} {
		s.SetButton(i, true)
		assert.True(t, s.ButtonDown(i), "button %d", i)
		assert.False(t, s.ButtonUp(i), "button %d", i)
		assert.Equal(t, snapshot.Pressed, s.Button(i))

		s.SetButton(i, false)
		assert.False(t, s.ButtonDown(i), "button %d", i)
		assert.True(t, s.ButtonUp(i), "button %d", i)
		assert.Equal(t, snapshot.Released, s.Button(i))
	}
}

func TestOutOfRangeAccessNeverFaults(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{name: "negative", index: -1},
		{name: "very negative", index: -1000},
		{name: "at button capacity", index: snapshot.MaxButtons},
		{name: "beyond capacity", index: 200},
		{name: "huge", index: 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot.New()
			before := s.Hash()

			assert.Equal(t, snapshot.Released, s.Button(tt.index))
			assert.False(t, s.ButtonDown(tt.index))
			assert.True(t, s.ButtonUp(tt.index))
			assert.Equal(t, 0.0, s.Axis(tt.index))
			assert.Equal(t, int16(0), s.RawAxis(tt.index))
			assert.Equal(t, snapshot.HatCentered, s.Hat(tt.index))

			s.SetButton(tt.index, true)
			s.SetAxis(tt.index, 1234)
			s.SetHat(tt.index, snapshot.HatUp)

			assert.Equal(t, before, s.Hash(), "out-of-range writes must leave the record unchanged")
			assert.True(t, s.Equal(snapshot.New()))
		})
	}
}

func TestAxisNormalization(t *testing.T) {
	tests := []struct {
		name string
		raw  int16
		want float64
	}{
		{name: "max positive", raw: 32767, want: 1.0},
		{name: "max negative", raw: -32768, want: -1.0},
		{name: "center", raw: 0, want: 0.0},
		{name: "half", raw: 16384, want: 0.5000076},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot.New()
			s.SetAxis(3, tt.raw)
			assert.InDelta(t, tt.want, s.Axis(3), 1e-4)
			assert.Equal(t, tt.raw, s.RawAxis(3))
		})
	}

	// The half deflection case is exact enough to pin down the scale factor.
	s := snapshot.New()
	s.SetAxis(0, 16384)
	assert.InDelta(t, 0.5000076, s.Axis(0), 1e-7)
}

func TestClearButtons(t *testing.T) {
	s := snapshot.New()
	assert.False(t, s.AnyButtonDown())

	s.SetButton(0, true)
	s.SetButton(snapshot.MaxButtons-1, true)
	assert.True(t, s.AnyButtonDown())

	s.ClearButtons()
	assert.False(t, s.AnyButtonDown())
}

func TestHats(t *testing.T) {
	s := snapshot.New()
	s.SetHat(0, snapshot.HatRightUp)
	s.SetHat(3, snapshot.HatDown)
	assert.Equal(t, snapshot.HatRightUp, s.Hat(0))
	assert.Equal(t, snapshot.HatCentered, s.Hat(1))
	assert.Equal(t, snapshot.HatDown, s.Hat(3))

	// Unknown bits are masked off.
	s.SetHat(1, snapshot.HatState(0xf0)|snapshot.HatLeft)
	assert.Equal(t, snapshot.HatLeft, s.Hat(1))
}

func TestEqualIgnoresSequence(t *testing.T) {
	build := func() *snapshot.Snapshot {
		s := snapshot.New()
		s.SetButton(5, true)
		s.SetAxis(0, 16384)
		s.SetConnected(true)
		return s
	}

	s1 := build()
	s2 := build()
	s2.SetSequence(99)

	assert.True(t, s1.Equal(s2))
	assert.True(t, s2.Equal(s1))
	assert.Equal(t, s1.Hash(), s2.Hash())
	assert.InDelta(t, 0.5000076, s1.Axis(0), 1e-7)
}

func TestEqualProperties(t *testing.T) {
	a := snapshot.New()
	a.SetButton(7, true)
	a.SetHat(2, snapshot.HatLeftDown)
	a.SetConnected(true)

	b := snapshot.New()
	b.SetButton(7, true)
	b.SetHat(2, snapshot.HatLeftDown)
	b.SetConnected(true)

	c := snapshot.New()
	c.SetButton(7, true)
	c.SetHat(2, snapshot.HatLeftDown)
	c.SetConnected(true)

	// Reflexive, symmetric, transitive.
	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, b.Equal(c))
	assert.True(t, a.Equal(c))

	tests := []struct {
		name   string
		mutate func(s *snapshot.Snapshot)
	}{
		{name: "axis differs", mutate: func(s *snapshot.Snapshot) { s.SetAxis(63, -1) }},
		{name: "button differs", mutate: func(s *snapshot.Snapshot) { s.SetButton(8, true) }},
		{name: "hat differs", mutate: func(s *snapshot.Snapshot) { s.SetHat(2, snapshot.HatUp) }},
		{name: "connectivity differs", mutate: func(s *snapshot.Snapshot) { s.SetConnected(false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := snapshot.New()
			d.SetButton(7, true)
			d.SetHat(2, snapshot.HatLeftDown)
			d.SetConnected(true)
			require.True(t, a.Equal(d))
			tt.mutate(d)
			assert.False(t, a.Equal(d))
		})
	}
}

func TestEqualNil(t *testing.T) {
	s := snapshot.New()
	assert.False(t, s.Equal(nil))
	var n *snapshot.Snapshot
	assert.True(t, n.Equal(nil))
}

func TestFreshSnapshotDefaults(t *testing.T) {
	s := snapshot.New()
	assert.False(t, s.Connected())
	assert.Equal(t, uint64(0), s.Sequence())
	assert.False(t, s.AnyButtonDown())
	for i := 0; i < snapshot.MaxAxes; i++ {
		assert.Equal(t, 0.0, s.Axis(i))
	}
	for i := 0; i < snapshot.NumHats; i++ {
		assert.Equal(t, snapshot.HatCentered, s.Hat(i))
	}
}

func TestString(t *testing.T) {
	s := snapshot.New()
	s.SetAxis(0, 16384)
	s.SetButton(1, true)
	s.SetHat(0, snapshot.HatUp)
	s.SetConnected(true)

	out := s.String()
	assert.True(t, strings.HasPrefix(out, "axes[0.5000 "))
	assert.Contains(t, out, "buttons[01")
	assert.Contains(t, out, "hat0=up")
	assert.Contains(t, out, "connected=true")

	// One bit per button slot.
	start := strings.Index(out, "buttons[") + len("buttons[")
	end := strings.Index(out[start:], "]")
	assert.Equal(t, snapshot.MaxButtons, end)
}

func TestHatStateString(t *testing.T) {
	assert.Equal(t, "centered", snapshot.HatCentered.String())
	assert.Equal(t, "up", snapshot.HatUp.String())
	assert.Equal(t, "up+right", snapshot.HatRightUp.String())
	assert.Equal(t, "down+left", snapshot.HatLeftDown.String())
}
