// Package snapshot provides the fixed-capacity per-poll state record for a
// joystick-class input device: analog axes, digital buttons, directional
// hats, a connectivity flag and a poll sequence number.
//
// A Snapshot is a plain value. The intended usage is single-writer (the
// device poller fills one snapshot per poll cycle) and multiple readers;
// across polls the safe pattern is snapshot replacement, not in-place
// mutation, so the previous frame stays available for comparison.
//
// Every indexed access is bounds checked. An out-of-range index never
// faults: reads return a documented default (0, Released, HatCentered) and
// writes are silent no-ops. Out-of-range accesses may emit an advisory
// diagnostic, see SetAdvisoryLogger.
package snapshot

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync/atomic"
)

const (
	// MaxAxes is the number of analog axis slots per device.
	MaxAxes = 64
	// MaxButtons is the number of digital button slots per device.
	MaxButtons = 128
)

// axisScale maps the raw signed 16-bit range onto [-1.0, 1.0].
const axisScale = 1.0 / (32767.0 + 0.5)

// ButtonState is the digital state of one button slot.
type ButtonState uint8

const (
	Released ButtonState = iota
	Pressed
)

func (b ButtonState) String() string {
	if b == Pressed {
		return "pressed"
	}
	return "released"
}

var advisory atomic.Pointer[slog.Logger]

func init() {
	advisory.Store(slog.New(slog.DiscardHandler))
}

// SetAdvisoryLogger sets the logger used for out-of-range index
// diagnostics. Diagnostics are discarded by default. Passing nil restores
// the discarding logger.
func SetAdvisoryLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	advisory.Store(l)
}

func advise(kind string, index int, max int) {
	advisory.Load().Debug("snapshot index out of range", "kind", kind, "index", index, "max", max)
}

// Snapshot is the last-known state of one input device. The zero value is
// a valid empty snapshot: all axes centered, all buttons released, all
// hats centered, disconnected, sequence 0.
type Snapshot struct {
	axes      [MaxAxes]int16
	buttons   [MaxButtons]bool
	hats      [NumHats]HatState
	connected bool
	seq       uint64
}

// New returns an empty snapshot.
func New() *Snapshot { return &Snapshot{} }

// Axis returns the normalized value of axis index in [-1.0, 1.0].
// Out-of-range indices return 0.
func (s *Snapshot) Axis(index int) float64 {
	return float64(s.RawAxis(index)) * axisScale
}

// RawAxis returns the raw signed 16-bit value of axis index.
// Out-of-range indices return 0.
func (s *Snapshot) RawAxis(index int) int16 {
	if index < 0 || index >= MaxAxes {
		advise("axis", index, MaxAxes)
		return 0
	}
	return s.axes[index]
}

// Button returns the state of button index. Out-of-range indices return
// Released.
func (s *Snapshot) Button(index int) ButtonState {
	if s.ButtonDown(index) {
		return Pressed
	}
	return Released
}

// ButtonDown reports whether button index is pressed. Out-of-range
// indices report false.
func (s *Snapshot) ButtonDown(index int) bool {
	if index < 0 || index >= MaxButtons {
		advise("button", index, MaxButtons)
		return false
	}
	return s.buttons[index]
}

// ButtonUp reports whether button index is released. Out-of-range indices
// report true.
func (s *Snapshot) ButtonUp(index int) bool {
	return !s.ButtonDown(index)
}

// AnyButtonDown reports whether at least one button slot is pressed.
func (s *Snapshot) AnyButtonDown() bool {
	for i := range s.buttons {
		if s.buttons[i] {
			return true
		}
	}
	return false
}

// Hat returns the state of hat id (0..NumHats-1). Unrecognized ids return
// HatCentered.
func (s *Snapshot) Hat(id int) HatState {
	if id < 0 || id >= NumHats {
		advise("hat", id, NumHats)
		return HatCentered
	}
	return s.hats[id]
}

// Connected reports the device connectivity flag.
func (s *Snapshot) Connected() bool { return s.connected }

// Sequence returns the poll sequence number. The sequence number
// identifies poll order only; it does not take part in Equal or Hash.
func (s *Snapshot) Sequence() uint64 { return s.seq }

// SetAxis stores the raw value for axis index. Out-of-range indices are a
// no-op.
func (s *Snapshot) SetAxis(index int, raw int16) {
	if index < 0 || index >= MaxAxes {
		advise("axis", index, MaxAxes)
		return
	}
	s.axes[index] = raw
}

// SetButton stores the pressed state for button index. Out-of-range
// indices are a no-op.
func (s *Snapshot) SetButton(index int, down bool) {
	if index < 0 || index >= MaxButtons {
		advise("button", index, MaxButtons)
		return
	}
	s.buttons[index] = down
}

// SetHat stores the state for hat id. Bits outside the four direction
// bits are masked off. Out-of-range ids are a no-op.
func (s *Snapshot) SetHat(id int, v HatState) {
	if id < 0 || id >= NumHats {
		advise("hat", id, NumHats)
		return
	}
	s.hats[id] = v & hatMask
}

// SetConnected sets the connectivity flag.
func (s *Snapshot) SetConnected(c bool) { s.connected = c }

// SetSequence sets the poll sequence number.
func (s *Snapshot) SetSequence(n uint64) { s.seq = n }

// ClearButtons releases every button slot. Used when reinitializing a
// snapshot before repopulating it from a fresh poll.
func (s *Snapshot) ClearButtons() {
	s.buttons = [MaxButtons]bool{}
}

// Equal reports structural equality over connectivity, buttons, raw axes
// and hats. The sequence number is excluded: two snapshots from different
// polls that captured identical device state compare equal.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.connected != o.connected {
		return false
	}
	for i := range s.buttons {
		if s.buttons[i] != o.buttons[i] {
			return false
		}
	}
	for i := range s.axes {
		if s.axes[i] != o.axes[i] {
			return false
		}
	}
	for i := range s.hats {
		if s.hats[i] != o.hats[i] {
			return false
		}
	}
	return true
}

// Hash returns a 64-bit FNV-1a hash over exactly the fields Equal
// compares. Snapshots that are Equal hash identically.
func (s *Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var b [2]byte
	if s.connected {
		b[0] = 1
	} else {
		b[0] = 0
	}
	_, _ = h.Write(b[:1])
	for i := range s.buttons {
		if s.buttons[i] {
			b[0] = 1
		} else {
			b[0] = 0
		}
		_, _ = h.Write(b[:1])
	}
	for i := range s.axes {
		v := uint16(s.axes[i])
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		_, _ = h.Write(b[:2])
	}
	for i := range s.hats {
		b[0] = byte(s.hats[i])
		_, _ = h.Write(b[:1])
	}
	return h.Sum64()
}

// String renders the axes as fixed-point decimals, the buttons as a dense
// bit string, the first hat and the connectivity flag.
func (s *Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString("axes[")
	for i := range s.axes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.4f", s.Axis(i))
	}
	sb.WriteString("] buttons[")
	for i := range s.buttons {
		if s.buttons[i] {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	fmt.Fprintf(&sb, "] hat0=%s connected=%t", s.hats[0], s.connected)
	return sb.String()
}
